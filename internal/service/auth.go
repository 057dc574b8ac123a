package service

import (
	"context"
	"errors"

	"devtasker/internal/apperr"
	"devtasker/internal/auth"
	"devtasker/internal/models"
	"devtasker/internal/repository"
	"devtasker/internal/validation"
	"devtasker/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCredentials = "The email or password is incorrect."

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.PublicUser `json:"user"`
	Token string             `json:"token"`
}

// Register creates a developer account and opens its first session.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	switch {
	case errors.Is(err, auth.ErrPasswordTooLong):
		// max=72 counts characters; multi-byte passwords can still overflow.
		return nil, apperr.Field("password", "The password may not be greater than 72 bytes.")
	case err != nil:
		return nil, apperr.Internal(err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: models.RoleDeveloper}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintUserEmail) {
			return nil, apperr.Field("email", "The email has already been taken.")
		}
		return nil, apperr.Store(err)
	}
	token, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	logger.AuditLogger.Info("User registered", zap.Int64("user_id", u.ID))
	return &AuthResult{User: u.Public(), Token: token}, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.store.UserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		logger.SecurityLogger.Warn("Login with unknown email")
		return nil, apperr.Unauthenticated(invalidCredentials)
	case err != nil:
		return nil, apperr.Store(err)
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		logger.SecurityLogger.Warn("Login with wrong password", zap.Int64("user_id", u.ID))
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	token, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	logger.AuditLogger.Info("User logged in", zap.Int64("user_id", u.ID))
	return &AuthResult{User: u.Public(), Token: token}, nil
}

func (s *Service) issue(ctx context.Context, u *models.User) (string, error) {
	now := s.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return "", apperr.Store(err)
	}
	cacheWarn("Cache session", s.sessions.StoreSession(ctx, sess))

	token, err := s.tokens.Issue(auth.Claims{
		UserID:    u.ID,
		SessionID: sess.ID,
		IssuedAt:  sess.IssuedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user and live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error) {
	unauthenticated := apperr.Unauthenticated("You are not logged in or the token has expired.")
	if token == "" {
		return nil, nil, unauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, unauthenticated
	}

	sess, err := s.sessions.Session(ctx, claims.SessionID)
	cacheWarn("Read cached session", err)
	if sess == nil {
		sess, err = s.store.SessionByID(ctx, claims.SessionID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, unauthenticated
		case err != nil:
			return nil, nil, apperr.Store(err)
		}
		if sess.Active(s.now()) {
			if sess, err = s.cacheSession(ctx, sess); err != nil {
				return nil, nil, err
			}
		}
	}
	if sess.UserID != claims.UserID || !sess.Active(s.now()) {
		return nil, nil, unauthenticated
	}

	u, err := s.store.UserByID(ctx, sess.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil, unauthenticated
	case err != nil:
		return nil, nil, apperr.Store(err)
	}
	return u, sess, nil
}

// cacheSession caches an active session read from the store. A logout may revoke the
// row between that read and the cache write, after its own ForgetSession ran, so
// the row is read again and a revoked session is evicted.
func (s *Service) cacheSession(ctx context.Context, sess *models.Session) (*models.Session, error) {
	if _, ok := s.sessions.(nopCache); ok {
		return sess, nil
	}
	if err := s.sessions.StoreSession(ctx, sess); err != nil {
		cacheWarn("Cache session", err)
		return sess, nil
	}
	fresh, err := s.store.SessionByID(ctx, sess.ID)
	if err != nil {
		cacheWarn("Forget unverified session", s.sessions.ForgetSession(ctx, sess.ID))
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthenticated("You are not logged in or the token has expired.")
		}
		return nil, apperr.Store(err)
	}
	if !fresh.Active(s.now()) {
		cacheWarn("Forget revoked session", s.sessions.ForgetSession(ctx, sess.ID))
	}
	return fresh, nil
}

// Logout revokes only the session the token was issued for.
func (s *Service) Logout(ctx context.Context, token string) error {
	u, sess, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.RevokeSession(ctx, sess.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Unauthenticated("You are not logged in or the token has expired.")
		}
		return apperr.Store(err)
	}
	cacheWarn("Forget cached session", s.sessions.ForgetSession(ctx, sess.ID))
	logger.AuditLogger.Info("User logged out", zap.Int64("user_id", u.ID), zap.String("session_id", sess.ID))
	return nil
}
