// Package service implements the tracker's rules layer: identity, projects, the task
// lifecycle, comments, the tag registry and metrics. Every operation resolves the
// actor's role first, then loads the entity, then checks membership or ownership,
// then validates the payload, and only then touches the store.
package service

import (
	"context"
	"errors"
	"time"

	"devtasker/internal/apperr"
	"devtasker/internal/auth"
	"devtasker/internal/models"
	"devtasker/internal/repository"
	"devtasker/pkg/logger"

	"go.uber.org/zap"
)

// Store is the persistence port. repository.Store and memory.Store implement it.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)

	CreateSession(ctx context.Context, sess *models.Session) error
	SessionByID(ctx context.Context, id string) (*models.Session, error)
	RevokeSession(ctx context.Context, id string, at time.Time) error

	CreateProject(ctx context.Context, p *models.Project, ownerID int64) error
	ProjectByID(ctx context.Context, id int64) (*models.Project, error)
	ProjectsByIDs(ctx context.Context, ids []int64) ([]models.Project, error)
	ProjectsByMember(ctx context.Context, userID int64) ([]models.Project, error)
	AddProjectMember(ctx context.Context, projectID, userID int64) error
	ProjectMembers(ctx context.Context, projectID int64, role models.Role) ([]models.User, error)

	Tags(ctx context.Context) ([]models.Tag, error)
	TagsByIDs(ctx context.Context, ids []int64) ([]models.Tag, error)
	TagByID(ctx context.Context, id int64) (*models.Tag, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id int64) error
	CountTasksWithTag(ctx context.Context, tagID int64) (int, error)

	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, t *models.Task) error
	UpdateTaskStatus(ctx context.Context, t *models.Task) error
	TaskByID(ctx context.Context, id int64) (*models.Task, error)
	FindTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id int64) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	CommentsByTaskIDs(ctx context.Context, taskIDs []int64) ([]models.Comment, error)
}

// SessionCache keeps validated sessions close to the request path. A miss is
// reported as a nil session and a nil error.
type SessionCache interface {
	Session(ctx context.Context, id string) (*models.Session, error)
	StoreSession(ctx context.Context, sess *models.Session) error
	ForgetSession(ctx context.Context, id string) error
}

// TagCache holds the tag lookup list. ok is false on a miss.
type TagCache interface {
	Tags(ctx context.Context) (tags []models.Tag, ok bool, err error)
	StoreTags(ctx context.Context, tags []models.Tag) error
	ForgetTags(ctx context.Context) error
}

// Publisher fans events out to live subscribers. Publish must not block.
type Publisher interface {
	Publish(ev models.Event)
}

type Config struct {
	TokenSecret string
	TokenTTL    time.Duration
	BcryptCost  int
}

type Service struct {
	store    Store
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenIssuer
	tokenTTL time.Duration
	sessions SessionCache
	tags     TagCache
	events   Publisher
	now      func() time.Time
}

type Option func(*Service)

func WithSessionCache(c SessionCache) Option { return func(s *Service) { s.sessions = c } }

func WithTagCache(c TagCache) Option { return func(s *Service) { s.tags = c } }

func WithPublisher(p Publisher) Option { return func(s *Service) { s.events = p } }

// WithClock replaces time.Now. Metrics derive "today" from it.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func New(store Store, cfg Config, opts ...Option) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Service{
		store:    store,
		hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
		tokens:   auth.NewTokenIssuer(cfg.TokenSecret),
		tokenTTL: ttl,
		sessions: nopCache{},
		tags:     nopCache{},
		events:   nopPublisher{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hasher exposes the password hasher for seeding.
func (s *Service) Hasher() *auth.PasswordHasher { return s.hasher }

type nopCache struct{}

func (nopCache) Session(context.Context, string) (*models.Session, error)   { return nil, nil }
func (nopCache) StoreSession(context.Context, *models.Session) error       { return nil }
func (nopCache) ForgetSession(context.Context, string) error               { return nil }
func (nopCache) Tags(context.Context) ([]models.Tag, bool, error)          { return nil, false, nil }
func (nopCache) StoreTags(context.Context, []models.Tag) error             { return nil }
func (nopCache) ForgetTags(context.Context) error                          { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(models.Event) {}

// storeErr maps a store failure to the client-facing taxonomy. resource names the
// entity for not-found errors.
func storeErr(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Store(err)
}

func cacheWarn(msg string, err error) {
	if err != nil {
		logger.ErrorLogger.Warn(msg, zap.Error(err))
	}
}
