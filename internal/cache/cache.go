// Package cache keeps sessions and the tag lookup list in Redis, cache-aside. The
// relational store stays the source of truth; entries are dropped on logout and on
// any tag mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"devtasker/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	sessionPrefix = "session:"
	tagsKey       = "tags:lookup"
	tagsTTL       = 10 * time.Minute
)

type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func New(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

// Session returns nil, nil on a miss.
func (r *Redis) Session(ctx context.Context, id string) (*models.Session, error) {
	b, err := r.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess := &models.Session{}
	if err := json.Unmarshal(b, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StoreSession caches sess until it expires. Expired or revoked sessions are not
// cached.
func (r *Redis) StoreSession(ctx context.Context, sess *models.Session) error {
	ttl := sess.ExpiresAt.Sub(r.now())
	if ttl <= 0 || sess.RevokedAt != nil {
		return nil
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionPrefix+sess.ID, b, ttl).Err()
}

func (r *Redis) ForgetSession(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionPrefix+id).Err()
}

func (r *Redis) Tags(ctx context.Context) ([]models.Tag, bool, error) {
	b, err := r.client.Get(ctx, tagsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tags []models.Tag
	if err := json.Unmarshal(b, &tags); err != nil {
		return nil, false, err
	}
	return tags, true, nil
}

func (r *Redis) StoreTags(ctx context.Context, tags []models.Tag) error {
	if tags == nil {
		tags = []models.Tag{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, tagsKey, b, tagsTTL).Err()
}

func (r *Redis) ForgetTags(ctx context.Context) error {
	return r.client.Del(ctx, tagsKey).Err()
}
