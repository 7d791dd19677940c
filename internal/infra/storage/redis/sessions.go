package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
)

// SessionStore keeps sessions in Redis so they survive restarts and can be
// shared between instances. Keys expire with the session TTL.
type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(addr, password string, db int) *SessionStore {
	return &SessionStore{client: goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	payload, err := json.Marshal(sessionRecord{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.Token), payload, ttl)
	pipe.SAdd(ctx, userKey(session.UserID), string(session.Token))
	pipe.ExpireGT(ctx, userKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &domainauth.Session{
		Token:     domainauth.Token(record.Token),
		UserID:    domainuser.ID(record.UserID),
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	pipe.SRem(ctx, userKey(session.UserID), string(token))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	tokens, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(domainauth.Token(token)))
	}
	pipe.Del(ctx, userKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}

type sessionRecord struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionKey(token domainauth.Token) string { return fmt.Sprintf("session:%s", token) }

func userKey(userID domainuser.ID) string { return fmt.Sprintf("user_sessions:%s", userID) }
