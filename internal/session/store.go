// Package session implements the server-side session layer: a Redis-backed
// store with encrypted payloads and a manager that ties sessions to a signed
// cookie.
package session

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/slothcave/members-portal/internal/models"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Store defines how sessions are persisted and retrieved.
type Store interface {
	// Method Save persists the session under its ID until its expiry time.
	//
	// "session" parameter carries the session state including the expiry time.
	//
	// If the session cannot be persisted, the error will be returned.
	Save(ctx context.Context, session *models.Session) error
	// Method Get retrieves a session by its ID.
	//
	// "sessionID" parameter is the opaque session identifier.
	//
	// If no session exists for the ID, ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	// Method Delete removes a session by its ID.
	//
	// "sessionID" parameter is the opaque session identifier.
	//
	// Deleting a session that does not exist is not an error.
	Delete(ctx context.Context, sessionID string) error
}

const keyPrefix = "session:"

// redisStore persists sessions in Redis with AES-GCM encrypted payloads.
// The Redis TTL mirrors the session expiry, so expired sessions disappear
// from the store without a cleanup pass.
type redisStore struct {
	client *redis.Client
	aead   cipher.AEAD
}

// NewRedisStore creates a session store on top of the given Redis client.
// encryptionSecret protects the session payload at rest and is independent
// from the cookie signing secret.
func NewRedisStore(client *redis.Client, encryptionSecret string) (*redisStore, error) {
	if encryptionSecret == "" {
		return nil, errors.New("session encryption secret is required")
	}

	key := sha256.Sum256([]byte(encryptionSecret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}

	return &redisStore{
		client: client,
		aead:   aead,
	}, nil
}

// Save persists the session with a TTL matching its expiry time
func (s *redisStore) Save(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s is already expired", session.ID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sealed, err := s.seal(payload)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID, sealed, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves and decrypts a session by ID
func (s *redisStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	sealed, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	payload, err := s.open(sealed)
	if err != nil {
		return nil, err
	}

	session := &models.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return session, nil
}

// Delete removes a session by ID
func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// seal encrypts the payload, prefixing the random nonce
func (s *redisStore) seal(payload []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, payload, nil), nil
}

// open decrypts a sealed payload produced by seal
func (s *redisStore) open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errors.New("session payload too short")
	}

	payload, err := s.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session payload: %w", err)
	}

	return payload, nil
}
