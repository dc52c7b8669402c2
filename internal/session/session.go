// Package session stores admin panel sessions in bbolt. Sessions are opaque
// random tokens with a fixed TTL, checked on every admin API call.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketSessions = "sessions"
	tokenLength    = 32
	sessionTTL     = 24 * time.Hour
)

// Store is the bbolt-backed session store.
type Store struct {
	db *bolt.DB
}

// Open opens the session database and creates the bucket.
func Open(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSessions))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create issues a new session token.
func (s *Store) Create(login string) (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(b)

	expiresAt := time.Now().Add(sessionTTL).Unix()
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketSessions))
		return bucket.Put([]byte(token), []byte(strconv.FormatInt(expiresAt, 10)+":"+login))
	})
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Validate reports whether a token names a live session and returns the
// login it was issued for. Expired sessions are deleted on sight.
func (s *Store) Validate(token string) (bool, string, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSessions)).Get([]byte(token))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, "", fmt.Errorf("failed to read session: %w", err)
	}
	if raw == nil {
		return false, "", nil
	}

	expiresAt, login := parseSession(string(raw))
	if time.Now().Unix() > expiresAt {
		_ = s.Delete(token)
		return false, "", nil
	}
	return true, login, nil
}

// Delete removes a session.
func (s *Store) Delete(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(token))
	})
}

func parseSession(raw string) (int64, string) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == ':' {
			expiresAt, err := strconv.ParseInt(raw[:i], 10, 64)
			if err != nil {
				return 0, ""
			}
			return expiresAt, raw[i+1:]
		}
	}
	return 0, ""
}
