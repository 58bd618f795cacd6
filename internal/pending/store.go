// Package pending holds at most one deferred instruction across a login
// round trip. Writing overwrites, reading consumes: the slot is cleared
// in the same transaction that reads it, so a replayed instruction can
// never be observed twice.
package pending

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"parley/internal/types"
)

var (
	bucketPending = []byte("pending")
	keySlot       = []byte("instruction")
)

type Store interface {
	// Save serializes the instruction into the slot, unconditionally
	// overwriting any prior value.
	Save(ctx context.Context, instruction types.Instruction) error
	// Take returns the stored instruction and clears the slot. It returns
	// ok=false when the slot is empty or the viewer is unauthenticated;
	// in the unauthenticated case the slot is left untouched so the
	// instruction survives until an authenticated read. A payload that
	// fails to parse is treated as absent but still cleared.
	Take(ctx context.Context, authenticated bool) (types.Instruction, bool, error)
}

type BboltStore struct {
	db *bolt.DB
}

func Open(path string) (*BboltStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("pending store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPending)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltStore{db: db}, nil
}

func (s *BboltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BboltStore) Save(ctx context.Context, instruction types.Instruction) error {
	payload, err := json.Marshal(instruction)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPending).Put(keySlot, payload)
	})
}

func (s *BboltStore) Take(ctx context.Context, authenticated bool) (types.Instruction, bool, error) {
	if !authenticated {
		return types.Instruction{}, false, nil
	}
	var instruction types.Instruction
	found := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		payload := bucket.Get(keySlot)
		if payload == nil {
			return nil
		}
		if err := bucket.Delete(keySlot); err != nil {
			return err
		}
		if err := json.Unmarshal(payload, &instruction); err != nil {
			// Malformed content is treated as absent; the slot stays
			// cleared so the failure does not repeat.
			instruction = types.Instruction{}
			return nil
		}
		found = !instruction.IsZero()
		return nil
	})
	if err != nil {
		return types.Instruction{}, false, err
	}
	return instruction, found, nil
}

// MemoryStore is the in-memory variant used by tests and as a fallback
// when no durable path is available.
type MemoryStore struct {
	mu   sync.Mutex
	slot []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, instruction types.Instruction) error {
	payload, err := json.Marshal(instruction)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = payload
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, authenticated bool) (types.Instruction, bool, error) {
	if !authenticated {
		return types.Instruction{}, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot == nil {
		return types.Instruction{}, false, nil
	}
	payload := s.slot
	s.slot = nil
	var instruction types.Instruction
	if err := json.Unmarshal(payload, &instruction); err != nil {
		return types.Instruction{}, false, nil
	}
	return instruction, !instruction.IsZero(), nil
}
