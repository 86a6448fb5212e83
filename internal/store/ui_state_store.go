// Package store persists the renderer's tiny UI blob. Everything else the
// renderer shows is a cache over backend truth and is never written to disk.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

var (
	bucketUIState = []byte("boatman-store")
	keyUIState    = []byte("ui_state")
)

type UIStateStore interface {
	Load(ctx context.Context) (*types.UIState, error)
	Save(ctx context.Context, state *types.UIState) error
	Close() error
}

type bboltUIStateStore struct {
	db *bolt.DB
}

func NewBboltUIStateStore(path string) (UIStateStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUIState)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltUIStateStore{db: db}, nil
}

// Load returns zero values when nothing has been saved yet.
func (s *bboltUIStateStore) Load(ctx context.Context) (*types.UIState, error) {
	state := &types.UIState{}
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketUIState)
		if bucket == nil {
			return nil
		}
		data := bucket.Get(keyUIState)
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *bboltUIStateStore) Save(ctx context.Context, state *types.UIState) error {
	if state == nil {
		return errors.New("state is required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketUIState)
		if err != nil {
			return err
		}
		return bucket.Put(keyUIState, data)
	})
}

func (s *bboltUIStateStore) Close() error {
	return s.db.Close()
}
