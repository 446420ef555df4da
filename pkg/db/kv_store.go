package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-core/pkg/db/models"
	"github.com/angelmondragon/storefront-core/pkg/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore persists store keys as rows of the kv_entries table.
type KVStore struct {
	client *Client
	now    func() time.Time
}

var _ store.Store = (*KVStore)(nil)

// NewKVStore builds a store on top of a migrated database.
func NewKVStore(client *Client) (*KVStore, error) {
	if client == nil || client.conn == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &KVStore{client: client, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.client.conn.WithContext(ctx).
		Where("store_key = ?", key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts the row so the whole value is replaced in one statement.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: s.now()}
	err := s.client.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"store_value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	err := s.client.conn.WithContext(ctx).
		Where("store_key = ?", key).
		Delete(&models.KVEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.client.Close()
}
