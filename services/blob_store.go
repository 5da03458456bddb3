package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/danilofelipe32/nutriscan100/models"
)

// BlobStore is the key-value persistence collaborator behind a history: one
// fixed key per history kind, the whole serialized sequence per value.
type BlobStore interface {
	// Get reports absence separately from failure.
	Get(key string) ([]byte, bool, error)
	Set(key string, payload []byte) error
	Delete(key string) error
}

// GormBlobStore keeps history payloads in the history_blobs table.
type GormBlobStore struct {
	db *gorm.DB
}

func NewGormBlobStore(db *gorm.DB) *GormBlobStore {
	return &GormBlobStore{db: db}
}

func (s *GormBlobStore) Get(key string) ([]byte, bool, error) {
	var blob models.HistoryBlob
	err := s.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read history blob %s: %w", key, err)
	}
	return blob.Payload, true, nil
}

func (s *GormBlobStore) Set(key string, payload []byte) error {
	blob := models.HistoryBlob{Key: key, Payload: payload}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("write history blob %s: %w", key, err)
	}
	return nil
}

func (s *GormBlobStore) Delete(key string) error {
	if err := s.db.Delete(&models.HistoryBlob{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete history blob %s: %w", key, err)
	}
	return nil
}
