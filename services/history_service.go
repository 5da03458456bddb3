package services

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/danilofelipe32/nutriscan100/models"
)

// Storage keys preserved from the original web client.
const (
	CompositionHistoryKey = "nutriScanCompositionHistory"
	AnalysisHistoryKey    = "nutriScanAnalysisHistory"
)

// HistoryStore keeps one ordered history (newest first) under a fixed key in a
// BlobStore. It serves a single logical session: callers sharing a key must
// serialize access themselves.
type HistoryStore[T any] struct {
	key     string
	store   BlobStore
	log     *zap.Logger
	records []T
}

func NewHistoryStore[T any](key string, store BlobStore, log *zap.Logger) *HistoryStore[T] {
	return &HistoryStore[T]{key: key, store: store, log: log}
}

// Load reads the persisted history. An absent key, unreadable storage or a
// corrupt payload all degrade to an empty history; none of them fail the
// caller. Anomalies go to the logger.
func (h *HistoryStore[T]) Load() []T {
	h.records = nil
	payload, ok, err := h.store.Get(h.key)
	if err != nil {
		h.log.Warn("history load failed, starting empty",
			zap.String("key", h.key), zap.Error(err))
		return h.snapshot()
	}
	if !ok {
		return h.snapshot()
	}
	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		h.log.Warn("history payload corrupt, starting empty",
			zap.String("key", h.key), zap.Error(err))
		return h.snapshot()
	}
	h.records = records
	return h.snapshot()
}

// Prepend inserts rec at the front and persists the whole sequence. On a write
// failure the in-memory history is left exactly as it was.
func (h *HistoryStore[T]) Prepend(rec T) ([]T, error) {
	updated := make([]T, 0, len(h.records)+1)
	updated = append(updated, rec)
	updated = append(updated, h.records...)
	if err := h.persist(updated); err != nil {
		return nil, err
	}
	h.records = updated
	return h.snapshot(), nil
}

// RemoveAt drops the record at index. Indexes outside [0, len) fail without
// touching the history.
func (h *HistoryStore[T]) RemoveAt(index int) ([]T, error) {
	if index < 0 || index >= len(h.records) {
		return nil, fmt.Errorf("%w: index %d, history length %d",
			models.ErrIndexOutOfRange, index, len(h.records))
	}
	updated := make([]T, 0, len(h.records)-1)
	updated = append(updated, h.records[:index]...)
	updated = append(updated, h.records[index+1:]...)
	if err := h.persist(updated); err != nil {
		return nil, err
	}
	h.records = updated
	return h.snapshot(), nil
}

// Clear drops the in-memory history and removes the persisted key entirely,
// not just an empty list. "Never loaded" and "explicitly cleared" both read
// back as empty afterwards.
func (h *HistoryStore[T]) Clear() error {
	if err := h.store.Delete(h.key); err != nil {
		return fmt.Errorf("%w: clear %s: %v", models.ErrPersistence, h.key, err)
	}
	h.records = nil
	return nil
}

// Records returns the current in-memory history without touching storage.
func (h *HistoryStore[T]) Records() []T {
	return h.snapshot()
}

func (h *HistoryStore[T]) persist(records []T) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", models.ErrPersistence, h.key, err)
	}
	if err := h.store.Set(h.key, payload); err != nil {
		return fmt.Errorf("%w: write %s: %v", models.ErrPersistence, h.key, err)
	}
	return nil
}

func (h *HistoryStore[T]) snapshot() []T {
	out := make([]T, len(h.records))
	copy(out, h.records)
	return out
}
