package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danilofelipe32/nutriscan100/models"
)

// memBlobStore is an in-memory BlobStore for tests.
type memBlobStore struct {
	data map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{data: make(map[string][]byte)}
}

func (s *memBlobStore) Get(key string) ([]byte, bool, error) {
	payload, ok := s.data[key]
	return payload, ok, nil
}

func (s *memBlobStore) Set(key string, payload []byte) error {
	s.data[key] = payload
	return nil
}

func (s *memBlobStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

// failingBlobStore reads fine but refuses every write.
type failingBlobStore struct {
	*memBlobStore
}

func (s *failingBlobStore) Set(string, []byte) error {
	return errors.New("disk full")
}

func (s *failingBlobStore) Delete(string) error {
	return errors.New("disk full")
}

func newStore(t *testing.T, store BlobStore) *HistoryStore[models.BodyCompositionRecord] {
	t.Helper()
	return NewHistoryStore[models.BodyCompositionRecord](CompositionHistoryKey, store, zap.NewNop())
}

func record(date string, weight float64) models.BodyCompositionRecord {
	return models.BodyCompositionRecord{RecordedDate: date, WeightKg: weight}
}

func TestLoadAbsentKeyIsEmpty(t *testing.T) {
	h := newStore(t, newMemBlobStore())
	assert.Empty(t, h.Load())
}

func TestLoadCorruptPayloadIsEmpty(t *testing.T) {
	mem := newMemBlobStore()
	mem.data[CompositionHistoryKey] = []byte("{not json")

	h := newStore(t, mem)
	assert.Empty(t, h.Load())
}

func TestLoadReadFailureIsEmpty(t *testing.T) {
	h := newStore(t, &erroringReadStore{})
	assert.Empty(t, h.Load())
}

type erroringReadStore struct{}

func (s *erroringReadStore) Get(string) ([]byte, bool, error) {
	return nil, false, errors.New("io error")
}
func (s *erroringReadStore) Set(string, []byte) error { return nil }
func (s *erroringReadStore) Delete(string) error      { return nil }

func TestPrependOrdersNewestFirst(t *testing.T) {
	mem := newMemBlobStore()
	h := newStore(t, mem)

	_, err := h.Prepend(record("2024-01-01", 80))
	require.NoError(t, err)
	history, err := h.Prepend(record("2024-01-02", 79))
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "2024-01-02", history[0].RecordedDate)
	assert.Equal(t, "2024-01-01", history[1].RecordedDate)

	// A fresh store over the same payload sees the same order.
	reloaded := newStore(t, mem).Load()
	require.Len(t, reloaded, 2)
	assert.Equal(t, "2024-01-02", reloaded[0].RecordedDate)
}

func TestPrependThenRemoveAtHeadRoundTrips(t *testing.T) {
	h := newStore(t, newMemBlobStore())

	_, err := h.Prepend(record("2024-01-01", 80))
	require.NoError(t, err)
	history, err := h.RemoveAt(0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, h.Records())
}

func TestRemoveAtOutOfRange(t *testing.T) {
	h := newStore(t, newMemBlobStore())
	_, err := h.Prepend(record("2024-01-01", 80))
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 5} {
		_, err := h.RemoveAt(index)
		assert.ErrorIs(t, err, models.ErrIndexOutOfRange, "index %d", index)
		assert.Len(t, h.Records(), 1, "history must be unchanged after index %d", index)
	}
}

func TestClearRemovesPersistedKey(t *testing.T) {
	mem := newMemBlobStore()
	h := newStore(t, mem)

	_, err := h.Prepend(record("2024-01-01", 80))
	require.NoError(t, err)
	require.NoError(t, h.Clear())

	_, ok := mem.data[CompositionHistoryKey]
	assert.False(t, ok, "clear must delete the key, not write an empty list")
	assert.Empty(t, h.Load())
}

func TestPrependWriteFailureLeavesMemoryIntact(t *testing.T) {
	mem := newMemBlobStore()
	h := newStore(t, mem)
	_, err := h.Prepend(record("2024-01-01", 80))
	require.NoError(t, err)

	h2 := NewHistoryStore[models.BodyCompositionRecord](CompositionHistoryKey, &failingBlobStore{mem}, zap.NewNop())
	h2.Load()
	require.Len(t, h2.Records(), 1)

	_, err = h2.Prepend(record("2024-01-02", 79))
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Len(t, h2.Records(), 1, "failed write must not mutate the in-memory history")

	_, err = h2.RemoveAt(0)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Len(t, h2.Records(), 1)

	err = h2.Clear()
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Len(t, h2.Records(), 1)
}
