package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hitoshi/dashapi/internal/model"
)

type memoryEntry struct {
	id   string
	data []byte
}

// MemoryStore はプロセス内メモリにドキュメントを保持するストア。
// 開発環境とテストで使用する。フィールドはJSONとして保持するため、
// 読み出し時の型はPostgresStoreと同じになる（数値はfloat64、時刻は文字列）。
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]memoryEntry
	newID       func() string
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]memoryEntry),
		newID:       func() string { return uuid.New().String() },
	}
}

// List はコレクション内の全ドキュメントを追加順に返す。
func (s *MemoryStore) List(_ context.Context, collection string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.collections[collection]
	docs := make([]model.Document, 0, len(entries))
	for _, e := range entries {
		fields, err := decodeFields(e.data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", e.id, err)
		}
		docs = append(docs, model.Document{ID: e.id, Fields: fields})
	}
	return docs, nil
}

// Add はドキュメントを追加し、採番したIDを返す。
func (s *MemoryStore) Add(_ context.Context, collection string, fields map[string]any) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.collections[collection] = append(s.collections[collection], memoryEntry{id: id, data: data})
	return id, nil
}

// Delete は指定IDのドキュメントを削除する。存在しない場合は何もしない。
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.collections[collection]
	for i, e := range entries {
		if e.id == id {
			s.collections[collection] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	return nil
}

// Ping は常に成功する。
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func decodeFields(data []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
