package store

import (
	"context"
	"time"

	"github.com/hitoshi/dashapi/internal/model"
)

// 計測対象の操作名
const (
	OperationList   = "list"
	OperationAdd    = "add"
	OperationDelete = "delete"
)

// OperationRecorder はストア操作の結果を記録するインターフェース。
type OperationRecorder interface {
	RecordStoreOperation(operation string, err error, duration time.Duration)
}

// InstrumentedStore は各操作の結果とレイテンシをOperationRecorderに記録するデコレータ。
type InstrumentedStore struct {
	next     Store
	recorder OperationRecorder
}

// NewInstrumentedStore はInstrumentedStoreを生成する。
func NewInstrumentedStore(next Store, recorder OperationRecorder) *InstrumentedStore {
	return &InstrumentedStore{next: next, recorder: recorder}
}

func (s *InstrumentedStore) List(ctx context.Context, collection string) ([]model.Document, error) {
	start := time.Now()
	docs, err := s.next.List(ctx, collection)
	s.recorder.RecordStoreOperation(OperationList, err, time.Since(start))
	return docs, err
}

func (s *InstrumentedStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	start := time.Now()
	id, err := s.next.Add(ctx, collection, fields)
	s.recorder.RecordStoreOperation(OperationAdd, err, time.Since(start))
	return id, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, collection, id)
	s.recorder.RecordStoreOperation(OperationDelete, err, time.Since(start))
	return err
}

// Ping は計測せずに委譲する。
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// compile-time interface check
var _ Store = (*InstrumentedStore)(nil)
