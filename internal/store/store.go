// Package store はスキーマを持たないドキュメントストアのインターフェースと実装を提供する。
package store

import (
	"context"

	"github.com/hitoshi/dashapi/internal/model"
)

// DocumentStore はコレクション単位でドキュメントを保持するストアのインターフェース。
type DocumentStore interface {
	// List はコレクション内の全ドキュメントを返す。空の場合は空スライスを返す。
	List(ctx context.Context, collection string) ([]model.Document, error)

	// Add はドキュメントを追加し、ストアが採番したIDを返す。
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Delete は指定IDのドキュメントを削除する。
	// 存在しないIDでもエラーにしない。
	Delete(ctx context.Context, collection, id string) error
}

// Pinger はストアへの疎通確認を行うインターフェース。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store はDocumentStoreとPingerを合わせたインターフェース。
type Store interface {
	DocumentStore
	Pinger
}
