// Package product は商品リソースのドメインロジックを提供する。
package product

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/dashapi/internal/model"
	"github.com/hitoshi/dashapi/internal/security"
	"github.com/hitoshi/dashapi/internal/store"
)

// 入力検証のエラーメッセージ
const (
	msgRequiredFields = "Name and price are required"
	msgInvalidPrice   = "Price must be a number"
)

// Service は商品の一覧・作成・削除を提供するサービス層。
// 商品データはドキュメントストアが所有し、このサービスはキャッシュを持たない。
type Service struct {
	store     store.DocumentStore
	sanitizer security.TextSanitizer
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(docs store.DocumentStore, sanitizer security.TextSanitizer) *Service {
	return &Service{
		store:     docs,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// List は全商品をIDとフィールドを合わせたドキュメントとして返す。
func (s *Service) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.store.List(ctx, model.ProductsCollection)
	if err != nil {
		slog.Error("failed to list products", slog.String("error", err.Error()))
		return nil, model.NewStoreError("Failed to fetch products")
	}
	return docs, nil
}

// Create は商品を作成し、ストアが採番したIDを返す。
// priceはJSONの数値または数値文字列を受け付ける。nilは未指定として扱う。
func (s *Service) Create(ctx context.Context, name string, price any) (string, error) {
	name = strings.TrimSpace(s.sanitizer.Sanitize(name))
	if name == "" || price == nil {
		return "", model.NewValidationError(msgRequiredFields)
	}

	value, err := CoercePrice(price)
	if err != nil {
		return "", err
	}

	p := model.NewProduct{
		Name:      name,
		Price:     value,
		CreatedAt: s.now().UTC(),
	}

	id, err := s.store.Add(ctx, model.ProductsCollection, p.Fields())
	if err != nil {
		slog.Error("failed to create product", slog.String("error", err.Error()))
		return "", model.NewStoreError("Failed to create product")
	}

	slog.Info("product created", slog.String("id", id))
	return id, nil
}

// Delete は指定IDの商品を削除する。
// 存在確認は行わないため、存在しないIDでも成功する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, model.ProductsCollection, id); err != nil {
		slog.Error("failed to delete product",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return model.NewStoreError("Failed to delete product")
	}

	slog.Info("product deleted", slog.String("id", id))
	return nil
}

// CoercePrice はJSONから読み取った価格を数値に変換する。
// 数値はそのまま、文字列は浮動小数点数として解釈する。
// 解釈できない文字列、有限でない値、それ以外の型はValidationErrorを返す。
func CoercePrice(price any) (float64, error) {
	var value float64

	switch v := price.(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, model.NewValidationError(msgInvalidPrice)
		}
		value = parsed
	default:
		return 0, model.NewValidationError(msgInvalidPrice)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, model.NewValidationError(msgInvalidPrice)
	}
	return value, nil
}
