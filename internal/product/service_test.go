package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/dashapi/internal/model"
	"github.com/hitoshi/dashapi/internal/security"
	"github.com/hitoshi/dashapi/internal/store"
)

// mockDocumentStore はDocumentStoreのモック実装。
type mockDocumentStore struct {
	listFn   func(ctx context.Context, collection string) ([]model.Document, error)
	addFn    func(ctx context.Context, collection string, fields map[string]any) (string, error)
	deleteFn func(ctx context.Context, collection, id string) error
}

func (m *mockDocumentStore) List(ctx context.Context, collection string) ([]model.Document, error) {
	return m.listFn(ctx, collection)
}

func (m *mockDocumentStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	return m.addFn(ctx, collection, fields)
}

func (m *mockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	return m.deleteFn(ctx, collection, id)
}

var _ store.DocumentStore = (*mockDocumentStore)(nil)

func newTestService(docs store.DocumentStore) *Service {
	svc := NewService(docs, security.NewTextSanitizer())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*60*60)) }
	return svc
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T (%v)", err, err)
	}
	if apiErr.Code != code {
		t.Errorf("error code = %q, want %q", apiErr.Code, code)
	}
}

// TestService_CreateThenList は作成した商品が一覧に含まれることを検証する。
func TestService_CreateThenList(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())
	ctx := context.Background()

	id, err := svc.Create(ctx, "Widget", 9.99)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	docs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	doc := docs[0]
	if doc.ID != id {
		t.Errorf("ID = %q, want %q", doc.ID, id)
	}
	if doc.Fields[model.ProductFieldName] != "Widget" {
		t.Errorf("name = %v, want Widget", doc.Fields[model.ProductFieldName])
	}
	if doc.Fields[model.ProductFieldPrice] != 9.99 {
		t.Errorf("price = %v, want 9.99", doc.Fields[model.ProductFieldPrice])
	}
	// サーバー時刻をUTCで記録する
	if doc.Fields[model.ProductFieldCreatedAt] != "2024-05-01T03:00:00Z" {
		t.Errorf("createdAt = %v, want 2024-05-01T03:00:00Z", doc.Fields[model.ProductFieldCreatedAt])
	}
}

// TestService_Create_StringPrice は数値文字列の価格が数値に変換されることを検証する。
func TestService_Create_StringPrice(t *testing.T) {
	var stored map[string]any
	docs := &mockDocumentStore{
		addFn: func(_ context.Context, collection string, fields map[string]any) (string, error) {
			if collection != model.ProductsCollection {
				t.Errorf("collection = %q, want %q", collection, model.ProductsCollection)
			}
			stored = fields
			return "doc-1", nil
		},
	}
	svc := newTestService(docs)

	if _, err := svc.Create(context.Background(), "Gadget", "12.50"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if stored[model.ProductFieldPrice] != 12.5 {
		t.Errorf("price = %#v, want 12.5", stored[model.ProductFieldPrice])
	}
}

// TestService_Create_SanitizesName は商品名からHTMLが除去されることを検証する。
func TestService_Create_SanitizesName(t *testing.T) {
	var stored map[string]any
	docs := &mockDocumentStore{
		addFn: func(_ context.Context, _ string, fields map[string]any) (string, error) {
			stored = fields
			return "doc-1", nil
		},
	}
	svc := newTestService(docs)

	if _, err := svc.Create(context.Background(), `<script>alert(1)</script>Widget <b>Pro</b>`, 1); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if stored[model.ProductFieldName] != "Widget Pro" {
		t.Errorf("name = %q, want %q", stored[model.ProductFieldName], "Widget Pro")
	}
}

// TestService_Create_MissingFields は必須フィールド欠落時にValidationErrorを返すことを検証する。
func TestService_Create_MissingFields(t *testing.T) {
	called := false
	docs := &mockDocumentStore{
		addFn: func(context.Context, string, map[string]any) (string, error) {
			called = true
			return "", nil
		},
	}
	svc := newTestService(docs)
	ctx := context.Background()

	cases := []struct {
		name  string
		title string
		price any
	}{
		{name: "名前が空", title: "", price: 1.0},
		{name: "名前が空白のみ", title: "   ", price: 1.0},
		{name: "名前がタグのみ", title: "<b></b>", price: 1.0},
		{name: "価格が未指定", title: "Widget", price: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.title, tc.price)
			assertAPIErrorCode(t, err, model.ErrCodeValidation)
		})
	}
	if called {
		t.Error("store must not be called when validation fails")
	}
}

// TestService_Create_ZeroPrice は価格0が有効な値として受け付けられることを検証する。
func TestService_Create_ZeroPrice(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	if _, err := svc.Create(context.Background(), "Freebie", 0.0); err != nil {
		t.Errorf("Create with zero price returned error: %v", err)
	}
}

// TestService_Create_StoreFailure はストア障害時にStoreErrorを返すことを検証する。
func TestService_Create_StoreFailure(t *testing.T) {
	docs := &mockDocumentStore{
		addFn: func(context.Context, string, map[string]any) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	svc := newTestService(docs)

	_, err := svc.Create(context.Background(), "Widget", 9.99)
	assertAPIErrorCode(t, err, model.ErrCodeStore)

	// 内部エラーの詳細はメッセージに含めない
	if got := err.Error(); got != "[STORE_ERROR] Failed to create product" {
		t.Errorf("error = %q", got)
	}
}

// TestService_List_StoreFailure は一覧取得時のストア障害がStoreErrorになることを検証する。
func TestService_List_StoreFailure(t *testing.T) {
	docs := &mockDocumentStore{
		listFn: func(context.Context, string) ([]model.Document, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := newTestService(docs)

	_, err := svc.List(context.Background())
	assertAPIErrorCode(t, err, model.ErrCodeStore)
}

// TestService_Delete_MissingID は存在しないIDの削除が成功することを検証する。
func TestService_Delete_MissingID(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	if err := svc.Delete(context.Background(), "nonexistent"); err != nil {
		t.Errorf("Delete of missing id returned error: %v", err)
	}
}

// TestService_Delete_RemovesProduct は削除した商品が一覧から消えることを検証する。
func TestService_Delete_RemovesProduct(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())
	ctx := context.Background()

	id, _ := svc.Create(ctx, "Widget", 9.99)
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	docs, _ := svc.List(ctx)
	if len(docs) != 0 {
		t.Errorf("len(docs) = %d after delete, want 0", len(docs))
	}
}

// TestService_Delete_StoreFailure は削除時のストア障害がStoreErrorになることを検証する。
func TestService_Delete_StoreFailure(t *testing.T) {
	docs := &mockDocumentStore{
		deleteFn: func(context.Context, string, string) error {
			return errors.New("permission denied")
		},
	}
	svc := newTestService(docs)

	err := svc.Delete(context.Background(), "doc-1")
	assertAPIErrorCode(t, err, model.ErrCodeStore)
}

// TestCoercePrice は価格の変換規則を検証する。
func TestCoercePrice(t *testing.T) {
	cases := []struct {
		name    string
		input   any
		want    float64
		wantErr bool
	}{
		{name: "数値", input: 9.99, want: 9.99},
		{name: "整数", input: 5, want: 5},
		{name: "数値文字列", input: "12.5", want: 12.5},
		{name: "前後に空白のある数値文字列", input: " 3 ", want: 3},
		{name: "負の数", input: -1.5, want: -1.5},
		{name: "数値でない文字列", input: "abc", wantErr: true},
		{name: "空文字列", input: "", wantErr: true},
		{name: "NaN文字列", input: "NaN", wantErr: true},
		{name: "Inf文字列", input: "Inf", wantErr: true},
		{name: "真偽値", input: true, wantErr: true},
		{name: "オブジェクト", input: map[string]any{"amount": 1}, wantErr: true},
		{name: "配列", input: []any{1}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CoercePrice(tc.input)
			if tc.wantErr {
				assertAPIErrorCode(t, err, model.ErrCodeValidation)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("CoercePrice(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
