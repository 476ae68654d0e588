package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/dashapi/internal/model"
)

// ProductServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type ProductServiceInterface interface {
	List(ctx context.Context) ([]model.Document, error)
	Create(ctx context.Context, name string, price any) (string, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler は商品リソースのHTTPハンドラー。
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductRequest struct {
	Name  string `json:"name"`
	Price any    `json:"price"`
}

type createProductResponse struct {
	ID string `json:"id"`
}

// ListProducts は全商品をidとフィールドを平坦化した配列で返す。
// GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		items = append(items, flattenDocument(doc))
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateProduct は商品を作成する。
// POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	id, err := h.service.Create(r.Context(), req.Name, req.Price)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createProductResponse{ID: id})
}

// DeleteProduct は商品を削除する。存在しないIDでも200を返す。
// DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted"})
}

// flattenDocument はドキュメントのフィールドにidを加えたマップを返す。
// フィールドに"id"があってもストアのIDを優先する。
func flattenDocument(doc model.Document) map[string]any {
	out := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		out[k] = v
	}
	out["id"] = doc.ID
	return out
}
