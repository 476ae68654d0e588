package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/dashapi/internal/middleware"
	"github.com/hitoshi/dashapi/internal/model"
)

// healthCheckTimeout はストア疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// HealthChecker は依存先の疎通確認を行うインターフェース。
// store.Storeが実装する。
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SystemHandler は稼働確認系のHTTPハンドラー。
type SystemHandler struct {
	checker HealthChecker
}

// NewSystemHandler はSystemHandlerを生成する。
func NewSystemHandler(checker HealthChecker) *SystemHandler {
	return &SystemHandler{checker: checker}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Root は稼働メッセージを返す。
// GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Backend is running!"})
}

// Health はストアへの疎通を確認し、失敗時は503を返す。
// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.checker.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// NotFound は未定義ルートへのリクエストに404を返す。
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError(r.URL.Path))
}

// MethodNotAllowed は許可されていないメソッドに405を返す。
func (h *SystemHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, model.NewMethodNotAllowedError(r.Method))
}
