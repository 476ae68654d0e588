package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/dashapi/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	HSTS               bool
	HTTPMetrics        middleware.HTTPMetricsRecorder
	AuthRejections     middleware.AuthRejectionRecorder

	// 認証ゲート
	TokenExtractor middleware.TokenExtractor
	TokenVerifier  middleware.TokenVerifier

	// 認証
	AuthService AuthServiceInterface
	Session     SessionWriter

	// 商品
	ProductService ProductServiceInterface

	// 稼働確認
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
}

// route はルートテーブルの1エントリ。
// protectedがtrueのルートは認証ゲートを通過したリクエストのみ処理する。
type route struct {
	method    string
	pattern   string
	protected bool
	handler   http.HandlerFunc
}

// routes は公開APIのルートテーブルを返す。
// 各(method, pattern)はちょうど1回だけ登録する。
func routes(deps *RouterDeps) []route {
	authHandler := NewAuthHandler(deps.AuthService, deps.Session)
	productHandler := NewProductHandler(deps.ProductService)
	systemHandler := NewSystemHandler(deps.HealthChecker)

	table := []route{
		{method: http.MethodGet, pattern: "/", handler: systemHandler.Root},
		{method: http.MethodGet, pattern: "/health", handler: systemHandler.Health},

		// 認証
		{method: http.MethodPost, pattern: "/api/login", handler: authHandler.Login},
		{method: http.MethodPost, pattern: "/api/logout", handler: authHandler.Logout},
		{method: http.MethodGet, pattern: "/api/me", protected: true, handler: authHandler.Me},

		// 商品
		{method: http.MethodGet, pattern: "/api/products", protected: true, handler: productHandler.ListProducts},
		{method: http.MethodPost, pattern: "/api/products", protected: true, handler: productHandler.CreateProduct},
		{method: http.MethodDelete, pattern: "/api/products/{id}", protected: true, handler: productHandler.DeleteProduct},
	}

	if deps.MetricsHandler != nil {
		table = append(table, route{method: http.MethodGet, pattern: "/metrics", handler: deps.MetricsHandler.ServeHTTP})
	}

	return table
}

// validateRoutes は同じ(method, pattern)の重複登録を検出する。
// 同一ルートを認証ゲートの有無で二重に登録することを防ぐ。
func validateRoutes(table []route) error {
	seen := make(map[string]bool, len(table))
	for _, rt := range table {
		key := rt.method + " " + rt.pattern
		if seen[key] {
			return fmt.Errorf("duplicate route registration: %s", key)
		}
		seen[key] = true
	}
	return nil
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → (Auth) → handler
//
// CORSは全ルートに適用し、許可リスト外のオリジンはルーティング前に拒否する。
// 認証ゲートはprotectedなルートにのみ適用する。
func NewRouter(deps *RouterDeps) (http.Handler, error) {
	table := routes(deps)
	if err := validateRoutes(table); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.HSTS))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	systemHandler := NewSystemHandler(deps.HealthChecker)
	r.NotFound(systemHandler.NotFound)
	r.MethodNotAllowed(systemHandler.MethodNotAllowed)

	authGate := middleware.NewAuthMiddleware(deps.TokenExtractor, deps.TokenVerifier, deps.AuthRejections)

	for _, rt := range table {
		if rt.protected {
			r.With(authGate).Method(rt.method, rt.pattern, rt.handler)
			continue
		}
		r.Method(rt.method, rt.pattern, rt.handler)
	}

	return r, nil
}
