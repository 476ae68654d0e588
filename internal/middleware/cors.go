package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/dashapi/internal/model"
)

// NewCORSMiddleware は許可リストに基づくCORSミドルウェアを返す。
//
//   - Originヘッダーが無いリクエスト（同一オリジン、curl等）はそのまま通す
//   - 許可リストに含まれるOriginには、そのOriginを返しcredentialsを許可する
//   - それ以外は認証情報の有無にかかわらず403 CORS_VIOLATIONで拒否する
//
// credentials送信と共存するため、ワイルドカード(*)は使用しない。
// OPTIONSプリフライトリクエストには204で応答する。
func NewCORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")

			if _, ok := allowed[origin]; !ok {
				slog.Warn("blocked by CORS", slog.String("origin", origin))
				WriteErrorResponse(w, http.StatusForbidden, model.NewCORSViolationError())
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Cookie")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "86400")

			// OPTIONSプリフライトリクエストには204で応答
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
