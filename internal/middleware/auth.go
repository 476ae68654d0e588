// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/dashapi/internal/auth"
	"github.com/hitoshi/dashapi/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済みIdentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// 認証拒否の理由（メトリクスのラベル）
const (
	RejectReasonMissing          = "missing"
	RejectReasonInvalidSignature = "invalid_signature"
	RejectReasonExpired          = "expired"
)

// TokenExtractor はリクエストからトークン候補を取り出すインターフェース。
// session.Transportが実装する。
type TokenExtractor interface {
	Extract(r *http.Request) (string, bool)
}

// TokenVerifier はトークンを検証してIdentityを返すインターフェース。
// auth.TokenServiceが実装する。
type TokenVerifier interface {
	Verify(token string) (model.Identity, error)
}

// AuthRejectionRecorder は認証拒否を記録するインターフェース。
type AuthRejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// NewAuthMiddleware は保護されたルートの前段で有効なトークンを要求するミドルウェアを返す。
//
//  1. 資格情報が提示されていない場合は401 Unauthorized
//  2. 署名不正または期限切れの場合は403 Forbidden
//  3. 成功時はIdentityをリクエストコンテキストに注入して次のハンドラーを呼ぶ
//
// リクエストごとに独立しており、共有状態を持たない。recorderはnilでもよい。
func NewAuthMiddleware(extractor TokenExtractor, verifier TokenVerifier, recorder AuthRejectionRecorder) func(next http.Handler) http.Handler {
	reject := func(reason string) {
		if recorder != nil {
			recorder.RecordAuthRejection(reason)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractor.Extract(r)
			if !ok {
				reject(RejectReasonMissing)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				reason := RejectReasonInvalidSignature
				if errors.Is(err, auth.ErrExpired) {
					reason = RejectReasonExpired
				}
				slog.Warn("token verification failed",
					slog.String("reason", reason),
					slog.String("path", r.URL.Path),
				)
				reject(reason)
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			annotateRequestLog(r.Context(), identity.Email)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証済みIdentityを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok || identity.Email == "" {
		return model.Identity{}, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
