// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/dashapi/internal/auth"
	"github.com/hitoshi/dashapi/internal/middleware"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(email, password string) (*auth.LoginResult, error)
}

// SessionWriter はトークンCookieを書き込み・削除するインターフェース。
// session.Transportが実装する。
type SessionWriter interface {
	Write(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

// AuthHandler はログイン・ログアウト・現在ユーザー取得のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	session SessionWriter
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, session SessionWriter) *AuthHandler {
	return &AuthHandler{
		service: service,
		session: session,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login は管理者資格情報を検証し、トークンをCookieとレスポンスボディの両方で返す。
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.session.Write(w, result.Token.Value)

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    userResponse{Email: result.Identity.Email},
		Token:   result.Token.Value,
	})
}

// Logout はトークンCookieを削除する。認証は要求しない。
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Me は認証済みIdentityのメールアドレスを返す。
// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		slog.Error("identity missing on protected route", slog.String("path", r.URL.Path))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Email: identity.Email})
}
