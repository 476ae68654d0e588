// Package session はトークンのHTTP上での受け渡し（Cookieとbearerヘッダー）を扱う。
package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieName はトークンを格納するCookie名。
const CookieName = "token"

// Config はSession Transportの設定。
type Config struct {
	Secure   bool
	SameSite http.SameSite
	Domain   string
	MaxAge   time.Duration
}

// Transport はリクエストからのトークン抽出と、レスポンスへのCookie書き込みを行う。
// 状態を持たないため、複数のリクエストから並行に利用できる。
type Transport struct {
	config Config
}

// NewTransport はTransportを生成する。
func NewTransport(config Config) *Transport {
	return &Transport{config: config}
}

// Extract はリクエストからトークン候補を取り出す。
// Cookieを優先し、無い場合はAuthorization: Bearerヘッダーを参照する。
// どちらも無い場合はok=falseを返す（資格情報の未提示）。
func (t *Transport) Extract(r *http.Request) (token string, ok bool) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return bearerToken(r.Header.Get("Authorization"))
}

// Write はトークンをHTTP Only Cookieとしてレスポンスに設定する。
func (t *Transport) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.cookie(token, int(t.config.MaxAge/time.Second)))
}

// Clear はトークンCookieを削除する。
// コピー済みのbearerトークンは無効化できない。
func (t *Transport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, t.cookie("", -1))
}

func (t *Transport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Domain:   t.config.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.config.Secure,
		SameSite: t.config.SameSite,
	}
}

// bearerToken はAuthorizationヘッダーからbearerトークンを取り出す。
// スキーム名の大文字小文字は区別しない。
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
