package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/dashapi/internal/model"
)

// トークン検証の失敗理由。Verifyはこのいずれかを返す。
var (
	// ErrInvalidSignature は現在の署名鍵で生成されていないトークンを表す。
	// 形式不正や未対応の署名アルゴリズム、emailクレームの欠落もこちらに分類する。
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired は有効期限を過ぎたトークンを表す。
	ErrExpired = errors.New("token expired")
)

// DefaultTokenTTL はトークンの既定の有効期間。
const DefaultTokenTTL = 24 * time.Hour

// Claims はトークンに埋め込むクレーム。
// Identity以外にはiatとexpのみを持つ。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService は署名付き・期限付きの識別トークンを発行・検証する。
// 署名鍵はプロセス全体で1つであり、起動後は変更されない。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService はTokenServiceを生成する。
// ttlが0以下の場合はDefaultTokenTTLを使用する。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL はトークンの有効期間を返す。
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue はIdentityのメールアドレスと有効期限を埋め込んだHS256トークンを発行する。
func (s *TokenService) Issue(identity model.Identity) (model.IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return model.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify はトークンを検証し、埋め込まれたIdentityを返す。
// 署名の検証は有効期限より先に行われるため、他の鍵で署名された期限切れトークンは
// ErrInvalidSignatureになる。emailクレームが空のトークンもErrInvalidSignatureとする。
// audienceやissuerの検証は行わない。
func (s *TokenService) Verify(token string) (model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, ErrExpired
		}
		return model.Identity{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if claims.Email == "" {
		return model.Identity{}, fmt.Errorf("%w: email claim is missing", ErrInvalidSignature)
	}

	return model.Identity{Email: claims.Email}, nil
}
