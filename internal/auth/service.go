// Package auth は管理者ログイン、トークンの発行・検証を提供する。
package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/hitoshi/dashapi/internal/model"
)

// TokenIssuer はログイン成功時にトークンを発行するインターフェース。
type TokenIssuer interface {
	Issue(identity model.Identity) (model.IssuedToken, error)
}

// LoginRecorder はログイン試行結果を記録するインターフェース。
// metrics.Collectorが実装する。
type LoginRecorder interface {
	RecordLoginAttempt(success bool)
}

// LoginResult はログイン成功時の結果。
type LoginResult struct {
	Identity model.Identity
	Token    model.IssuedToken
}

// Service は管理者ログインのビジネスロジックを提供する。
type Service struct {
	credentials model.Credentials
	tokens      TokenIssuer
	recorder    LoginRecorder
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(credentials model.Credentials, tokens TokenIssuer, recorder LoginRecorder) *Service {
	return &Service{
		credentials: credentials,
		tokens:      tokens,
		recorder:    recorder,
	}
}

// Login はメールアドレスとパスワードを設定済みの管理者資格情報と照合し、
// 一致した場合はトークンを発行する。
//
// いずれかの値が空文字列の場合はBAD_REQUEST、一致しない場合はINVALID_CREDENTIALSを返す。
// 空白のみの値は空とみなさず、照合に失敗する。
// 照合は定数時間比較で行う。
func (s *Service) Login(email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, model.NewBadRequestError("Email and password are required")
	}

	if !s.matches(email, password) {
		slog.Warn("login failed", slog.String("email", email))
		s.record(false)
		return nil, model.NewInvalidCredentialsError()
	}

	identity := model.Identity{Email: s.credentials.Email}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("login succeeded", slog.String("email", identity.Email))
	s.record(true)

	return &LoginResult{Identity: identity, Token: token}, nil
}

// matches は両フィールドを常に比較し、結果を合成する。
func (s *Service) matches(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.credentials.Email))
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.credentials.Password))
	return emailOK&passwordOK == 1
}

func (s *Service) record(success bool) {
	if s.recorder != nil {
		s.recorder.RecordLoginAttempt(success)
	}
}
