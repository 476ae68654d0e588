// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, product, system
	Action   string // クライアント向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeStore              = "STORE_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeCORSViolation      = "CORS_VIOLATION"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewBadRequestError は不正な入力に対するエラーを生成する。
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeBadRequest,
		Message:  message,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewInvalidCredentialsError はメールアドレスまたはパスワードの不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid email or password",
		Category: "auth",
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}

// NewUnauthorizedError は資格情報が提示されていない場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized: No token provided",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は提示されたトークンが無効または期限切れの場合のエラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Forbidden: Invalid or expired token",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewValidationError は入力値検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "入力値を確認してください。",
	}
}

// NewStoreError はドキュメントストア障害のエラーを生成する。
// 内部の詳細は含めず、ログのみに記録する。
func NewStoreError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeStore,
		Message:  message,
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewNotFoundError は存在しないルートへのリクエストに対するエラーを生成する。
func NewNotFoundError(path string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("Route not found: %s", path),
		Category: "system",
		Action:   "URLを確認してください。",
	}
}

// NewMethodNotAllowedError は許可されていないHTTPメソッドに対するエラーを生成する。
func NewMethodNotAllowedError(method string) *APIError {
	return &APIError{
		Code:     ErrCodeMethodNotAllowed,
		Message:  fmt.Sprintf("Method not allowed: %s", method),
		Category: "system",
		Action:   "HTTPメソッドを確認してください。",
	}
}

// NewCORSViolationError は許可リスト外のオリジンからのリクエストに対するエラーを生成する。
func NewCORSViolationError() *APIError {
	return &APIError{
		Code:     ErrCodeCORSViolation,
		Message:  "CORS policy violation",
		Category: "auth",
		Action:   "許可されたオリジンからアクセスしてください。",
	}
}

// NewInternalError は内部サーバーエラーを生成する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
