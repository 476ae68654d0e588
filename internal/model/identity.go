// Package model はドメインモデルを定義する。
package model

import "time"

// Identity は認証済みの主体を表す。属性はメールアドレスのみ。
// ログイン時に設定済みの管理者資格情報から生成され、
// 保護されたリクエストごとにトークンから復元される。永続化はしない。
type Identity struct {
	Email string
}

// Credentials は唯一の管理者アカウントのメールアドレスとパスワード。
// 起動時に環境変数から読み込まれ、以後は変更されない。
type Credentials struct {
	Email    string
	Password string
}

// IssuedToken は発行済みトークンとその有効期限を表す。
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
