package model

import "time"

// ProductsCollection は商品ドキュメントを格納するコレクション名。
const ProductsCollection = "products"

// 商品ドキュメントのフィールド名
const (
	ProductFieldName      = "name"
	ProductFieldPrice     = "price"
	ProductFieldCreatedAt = "createdAt"
)

// Document はドキュメントストアの1レコードを表す。
// IDはストアが採番し、Fieldsはスキーマを持たない。
type Document struct {
	ID     string
	Fields map[string]any
}

// NewProduct は商品作成時の入力を表す。
// Priceは数値へ変換済みの値を保持する。
type NewProduct struct {
	Name      string
	Price     float64
	CreatedAt time.Time
}

// Fields はストアに保存するフィールドマップを返す。
func (p NewProduct) Fields() map[string]any {
	return map[string]any{
		ProductFieldName:      p.Name,
		ProductFieldPrice:     p.Price,
		ProductFieldCreatedAt: p.CreatedAt,
	}
}
