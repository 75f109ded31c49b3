package model

import "github.com/shopspring/decimal"

// Brand описывает производителя техники.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Audit
}

// AssetCategory описывает категорию техники.
type AssetCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Audit
}

// Asset описывает модель техники из каталога.
type Asset struct {
	ID          int64        `json:"id"`
	ModelNumber string       `json:"model_number"`
	ModelName   string       `json:"model_name"`
	BrandID     int64        `json:"brand_id"`
	CategoryID  int64        `json:"category_id"`
	Status      RecordStatus `json:"status"`
	Audit
}

// MaterialCategory описывает категорию материалов.
type MaterialCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Audit
}

// Material описывает материал или услугу, которые списываются в заказ.
type Material struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CategoryID int64           `json:"category_id"`
	Status     RecordStatus    `json:"status"`
	Audit
}
