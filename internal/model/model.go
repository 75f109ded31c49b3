// Package model содержит доменные сущности сервиса учёта сервисных заказов.
package model

import "time"

// RecordStatus описывает признак мягкого удаления записи.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusInactive RecordStatus = "inactive"
)

// Audit содержит служебные отметки времени создания и изменения записи.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter задаёт параметры выборки списков.
type ListFilter struct {
	IncludeInactive bool
	Limit           int
	Offset          int
}

// DefaultListLimit ограничивает размер списка, если лимит не указан.
const DefaultListLimit = 100

// Normalize возвращает фильтр с допустимыми значениями лимита и смещения.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = DefaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
