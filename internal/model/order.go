package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/service-manager/internal/pricing"
)

var (
	// ErrInvalidTransition возвращается при попытке перехода, недопустимого из текущего состояния заказа.
	ErrInvalidTransition = errors.New("invalid order state transition")
	// ErrAlreadyServiced возвращается при повторной отметке об обслуживании.
	ErrAlreadyServiced = errors.New("order already serviced")
	// ErrAlreadyCompleted возвращается при повторном завершении заказа.
	ErrAlreadyCompleted = errors.New("order already completed")
	// ErrOrderInactive возвращается при изменении удалённого заказа.
	ErrOrderInactive = errors.New("order is inactive")
)

// OrderState описывает стадию жизненного цикла сервисного заказа.
type OrderState string

const (
	OrderStateOpen      OrderState = "open"
	OrderStateServiced  OrderState = "serviced"
	OrderStateCompleted OrderState = "completed"
)

// ServiceOrder описывает заголовок сервисного заказа на обслуживание техники клиента.
type ServiceOrder struct {
	ID              int64        `json:"id"`
	Reference       uuid.UUID    `json:"reference"`
	CustomerID      int64        `json:"customer_id"`
	CustomerAssetID int64        `json:"customer_asset_id"`
	HandedOverBy    int64        `json:"handed_over_by"`
	DepartmentID    *int64       `json:"department_id,omitempty"`
	IsServiced      bool         `json:"is_serviced"`
	IsCompleted     bool         `json:"is_completed"`
	ServicedBy      *int64       `json:"serviced_by,omitempty"`
	ServicedOn      *time.Time   `json:"serviced_on,omitempty"`
	CompletedBy     *int64       `json:"completed_by,omitempty"`
	CompletedOn     *time.Time   `json:"completed_on,omitempty"`
	HandedOverTo    *int64       `json:"handed_over_to,omitempty"`
	Status          RecordStatus `json:"status"`
	Audit

	Lines []ServiceOrderLine `json:"lines,omitempty"`
}

// NewServiceOrder создаёт открытый заказ с новым публичным идентификатором.
func NewServiceOrder(customerID, customerAssetID, handedOverBy int64, departmentID *int64) ServiceOrder {
	return ServiceOrder{
		Reference:       uuid.New(),
		CustomerID:      customerID,
		CustomerAssetID: customerAssetID,
		HandedOverBy:    handedOverBy,
		DepartmentID:    departmentID,
		Status:          RecordStatusActive,
	}
}

// State возвращает текущую стадию жизненного цикла заказа.
func (o *ServiceOrder) State() OrderState {
	switch {
	case o.IsCompleted:
		return OrderStateCompleted
	case o.IsServiced:
		return OrderStateServiced
	default:
		return OrderStateOpen
	}
}

// MarkServiced переводит открытый заказ в состояние «обслужен» и фиксирует исполнителя и время.
func (o *ServiceOrder) MarkServiced(actorID int64, now time.Time) error {
	if o.Status == RecordStatusInactive {
		return ErrOrderInactive
	}
	if o.IsServiced {
		return ErrAlreadyServiced
	}

	o.IsServiced = true
	o.ServicedBy = &actorID
	o.ServicedOn = &now
	return nil
}

// MarkCompleted завершает обслуженный заказ. Время завершения не может быть раньше времени обслуживания.
func (o *ServiceOrder) MarkCompleted(actorID int64, now time.Time) error {
	if o.Status == RecordStatusInactive {
		return ErrOrderInactive
	}
	if o.IsCompleted {
		return ErrAlreadyCompleted
	}
	if !o.IsServiced {
		return ErrInvalidTransition
	}

	if o.ServicedOn != nil && now.Before(*o.ServicedOn) {
		now = *o.ServicedOn
	}

	o.IsCompleted = true
	o.CompletedBy = &actorID
	o.CompletedOn = &now
	return nil
}

// HandOver фиксирует представителя клиента, которому возвращена техника.
func (o *ServiceOrder) HandOver(representativeID int64) error {
	if o.Status == RecordStatusInactive {
		return ErrOrderInactive
	}
	if !o.IsCompleted {
		return ErrInvalidTransition
	}
	o.HandedOverTo = &representativeID
	return nil
}

// TotalAmountDue возвращает итоговую сумму заказа с двумя знаками после запятой.
func (o *ServiceOrder) TotalAmountDue() string {
	return LinesTotal(o.Lines)
}

// LinesTotal возвращает итоговую сумму строк с двумя знаками после запятой.
func LinesTotal(lines []ServiceOrderLine) string {
	pl := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		pl = append(pl, l.PricingLine())
	}
	return pricing.FormatOrderTotal(pl)
}

// OrderSummary описывает заказ вместе с его стадией и итоговой суммой для отображения.
type OrderSummary struct {
	ServiceOrder
	State          OrderState `json:"state"`
	TotalAmountDue string     `json:"total_amount_due"`
}

// Summary возвращает представление заказа для отображения.
func (o *ServiceOrder) Summary() OrderSummary {
	return OrderSummary{
		ServiceOrder:   *o,
		State:          o.State(),
		TotalAmountDue: o.TotalAmountDue(),
	}
}

// ServiceOrderLine описывает строку заказа: материал, количество и скидку.
// Цена за единицу фиксируется в момент добавления строки.
type ServiceOrderLine struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	MaterialID   int64           `json:"material_id"`
	MaterialName string          `json:"material_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	Discount     decimal.Decimal `json:"discount"`
	Audit
}

// PricingLine возвращает данные строки, необходимые для расчёта стоимости.
func (l ServiceOrderLine) PricingLine() pricing.Line {
	return pricing.Line{
		UnitPrice: l.UnitPrice,
		Discount:  l.Discount,
		Quantity:  l.Quantity,
	}
}

// DiscountedPrice возвращает цену за единицу с учётом скидки.
func (l ServiceOrderLine) DiscountedPrice() decimal.Decimal {
	return pricing.DiscountedPrice(l.UnitPrice, l.Discount)
}

// Total возвращает стоимость строки.
func (l ServiceOrderLine) Total() decimal.Decimal {
	return l.PricingLine().Total()
}

// ServiceOrderNote описывает текстовую заметку сотрудника к заказу.
type ServiceOrderNote struct {
	ID       int64  `json:"id"`
	OrderID  int64  `json:"order_id"`
	AuthorID int64  `json:"author_id"`
	Note     string `json:"note"`
	Audit
}

// OrderListFilter задаёт параметры выборки заказов.
type OrderListFilter struct {
	ListFilter
	CustomerID *int64
	State      *OrderState
}
