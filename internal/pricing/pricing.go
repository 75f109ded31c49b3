// Package pricing содержит расчёт стоимости строк и итоговой суммы сервисного заказа.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativePrice возвращается, если цена за единицу отрицательна.
	ErrNegativePrice = errors.New("unit price must not be negative")
	// ErrPriceOutOfRange возвращается, если цена не помещается в 10 целых и 2 дробных разряда.
	ErrPriceOutOfRange = errors.New("unit price must have at most 10 integer and 2 fraction digits")
	// ErrDiscountOutOfRange возвращается, если скидка выходит за пределы [0, 100]
	// или содержит больше двух знаков после запятой.
	ErrDiscountOutOfRange = errors.New("discount must be within [0, 100] with at most 2 fraction digits")
	// ErrNonPositiveQuantity возвращается, если количество не больше нуля.
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	// ErrQuantityOutOfRange возвращается, если количество не помещается в 9 целых и 3 дробных разряда.
	ErrQuantityOutOfRange = errors.New("quantity must have at most 9 integer and 3 fraction digits")
)

// Разрядность хранимых значений.
const (
	PriceScale    = 2
	QuantityScale = 3
	DiscountScale = 2
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	priceLimit    = decimal.New(1, 10)
	quantityLimit = decimal.New(1, 9)
)

// Line описывает минимальный набор данных строки заказа, необходимый для расчёта.
type Line struct {
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Quantity  decimal.Decimal
}

// DiscountPercentage переводит скидку в процентных пунктах в долю.
// Неположительная скидка даёт ноль.
func DiscountPercentage(discount decimal.Decimal) decimal.Decimal {
	if !discount.IsPositive() {
		return decimal.Zero
	}
	return discount.Div(hundred)
}

// DiscountedPrice возвращает цену за единицу с учётом скидки.
func DiscountedPrice(unitPrice, discount decimal.Decimal) decimal.Decimal {
	pct := DiscountPercentage(discount)
	if pct.IsZero() {
		return unitPrice
	}
	return unitPrice.Mul(one.Sub(pct))
}

// LineTotal возвращает стоимость строки: цена со скидкой, умноженная на количество.
// Знак количества не проверяется.
func LineTotal(unitPrice, discount, quantity decimal.Decimal) decimal.Decimal {
	return DiscountedPrice(unitPrice, discount).Mul(quantity)
}

// Total возвращает стоимость строки.
func (l Line) Total() decimal.Decimal {
	return LineTotal(l.UnitPrice, l.Discount, l.Quantity)
}

// OrderTotal суммирует стоимость всех строк заказа. Для пустого набора возвращает ноль.
func OrderTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

// FormatAmount форматирует сумму с двумя знаками после запятой.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatOrderTotal возвращает итоговую сумму заказа в виде строки с двумя знаками после запятой.
func FormatOrderTotal(lines []Line) string {
	return FormatAmount(OrderTotal(lines))
}

// ValidatePrice проверяет цену за единицу перед сохранением.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !fits(price, PriceScale, priceLimit) {
		return ErrPriceOutOfRange
	}
	return nil
}

// Validate проверяет входные значения строки перед сохранением.
func Validate(l Line) error {
	if err := ValidatePrice(l.UnitPrice); err != nil {
		return err
	}
	if l.Discount.IsNegative() || l.Discount.GreaterThan(hundred) || !fits(l.Discount, DiscountScale, priceLimit) {
		return ErrDiscountOutOfRange
	}
	if !l.Quantity.IsPositive() {
		return ErrNonPositiveQuantity
	}
	if !fits(l.Quantity, QuantityScale, quantityLimit) {
		return ErrQuantityOutOfRange
	}
	return nil
}

// fits сообщает, что значение имеет не больше scale дробных разрядов и по модулю меньше limit.
func fits(d decimal.Decimal, scale int32, limit decimal.Decimal) bool {
	return d.Equal(d.Truncate(scale)) && d.Abs().LessThan(limit)
}
