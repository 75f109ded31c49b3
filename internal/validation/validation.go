// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid возвращается, если входные данные не прошли проверку.
var ErrInvalid = errors.New("validation failed")

// FieldError описывает нарушенное правило для одного поля.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Error содержит список нарушений, найденных при проверке структуры.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Rule)
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap позволяет сравнивать ошибку с ErrInvalid через errors.Is.
func (e *Error) Unwrap() error {
	return ErrInvalid
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	return v
}

// Struct проверяет структуру по тегам validate.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	res := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		res.Fields = append(res.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return res
}

// Var проверяет одно значение по правилам tag. Имя поля используется в тексте ошибки.
func Var(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	res := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		res.Fields = append(res.Fields, FieldError{Field: field, Rule: fe.Tag()})
	}
	return res
}

// IsValidPhone проверяет номер телефона: цифры, пробелы, скобки, дефисы и ведущий плюс.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return false
	}

	digits := 0
	for i, ch := range phone {
		switch {
		case unicode.IsDigit(ch):
			digits++
		case ch == '+' && i == 0:
		case ch == ' ' || ch == '-' || ch == '(' || ch == ')':
		default:
			return false
		}
	}

	return digits >= 5
}
