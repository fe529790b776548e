// Package domain defines the error taxonomy shared by all services.
// Handlers map these onto HTTP statuses; services never return raw GORM
// errors to callers.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple cases.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrOrderNotCompleted = errors.New("la orden de servicio no está completada")
	ErrDuplicateInvoice  = errors.New("la orden de servicio ya tiene una factura")
)

// ValidationError reports malformed or out-of-range input on a single field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// NewValidation builds a ValidationError for a field.
func NewValidation(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}

// InsufficientStockError is returned when a VENTA movement (or an order
// completion debiting stock) would drive a product's stock below zero.
// Stock is left unchanged.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d, Requerido: %d",
		e.Product, e.Available, e.Requested)
}

// InvalidStateError is returned when an operation is not allowed in the
// entity's current status (editing a non-PENDING order, double-paying an
// invoice, completing a cancelled order). It has no side effects.
type InvalidStateError struct {
	Entity    string // "orden" | "factura"
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("no se puede %s una %s en estado %s", e.Attempted, e.Entity, e.Current)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
