package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type patchDTO struct {
	InvoiceNumber *string  `json:"invoiceNumber"`
	Currency      *string  `json:"currency"`
	Total         *float64 `json:"total"`
	Hidden        *string  `json:"-"`
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestUpdatesFromPtrDTO(t *testing.T) {
	dto := patchDTO{
		InvoiceNumber: strPtr("INV-002"),
		Total:         f64Ptr(250),
		Hidden:        strPtr("nope"),
	}

	updates := UpdatesFromPtrDTO(&dto, map[string]string{"invoiceNumber": "invoice_number"})

	assert.Equal(t, map[string]any{
		"invoice_number": "INV-002",
		"total":          250.0,
	}, updates)
}

func TestUpdatesFromPtrDTOEmpty(t *testing.T) {
	assert.Empty(t, UpdatesFromPtrDTO(&patchDTO{}, nil))
	assert.Empty(t, UpdatesFromPtrDTO(patchDTO{}, nil), "non-pointer input yields nothing")
}

func TestNormalizePtrDTO(t *testing.T) {
	dto := patchDTO{
		InvoiceNumber: strPtr("  INV-003  "),
		Total:         f64Ptr(10.006),
	}
	NormalizePtrDTO(&dto)

	assert.Equal(t, "INV-003", *dto.InvoiceNumber)
	assert.Equal(t, 10.01, *dto.Total)
	assert.Nil(t, dto.Currency, "nil fields stay nil")
}

type createDTO struct {
	Name string
	Rate float64
}

func TestNormalizeDTO(t *testing.T) {
	dto := createDTO{Name: "  Acme  ", Rate: 49.999}
	NormalizeDTO(&dto)

	assert.Equal(t, "Acme", dto.Name)
	assert.Equal(t, 50.0, dto.Rate)
}
