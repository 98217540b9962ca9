package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status values.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Invoice is a self-contained billing document. Party details are stored as
// free text on the invoice itself, and the single line item is modeled as
// scalar fields. The stored Total is authoritative for the document total;
// the rendered line-item amount is always recomputed as quantity*rate.
type Invoice struct {
	Id            string `json:"id" gorm:"primaryKey"`
	InvoiceName   string `json:"invoiceName" gorm:"not null"`
	InvoiceNumber string `json:"invoiceNumber" gorm:"not null;index"`
	Currency      string `json:"currency" gorm:"size:3;not null"`

	FromName    string `json:"fromName"`
	FromAddress string `json:"fromAddress"`
	FromEmail   string `json:"fromEmail"`

	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientEmail   string `json:"clientEmail"`

	Date    time.Time  `json:"date" gorm:"type:date;not null"`
	DueDate *time.Time `json:"dueDate" gorm:"type:date"`

	InvoiceItemDescription string  `json:"invoiceItemDescription"`
	InvoiceItemQuantity    int     `json:"invoiceItemQuantity"`
	InvoiceItemRate        float64 `json:"invoiceItemRate" gorm:"type:numeric(12,2)"`

	Total float64 `json:"total" gorm:"type:numeric(12,2)"`
	Note  string  `json:"note"`

	Status string `json:"status" gorm:"size:10;default:PENDING"`

	UserID string `json:"-" gorm:"index"`
	User   User   `json:"-" gorm:"foreignKey:UserID;references:Id"`

	CreatedAt time.Time `json:"created_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	invoice.Id = uuid.NewString()
	return
}
