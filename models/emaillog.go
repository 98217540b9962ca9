package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailLog records one outbound templated-email dispatch attempt.
// Variables holds the exact template variable map that was sent, so a
// delivered email can be reconstructed later.
type EmailLog struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	InvoiceID    string         `json:"invoice_id" gorm:"index"`
	TemplateUUID string         `json:"template_uuid" gorm:"size:64"`
	Recipient    string         `json:"recipient"`
	Variables    datatypes.JSON `json:"variables" gorm:"type:jsonb"`
	Sent         bool           `json:"sent"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
