package mailer

import (
	"testing"
	"time"

	"slygems-backend/models"

	"github.com/stretchr/testify/assert"
)

func testClient() *Client {
	return New(Config{
		BaseURL:                "http://localhost:8080/",
		CompanyName:            "Sly Gems",
		CompanyAddress:         "Nairobi street 124",
		CompanyCity:            "Nairobi",
		CompanyZip:             "345345",
		CompanyCountry:         "Kenya",
		TemplateInvoiceCreated: "tpl-created",
		TemplateInvoiceUpdated: "tpl-updated",
		TemplateReminder:       "tpl-reminder",
	})
}

func testInvoice() models.Invoice {
	return models.Invoice{
		Id:            "abc-123",
		InvoiceNumber: "INV-001",
		Currency:      "USD",
		ClientName:    "Acme",
		ClientEmail:   "a@acme.test",
		Date:          time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Total:         500,
	}
}

func TestInvoiceCreatedMessage(t *testing.T) {
	msg := testClient().InvoiceCreated(testInvoice())

	assert.Equal(t, "tpl-created", msg.TemplateUUID)
	assert.Equal(t, "a@acme.test", msg.To)
	assert.Equal(t, map[string]string{
		"clientName":     "Acme",
		"invoiceNumber":  "INV-001",
		"invoiceDueDate": "January 10, 2024",
		"invoiceAmount":  "USD 500.00",
		"invoiceLink":    "http://localhost:8080/api/invoice/abc-123",
	}, msg.Variables)
}

func TestInvoiceUpdatedMessage(t *testing.T) {
	msg := testClient().InvoiceUpdated(testInvoice())

	assert.Equal(t, "tpl-updated", msg.TemplateUUID)
	assert.Equal(t, "a@acme.test", msg.To)
	assert.Equal(t, "USD 500.00", msg.Variables["invoiceAmount"])
}

func TestPaymentReminderMessage(t *testing.T) {
	msg := testClient().PaymentReminder(testInvoice())

	assert.Equal(t, "tpl-reminder", msg.TemplateUUID)
	assert.Equal(t, "a@acme.test", msg.To)
	assert.Equal(t, map[string]string{
		"first_name":            "Acme",
		"company_info_name":     "Sly Gems",
		"company_info_address":  "Nairobi street 124",
		"company_info_city":     "Nairobi",
		"company_info_zip_code": "345345",
		"company_info_country":  "Kenya",
	}, msg.Variables)
}

func TestInvoiceLinkTrimsTrailingSlash(t *testing.T) {
	assert.Equal(t,
		"http://localhost:8080/api/invoice/xyz",
		testClient().InvoiceLink("xyz"))

	noSlash := New(Config{BaseURL: "https://billing.example.com"})
	assert.Equal(t,
		"https://billing.example.com/api/invoice/xyz",
		noSlash.InvoiceLink("xyz"))
}
