// Package mailer dispatches templated transactional email through a
// Mailtrap-compatible send API. All display formatting (dates, amounts,
// links) happens here, before dispatch; the remote template only does
// variable substitution.
package mailer

import (
	"fmt"
	"strings"

	"slygems-backend/models"
	"slygems-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Config is injected from main; the package never reads the process
// environment itself, so things like the invoice link host are explicit
// values rather than runtime-environment branches.
type Config struct {
	APIURL string // e.g. https://send.api.mailtrap.io/api/send
	Token  string

	SenderName  string
	SenderEmail string

	// BaseURL is the public origin used to build invoice links.
	BaseURL string

	// Company details substituted into the reminder template.
	CompanyName    string
	CompanyAddress string
	CompanyCity    string
	CompanyZip     string
	CompanyCountry string

	TemplateInvoiceCreated string
	TemplateInvoiceUpdated string
	TemplateReminder       string
}

// Message is one fully-resolved dispatch: template, recipient and the flat
// pre-formatted variable map.
type Message struct {
	TemplateUUID string
	To           string
	Variables    map[string]string
}

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From              address           `json:"from"`
	To                []address         `json:"to"`
	TemplateUUID      string            `json:"template_uuid"`
	TemplateVariables map[string]string `json:"template_variables"`
}

// Send posts the message to the send API. Callers treat a failure as a
// generic notification failure; nothing is retried here.
func (m *Client) Send(msg Message) error {
	payload := sendRequest{
		From:              address{Email: m.cfg.SenderEmail, Name: m.cfg.SenderName},
		To:                []address{{Email: msg.To}},
		TemplateUUID:      msg.TemplateUUID,
		TemplateVariables: msg.Variables,
	}

	agent := fiber.Post(m.cfg.APIURL)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+m.cfg.Token)
	agent.JSON(payload)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code >= 300 {
		return fmt.Errorf("mail send failed: status %d: %s", code, body)
	}
	return nil
}

// InvoiceCreated builds the "new invoice" status message for the client.
func (m *Client) InvoiceCreated(inv models.Invoice) Message {
	return Message{
		TemplateUUID: m.cfg.TemplateInvoiceCreated,
		To:           inv.ClientEmail,
		Variables:    m.statusVariables(inv),
	}
}

// InvoiceUpdated builds the "invoice updated" status message for the client.
func (m *Client) InvoiceUpdated(inv models.Invoice) Message {
	return Message{
		TemplateUUID: m.cfg.TemplateInvoiceUpdated,
		To:           inv.ClientEmail,
		Variables:    m.statusVariables(inv),
	}
}

// PaymentReminder builds the payment-reminder message for the client.
func (m *Client) PaymentReminder(inv models.Invoice) Message {
	return Message{
		TemplateUUID: m.cfg.TemplateReminder,
		To:           inv.ClientEmail,
		Variables: map[string]string{
			"first_name":            inv.ClientName,
			"company_info_name":     m.cfg.CompanyName,
			"company_info_address":  m.cfg.CompanyAddress,
			"company_info_city":     m.cfg.CompanyCity,
			"company_info_zip_code": m.cfg.CompanyZip,
			"company_info_country":  m.cfg.CompanyCountry,
		},
	}
}

func (m *Client) statusVariables(inv models.Invoice) map[string]string {
	return map[string]string{
		"clientName":     inv.ClientName,
		"invoiceNumber":  inv.InvoiceNumber,
		"invoiceDueDate": utils.FormatLongDate(inv.Date),
		"invoiceAmount":  utils.FormatCurrency(inv.Total, inv.Currency),
		"invoiceLink":    m.InvoiceLink(inv.Id),
	}
}

// InvoiceLink builds the public read-endpoint link for an invoice.
func (m *Client) InvoiceLink(invoiceID string) string {
	return strings.TrimRight(m.cfg.BaseURL, "/") + "/api/invoice/" + invoiceID
}
