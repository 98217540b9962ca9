package controllers

import (
	"encoding/json"
	"log"
	"time"

	"slygems-backend/database"
	"slygems-backend/mailer"
	"slygems-backend/middlewares"
	"slygems-backend/models"
	"slygems-backend/pdf"
	"slygems-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Wired from main at startup.
var (
	Mail     *mailer.Client
	Composer *pdf.Composer
)

// CreateInvoiceDTO is the full submission payload. Validation failures are
// reported per-field by the central error handler before anything is
// persisted.
type CreateInvoiceDTO struct {
	InvoiceName   string `json:"invoiceName" validate:"required"`
	InvoiceNumber string `json:"invoiceNumber" validate:"required"`
	Currency      string `json:"currency" validate:"required,len=3"`

	FromName    string `json:"fromName" validate:"required"`
	FromAddress string `json:"fromAddress" validate:"required"`
	FromEmail   string `json:"fromEmail" validate:"required,email"`

	ClientName    string `json:"clientName" validate:"required"`
	ClientAddress string `json:"clientAddress" validate:"required"`
	ClientEmail   string `json:"clientEmail" validate:"required,email"`

	Date    time.Time  `json:"date" validate:"required"`
	DueDate *time.Time `json:"dueDate"`

	InvoiceItemDescription string  `json:"invoiceItemDescription" validate:"required"`
	InvoiceItemQuantity    int     `json:"invoiceItemQuantity" validate:"gte=0"`
	InvoiceItemRate        float64 `json:"invoiceItemRate" validate:"gte=0"`

	Total  float64 `json:"total" validate:"gte=0"`
	Note   string  `json:"note"`
	Status string  `json:"status" validate:"omitempty,oneof=PENDING PAID"`
}

// UpdateInvoiceDTO carries only the fields the caller wants changed.
type UpdateInvoiceDTO struct {
	InvoiceName   *string `json:"invoiceName"`
	InvoiceNumber *string `json:"invoiceNumber"`
	Currency      *string `json:"currency" validate:"omitempty,len=3"`

	FromName    *string `json:"fromName"`
	FromAddress *string `json:"fromAddress"`
	FromEmail   *string `json:"fromEmail" validate:"omitempty,email"`

	ClientName    *string `json:"clientName"`
	ClientAddress *string `json:"clientAddress"`
	ClientEmail   *string `json:"clientEmail" validate:"omitempty,email"`

	Date    *time.Time `json:"date"`
	DueDate *time.Time `json:"dueDate"`

	InvoiceItemDescription *string  `json:"invoiceItemDescription"`
	InvoiceItemQuantity    *int     `json:"invoiceItemQuantity" validate:"omitempty,gte=0"`
	InvoiceItemRate        *float64 `json:"invoiceItemRate" validate:"omitempty,gte=0"`

	Total  *float64 `json:"total" validate:"omitempty,gte=0"`
	Note   *string  `json:"note"`
	Status *string  `json:"status" validate:"omitempty,oneof=PENDING PAID"`
}

// json tag -> column name, where they differ.
var invoiceColumnRenames = map[string]string{
	"invoiceName":            "invoice_name",
	"invoiceNumber":          "invoice_number",
	"fromName":               "from_name",
	"fromAddress":            "from_address",
	"fromEmail":              "from_email",
	"clientName":             "client_name",
	"clientAddress":          "client_address",
	"clientEmail":            "client_email",
	"dueDate":                "due_date",
	"invoiceItemDescription": "invoice_item_description",
	"invoiceItemQuantity":    "invoice_item_quantity",
	"invoiceItemRate":        "invoice_item_rate",
}

// InvoiceReadResponse is the open read endpoint's payload: exactly the
// document fields, nothing about ownership or lifecycle.
type InvoiceReadResponse struct {
	InvoiceName   string `json:"invoiceName"`
	InvoiceNumber string `json:"invoiceNumber"`
	Currency      string `json:"currency"`

	FromName    string `json:"fromName"`
	FromAddress string `json:"fromAddress"`
	FromEmail   string `json:"fromEmail"`

	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientEmail   string `json:"clientEmail"`

	Date    time.Time  `json:"date"`
	DueDate *time.Time `json:"dueDate"`

	InvoiceItemDescription string  `json:"invoiceItemDescription"`
	InvoiceItemQuantity    int     `json:"invoiceItemQuantity"`
	InvoiceItemRate        float64 `json:"invoiceItemRate"`

	Total float64 `json:"total"`
	Note  string  `json:"note"`
}

func CreateInvoice(c *fiber.Ctx) error {
	var dto CreateInvoiceDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	userID, _ := c.Locals("userID").(string)

	status := dto.Status
	if status == "" {
		status = models.StatusPending
	}

	invoice := models.Invoice{
		InvoiceName:            dto.InvoiceName,
		InvoiceNumber:          dto.InvoiceNumber,
		Currency:               dto.Currency,
		FromName:               dto.FromName,
		FromAddress:            dto.FromAddress,
		FromEmail:              dto.FromEmail,
		ClientName:             dto.ClientName,
		ClientAddress:          dto.ClientAddress,
		ClientEmail:            dto.ClientEmail,
		Date:                   dto.Date,
		DueDate:                dto.DueDate,
		InvoiceItemDescription: dto.InvoiceItemDescription,
		InvoiceItemQuantity:    dto.InvoiceItemQuantity,
		InvoiceItemRate:        dto.InvoiceItemRate,
		Total:                  dto.Total,
		Note:                   dto.Note,
		Status:                 status,
		UserID:                 userID,
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if err := tx.Create(&invoice).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create invoice",
			"error":   err.Error(),
		})
	}

	// Notify the client. A failed send must not undo the persisted record,
	// so we respond 500 without returning an error (the request TX commits).
	msg := Mail.InvoiceCreated(invoice)
	if err := dispatch(invoice.Id, msg); err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{"message": "Failed to send Email"})
	}

	return c.JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	tx, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoices []models.Invoice
	if err := tx.Where("user_id = ?", userID).Order("created_at DESC").Find(&invoices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list invoices")
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"message":  "success",
	})
}

// GetInvoice is the open (unauthenticated) JSON read path used by invoice
// links in outbound email.
func GetInvoice(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.First(&invoice, "id = ?", c.Params("id")).Error; err != nil {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{"error": "Invoice not found"})
	}

	return c.JSON(InvoiceReadResponse{
		InvoiceName:            invoice.InvoiceName,
		InvoiceNumber:          invoice.InvoiceNumber,
		Currency:               invoice.Currency,
		FromName:               invoice.FromName,
		FromAddress:            invoice.FromAddress,
		FromEmail:              invoice.FromEmail,
		ClientName:             invoice.ClientName,
		ClientAddress:          invoice.ClientAddress,
		ClientEmail:            invoice.ClientEmail,
		Date:                   invoice.Date,
		DueDate:                invoice.DueDate,
		InvoiceItemDescription: invoice.InvoiceItemDescription,
		InvoiceItemQuantity:    invoice.InvoiceItemQuantity,
		InvoiceItemRate:        invoice.InvoiceItemRate,
		Total:                  invoice.Total,
		Note:                   invoice.Note,
	})
}

// DownloadInvoicePDF composes and serves the printable rendition.
func DownloadInvoicePDF(c *fiber.Ctx) error {
	var invoice models.Invoice
	if err := database.DB.First(&invoice, "id = ?", c.Params("id")).Error; err != nil {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{"error": "Invoice not found"})
	}

	doc, err := Composer.Compose(invoice)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not compose invoice document")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.Send(doc.Bytes)
}

func UpdateInvoice(c *fiber.Ctx) error {
	var dto UpdateInvoiceDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&dto)

	updates := utils.UpdatesFromPtrDTO(&dto, invoiceColumnRenames)
	if len(updates) == 0 {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{"message": "nothing to update"})
	}

	userID, _ := c.Locals("userID").(string)

	tx, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	res := tx.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		Updates(updates)
	if res.Error != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update invoice",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{"error": "Invoice not found"})
	}

	var invoice models.Invoice
	tx.First(&invoice, "id = ?", c.Params("id"))

	msg := Mail.InvoiceUpdated(invoice)
	if err := dispatch(invoice.Id, msg); err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{"message": "Failed to send Email"})
	}

	return c.JSON(invoice)
}

func DeleteInvoice(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	tx, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	res := tx.Where("id = ? AND user_id = ?", c.Params("id"), userID).Delete(&models.Invoice{})
	if res.Error != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not delete invoice",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{"error": "Invoice not found"})
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func MarkInvoicePaid(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	tx, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	res := tx.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		Update("status", models.StatusPaid)
	if res.Error != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not mark invoice paid",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{"error": "Invoice not found"})
	}

	var invoice models.Invoice
	tx.First(&invoice, "id = ?", c.Params("id"))
	return c.JSON(invoice)
}

func SendReminder(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	tx, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	if err := tx.First(&invoice, "id = ? AND user_id = ?", c.Params("id"), userID).Error; err != nil {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{"error": "Invoice not found"})
	}

	msg := Mail.PaymentReminder(invoice)
	if err := dispatch(invoice.Id, msg); err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{"error": "Failed to send Email reminder"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// dispatch sends msg and records the attempt in email_logs. The log write is
// best-effort and uses the shared handle so it survives a handler rollback.
func dispatch(invoiceID string, msg mailer.Message) error {
	sendErr := Mail.Send(msg)

	vars, _ := json.Marshal(msg.Variables)
	entry := models.EmailLog{
		InvoiceID:    invoiceID,
		TemplateUUID: msg.TemplateUUID,
		Recipient:    msg.To,
		Variables:    vars,
		Sent:         sendErr == nil,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("email log write failed: %v", err)
	}

	return sendErr
}
