package controllers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"slygems-backend/middlewares"
	"slygems-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func validCreateDTO() CreateInvoiceDTO {
	return CreateInvoiceDTO{
		InvoiceName:            "Web Design",
		InvoiceNumber:          "INV-001",
		Currency:               "USD",
		FromName:               "Sly Gems",
		FromAddress:            "Nairobi street 124",
		FromEmail:              "hello@slygems.test",
		ClientName:             "Acme",
		ClientAddress:          "1 Long Street, City, Country",
		ClientEmail:            "a@acme.test",
		Date:                   time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		InvoiceItemDescription: "Consulting",
		InvoiceItemQuantity:    10,
		InvoiceItemRate:        50,
		Total:                  500,
	}
}

func TestCreateInvoiceDTOValidation(t *testing.T) {
	assert.NoError(t, middlewares.ValidateStruct(validCreateDTO()))

	missingNumber := validCreateDTO()
	missingNumber.InvoiceNumber = ""
	assert.Error(t, middlewares.ValidateStruct(missingNumber))

	badCurrency := validCreateDTO()
	badCurrency.Currency = "DOLLARS"
	assert.Error(t, middlewares.ValidateStruct(badCurrency))

	badEmail := validCreateDTO()
	badEmail.ClientEmail = "not-an-email"
	assert.Error(t, middlewares.ValidateStruct(badEmail))

	negativeRate := validCreateDTO()
	negativeRate.InvoiceItemRate = -1
	assert.Error(t, middlewares.ValidateStruct(negativeRate))

	badStatus := validCreateDTO()
	badStatus.Status = "OVERDUE"
	assert.Error(t, middlewares.ValidateStruct(badStatus))

	paid := validCreateDTO()
	paid.Status = "PAID"
	assert.NoError(t, middlewares.ValidateStruct(paid))
}

func TestUpdateInvoiceDTOValidation(t *testing.T) {
	assert.NoError(t, middlewares.ValidateStruct(UpdateInvoiceDTO{}), "all fields optional")

	rate := -5.0
	assert.Error(t, middlewares.ValidateStruct(UpdateInvoiceDTO{InvoiceItemRate: &rate}))

	email := "bad"
	assert.Error(t, middlewares.ValidateStruct(UpdateInvoiceDTO{ClientEmail: &email}))
}

func TestUpdateDTOColumnMapping(t *testing.T) {
	number := "INV-002"
	due := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	total := 750.0

	dto := UpdateInvoiceDTO{
		InvoiceNumber: &number,
		DueDate:       &due,
		Total:         &total,
	}

	updates := utils.UpdatesFromPtrDTO(&dto, invoiceColumnRenames)

	assert.Equal(t, map[string]any{
		"invoice_number": "INV-002",
		"due_date":       due,
		"total":          750.0,
	}, updates)
}

func TestGetInvoicesSurfacesQueryFailure(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)
	_ = db.AddError(errors.New("connection reset"))

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Get("/invoices", func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		c.Locals("tx", db)
		return GetInvoices(c)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/invoices", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
