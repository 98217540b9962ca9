// Package pdf renders a persisted invoice into a single-page A4 document.
//
// The layout is a fixed top-to-bottom flow: a colored banner, an invoice
// details block and two parallel address columns, a one-row line-items table,
// the totals line, an optional notes block and a page-anchored footer. Each
// section takes the current vertical cursor and returns the advanced one, so
// the flow arithmetic is testable without inspecting PDF output.
package pdf

import (
	"bytes"
	"image/png"
	"strconv"
	"strings"

	"slygems-backend/models"
	"slygems-backend/utils"

	"github.com/jung-kurt/gofpdf"
)

// Layout constants, all in millimeters on an A4 page.
const (
	marginX    = 20.0
	bandHeight = 40.0
	lineHeight = 5.0
	columnTop  = 60.0 // both address columns start here

	columnGap = 15.0 // gap after the taller of the two columns

	logoPlaceholder = "Your Logo"
	footerMessage   = "Thank you for doing business with slyGems!"
)

type rgb struct{ r, g, b int }

var (
	primaryColor  = rgb{40, 60, 80}
	secondaryText = rgb{90, 90, 90}
	darkText      = rgb{30, 30, 30}
	headerBg      = rgb{235, 235, 235}
	rowBg         = rgb{248, 248, 248}
	separatorCol  = rgb{200, 200, 200}
	white         = rgb{255, 255, 255}
	black         = rgb{0, 0, 0}
)

// Document is a composed, ready-to-serve PDF artifact.
type Document struct {
	Bytes    []byte
	Filename string
}

// Composer turns an Invoice into a Document. Each Compose call builds its own
// canvas; a Composer value is cheap and safe to share across requests.
type Composer struct {
	Logo LogoProvider

	compress bool
}

func NewComposer(logo LogoProvider) *Composer {
	return &Composer{Logo: logo, compress: true}
}

// Compose lays out the invoice onto a fresh A4 canvas. Missing fields render
// as empty strings or zeros; a failing logo asset falls back to the
// placeholder label. Compose never mutates inv.
func (cp *Composer) Compose(inv models.Invoice) (Document, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(cp.compress)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 10)
	setText(doc, darkText)

	pageW, pageH := doc.GetPageSize()

	cp.banner(doc, inv, pageW)

	leftY := cp.detailsSection(doc, inv, columnTop)
	leftY = cp.partySection(doc, "BILL TO:", inv.ClientName, inv.ClientAddress, inv.ClientEmail, marginX, leftY, pageW)

	rightX := pageW/2 + 10
	rightY := cp.partySection(doc, "BILLED FROM:", inv.FromName, inv.FromAddress, inv.FromEmail, rightX, columnTop, pageW)

	y := mergeColumns(leftY, rightY)
	y = cp.separatorRule(doc, y, pageW)
	y = cp.itemsTable(doc, inv, y, pageW)
	y = cp.totalsSection(doc, inv, y, pageW)
	cp.notesSection(doc, inv, y, pageW)
	cp.footer(doc, pageW, pageH)

	if doc.Err() {
		return Document{}, doc.Error()
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Document{}, err
	}
	return Document{Bytes: buf.Bytes(), Filename: Filename(inv.InvoiceNumber)}, nil
}

// Filename derives the suggested download name for an invoice document.
func Filename(invoiceNumber string) string {
	n := strings.TrimSpace(invoiceNumber)
	if n == "" {
		n = "Unknown"
	}
	return "invoice-" + n + ".pdf"
}

// banner draws the fixed-height colored band with the logo (or placeholder)
// and the right-aligned invoice and sender names.
func (cp *Composer) banner(doc *gofpdf.Fpdf, inv models.Invoice, pageW float64) {
	setFill(doc, primaryColor)
	doc.Rect(0, 0, pageW, bandHeight, "F")

	if !cp.drawLogo(doc) {
		setText(doc, white)
		doc.SetFont("Helvetica", "", 16)
		doc.Text(marginX, 22, logoPlaceholder)
	}

	setText(doc, white)
	doc.SetFont("Helvetica", "B", 16)
	textRight(doc, pageW-marginX, 20, strings.ToUpper(inv.InvoiceName))
	doc.SetFont("Helvetica", "", 10)
	textRight(doc, pageW-marginX, 28, strings.ToUpper(inv.FromName))

	// Reset for the content area.
	setText(doc, darkText)
	doc.SetFont("Helvetica", "", 10)
}

// drawLogo places the logo image in the band and reports whether it was
// drawn. Any failure (provider error, not a decodable PNG, gofpdf rejection)
// leaves the document usable and yields false.
func (cp *Composer) drawLogo(doc *gofpdf.Fpdf) bool {
	if cp.Logo == nil {
		return false
	}
	raw, err := cp.Logo.Load()
	if err != nil {
		return false
	}
	// Validate before handing to gofpdf so a corrupt asset cannot poison the
	// document's error state.
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("logo", opts, bytes.NewReader(raw))
	if doc.Err() {
		doc.ClearError()
		return false
	}
	doc.ImageOptions("logo", marginX, 8, 28, 24, false, opts, 0, "")
	if doc.Err() {
		doc.ClearError()
		return false
	}
	return true
}

// detailsSection draws the "INVOICE DETAILS" block starting at y and returns
// the cursor below it. The due-date line (and the extra line of advance) only
// exists when a due date is set.
func (cp *Composer) detailsSection(doc *gofpdf.Fpdf, inv models.Invoice, y float64) float64 {
	setText(doc, primaryColor)
	doc.SetFont("Helvetica", "", 12)
	doc.Text(marginX, y, "INVOICE DETAILS:")
	setText(doc, darkText)
	doc.SetFont("Helvetica", "", 10)

	doc.Text(marginX, y+lineHeight*1.5, "Invoice No:")
	doc.Text(marginX+30, y+lineHeight*1.5, inv.InvoiceNumber)

	doc.Text(marginX, y+lineHeight*2.5, "Date:")
	doc.Text(marginX+30, y+lineHeight*2.5, utils.FormatShortDate(inv.Date))

	contentHeight := lineHeight * 2.5
	if inv.DueDate != nil {
		doc.Text(marginX, y+lineHeight*3.5, "Due Date:")
		doc.Text(marginX+30, y+lineHeight*3.5, utils.FormatShortDate(*inv.DueDate))
		contentHeight = lineHeight * 3.5
	}
	return y + contentHeight + lineHeight*2
}

// partySection draws one address column (heading, name, wrapped address,
// email) at x starting at y and returns its advanced cursor. The email line
// sits directly under the wrapped address block, so the advance depends on
// how many lines the address wrapped into.
func (cp *Composer) partySection(doc *gofpdf.Fpdf, heading, name, address, email string, x, y, pageW float64) float64 {
	setText(doc, primaryColor)
	doc.SetFont("Helvetica", "", 12)
	doc.Text(x, y, heading)
	setText(doc, darkText)
	doc.SetFont("Helvetica", "", 10)

	doc.Text(x, y+lineHeight*1.5, name)

	lines := wrap(doc, address, pageW/2-marginX-5)
	drawLines(doc, x, y+lineHeight*2.5, lines)
	addressHeight := float64(len(lines)) * lineHeight

	doc.Text(x, y+lineHeight*2.5+addressHeight, email)

	return y + lineHeight*2.5 + addressHeight + lineHeight
}

// mergeColumns joins the two independently advanced column cursors.
func mergeColumns(leftY, rightY float64) float64 {
	if rightY > leftY {
		leftY = rightY
	}
	return leftY + columnGap
}

func (cp *Composer) separatorRule(doc *gofpdf.Fpdf, y, pageW float64) float64 {
	setDraw(doc, separatorCol)
	doc.Line(marginX, y, pageW-marginX, y)
	return y + 10
}

// itemsTable draws the header band and the single data row. The numeric cells
// are vertically centered against the wrapped description block.
func (cp *Composer) itemsTable(doc *gofpdf.Fpdf, inv models.Invoice, y, pageW float64) float64 {
	contentW := pageW - 2*marginX
	colWidth := (contentW - 50) / 3

	doc.SetFont("Helvetica", "B", 12)
	setFill(doc, headerBg)
	doc.Rect(marginX-2, y-5, contentW+4, 10, "F")

	setText(doc, black)
	doc.Text(marginX, y, "Description")
	textCenter(doc, marginX+colWidth*1.5+20, y, "Quantity")
	textCenter(doc, marginX+colWidth*2.5+20, y, "Rate")
	textRight(doc, pageW-marginX, y, "Amount")

	y += 10

	doc.SetFont("Helvetica", "", 10)
	setText(doc, darkText)
	setFill(doc, rowBg)
	doc.Rect(marginX-2, y-5, contentW+4, 10, "F")

	lines := wrap(doc, inv.InvoiceItemDescription, colWidth*1.5)
	drawLines(doc, marginX, y, lines)
	descHeight := float64(len(lines)) * lineHeight

	cellY := y + descHeight/2 - lineHeight/2
	textCenter(doc, marginX+colWidth*1.5+20, cellY, strconv.Itoa(inv.InvoiceItemQuantity))
	textCenter(doc, marginX+colWidth*2.5+20, cellY, utils.FormatAmount(inv.InvoiceItemRate))
	textRight(doc, pageW-marginX, cellY, itemAmount(inv))

	rowHeight := descHeight
	if rowHeight < lineHeight*2 {
		rowHeight = lineHeight * 2
	}
	return y + rowHeight + 5
}

// itemAmount is the render-time quantity*rate figure. The stored document
// total is displayed separately and never derived from it.
func itemAmount(inv models.Invoice) string {
	return utils.FormatAmount(float64(inv.InvoiceItemQuantity) * inv.InvoiceItemRate)
}

// totalsSection draws the short rule and the bold authoritative total.
func (cp *Composer) totalsSection(doc *gofpdf.Fpdf, inv models.Invoice, y, pageW float64) float64 {
	setDraw(doc, separatorCol)
	doc.Line(pageW-70, y-5, pageW-marginX, y-5)

	doc.SetFont("Helvetica", "B", 14)
	setText(doc, primaryColor)
	doc.Text(pageW-80, y, "TOTAL:")
	setText(doc, darkText)
	textRight(doc, pageW-marginX, y, utils.FormatCurrency(inv.Total, inv.Currency))
	doc.SetFont("Helvetica", "", 10)

	return y + 20
}

// notesSection renders the optional note block; an empty note leaves the
// document untouched.
func (cp *Composer) notesSection(doc *gofpdf.Fpdf, inv models.Invoice, y, pageW float64) float64 {
	if strings.TrimSpace(inv.Note) == "" {
		return y
	}
	doc.SetFont("Helvetica", "", 10)
	setText(doc, secondaryText)
	doc.Text(marginX, y, "Notes:")
	lines := wrap(doc, inv.Note, pageW-2*marginX)
	drawLines(doc, marginX, y+7, lines)
	return y + float64(len(lines))*lineHeight + 10
}

// footer is anchored to the page height, not to the content flow above it.
func (cp *Composer) footer(doc *gofpdf.Fpdf, pageW, pageH float64) {
	doc.SetFont("Helvetica", "", 9)
	setText(doc, secondaryText)
	textCenter(doc, pageW/2, pageH-15, footerMessage)
}

// wrap splits s into lines no wider than width. Blank input wraps to zero
// lines so dependent offsets collapse cleanly.
func wrap(doc *gofpdf.Fpdf, s string, width float64) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return doc.SplitText(s, width)
}

func drawLines(doc *gofpdf.Fpdf, x, y float64, lines []string) {
	for i, line := range lines {
		doc.Text(x, y+float64(i)*lineHeight, line)
	}
}

func textRight(doc *gofpdf.Fpdf, x, y float64, s string) {
	doc.Text(x-doc.GetStringWidth(s), y, s)
}

func textCenter(doc *gofpdf.Fpdf, x, y float64, s string) {
	doc.Text(x-doc.GetStringWidth(s)/2, y, s)
}

func setText(doc *gofpdf.Fpdf, c rgb) {
	doc.SetTextColor(c.r, c.g, c.b)
}

func setFill(doc *gofpdf.Fpdf, c rgb) {
	doc.SetFillColor(c.r, c.g, c.b)
}

func setDraw(doc *gofpdf.Fpdf, c rgb) {
	doc.SetDrawColor(c.r, c.g, c.b)
}
