// Package layout renders the invoice configuration onto A4 PDF pages.
package layout

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/facture-dev/facture/internal/config"
)

const dateLayout = "02/01/2006"

var (
	rgbBlack       = RGB{}
	tableColWidths = [8]float64{18, 120, 40, 40, 60, 45, 60, 70}
)

const (
	tableHeaderFontSize = 9
	tableFontSize       = 8
	tableHeaderHeight   = 20
	tableLineHeight     = tableFontSize + 3
)

// Renderer draws invoices with a fixed style.
type Renderer struct {
	style Style
}

// NewRenderer creates a Renderer.
func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style}
}

// Render produces the PDF bytes for one language variant. Missing config
// fields render as empty strings; only an unusable drawing surface is an
// error.
func (r *Renderer) Render(cfg *config.Config, invoiceID string, emission time.Time, lang Language) ([]byte, error) {
	doc, err := r.build(cfg, invoiceID, emission, lang)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// build assembles the document. Split from Render so tests can inspect the
// page structure.
func (r *Renderer) build(cfg *config.Config, invoiceID string, emission time.Time, lang Language) (*fpdf.Fpdf, error) {
	labels, err := labelsFor(lang)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	c := &canvas{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		style: r.style,
	}
	c.width, c.height = pdf.GetPageSize()
	c.addPage()

	r.drawHeader(c, labels, invoiceID, emission, cfg)
	r.drawParties(c, labels, cfg)
	r.drawTable(c, labels, cfg)
	r.drawSummary(c, labels, cfg, lang)
	r.drawBankDetails(c, labels, cfg)

	if pdf.Err() {
		return nil, fmt.Errorf("building document: %w", pdf.Error())
	}
	return pdf, nil
}

// canvas tracks the vertical cursor on the current page. y grows downward
// from the top margin.
type canvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	style  Style
	width  float64
	height float64
	y      float64
}

// addPage starts a fresh page: border frame redrawn, cursor reset to the
// top margin.
func (c *canvas) addPage() {
	c.pdf.AddPage()
	c.drawFrame()
	c.y = c.style.Margin
}

// ensure reserves h points of vertical space, breaking to a new page when
// fewer than h points remain above the bottom margin. Every section goes
// through this one primitive.
func (c *canvas) ensure(h float64) {
	if c.y+h > c.height-c.style.Margin {
		c.addPage()
	}
}

func (c *canvas) drawFrame() {
	m := c.style.Margin
	c.setDrawColor(c.style.Primary)
	c.pdf.SetLineWidth(2)
	c.pdf.Rect(m/2, m/2, c.width-m, c.height-m, "D")
}

func (c *canvas) setFont(style string, size float64) {
	c.pdf.SetFont(c.style.FontFamily, style, size)
}

func (c *canvas) setTextColor(rgb RGB) { c.pdf.SetTextColor(rgb.R, rgb.G, rgb.B) }
func (c *canvas) setDrawColor(rgb RGB) { c.pdf.SetDrawColor(rgb.R, rgb.G, rgb.B) }
func (c *canvas) setFillColor(rgb RGB) { c.pdf.SetFillColor(rgb.R, rgb.G, rgb.B) }

func (c *canvas) text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

// wrapped draws word-wrapped text starting at baseline y and returns the
// baseline below the last line drawn.
func (c *canvas) wrapped(s string, x, y, maxWidth float64, fontStyle string, size, gap float64) float64 {
	c.setFont(fontStyle, size)
	for _, line := range wrapText(s, maxWidth, size) {
		c.text(x, y, line)
		y += gap
	}
	return y
}

// box draws a rounded outline with a bold label in its top-left corner.
func (c *canvas) box(x, y, w, h float64, label string) {
	c.setDrawColor(c.style.Muted)
	c.pdf.SetLineWidth(1)
	c.pdf.RoundedRect(x, y, w, h, 6, "1234", "D")
	c.setFont("B", 10)
	c.setTextColor(c.style.Ink)
	c.text(x+8, y+18, label)
}

func (r *Renderer) drawHeader(c *canvas, labels labelSet, invoiceID string, emission time.Time, cfg *config.Config) {
	m := c.style.Margin
	c.y += 20 // breathing room under the frame
	c.setTextColor(c.style.Primary)
	c.setFont("B", 20)
	c.text(m, c.y+20, labels.Invoice)
	c.y += 52

	const blockHeight = 60
	c.setFillColor(c.style.Highlight)
	c.pdf.RoundedRect(m, c.y, c.width-2*m, blockHeight, 6, "1234", "F")

	due := emission.AddDate(0, 0, cfg.Invoice.DueDays)
	c.setTextColor(rgbBlack)
	c.setFont("B", 11)
	c.text(m+12, c.y+16, invoiceID)
	c.setTextColor(c.style.Ink)
	c.setFont("", 10)
	c.text(m+12, c.y+34, fmt.Sprintf("%s: %s", labels.EmittedAt, emission.Format(dateLayout)))
	c.text(m+12, c.y+52, fmt.Sprintf("%s: %s", labels.DueDate, due.Format(dateLayout)))
	c.y += blockHeight + 10
}

func (r *Renderer) drawParties(c *canvas, labels labelSet, cfg *config.Config) {
	m := c.style.Margin
	const (
		boxHeight = 190
		lineGap   = 18
		pad       = 18
	)
	boxWidth := (c.width - 2*m - 40) / 2
	textWidth := boxWidth - 2*pad
	left := m
	right := m + boxWidth + 40

	c.box(left, c.y, boxWidth, boxHeight, labels.Company)
	c.setTextColor(rgbBlack)
	textY := c.y + 22 + lineGap
	textY = c.wrapped(cfg.Company.LegalName, left+pad, textY, textWidth, "B", 11, lineGap)
	for _, field := range []string{
		cfg.Company.BusinessName,
		cfg.Company.ContactName,
		cfg.Company.Email,
		cfg.Company.Phone,
		cfg.Company.Address,
		"SIRET: " + cfg.Company.SIRET,
	} {
		textY = c.wrapped(field, left+pad, textY, textWidth, "", 10, lineGap)
	}

	c.box(right, c.y, boxWidth, boxHeight, labels.BillTo)
	c.setTextColor(rgbBlack)
	textY = c.y + 22 + lineGap
	textY = c.wrapped(cfg.Receiver.Name, right+pad, textY, textWidth, "B", 11, lineGap)
	c.wrapped(cfg.Receiver.Address, right+pad, textY, textWidth, "", 10, lineGap)

	c.y += boxHeight + 30
}

func (r *Renderer) drawTable(c *canvas, labels labelSet, cfg *config.Config) {
	headers := []string{
		"#", labels.Description, labels.Unit, labels.Quantity,
		labels.UnitPrice, labels.VATCol, labels.Total, labels.TotalInclTax,
	}

	c.ensure(tableHeaderHeight)
	r.drawTableHeader(c, headers)

	for i, svc := range cfg.Services {
		qty := decimal.NewFromInt(int64(svc.Quantity))
		total := svc.AmountUSD.Mul(qty)
		vat := total.Mul(cfg.VATRate)

		descLines := wrapText(svc.Description, tableColWidths[1], tableFontSize)
		if len(descLines) == 0 {
			descLines = []string{""}
		}
		rowHeight := float64(len(descLines))*tableLineHeight + 10

		// Rows split across pages one at a time; continuation pages get
		// the frame redrawn and the cursor reset, no header repeat.
		c.ensure(rowHeight)

		cells := []string{
			strconv.Itoa(i + 1),
			"", // description drawn line by line below
			svc.Unit,
			strconv.Itoa(svc.Quantity),
			formatUSD(svc.AmountUSD),
			formatUSD(vat),
			formatUSD(total),
			formatUSD(total.Add(vat)),
		}
		r.drawTableRow(c, cells, descLines, rowHeight)
	}
	c.y += 32
}

func (r *Renderer) drawTableHeader(c *canvas, headers []string) {
	c.setFont("B", tableHeaderFontSize)
	c.setFillColor(c.style.Highlight)
	c.setDrawColor(c.style.Muted)
	c.setTextColor(c.style.Primary)
	c.pdf.SetLineWidth(0.5)

	x := c.style.Margin
	for i, header := range headers {
		c.pdf.SetXY(x, c.y)
		c.pdf.CellFormat(tableColWidths[i], tableHeaderHeight, c.tr(header), "1", 0, "CM", true, 0, "")
		x += tableColWidths[i]
	}
	c.y += tableHeaderHeight
}

func (r *Renderer) drawTableRow(c *canvas, cells []string, descLines []string, rowHeight float64) {
	c.setFont("", tableFontSize)
	c.setDrawColor(c.style.Muted)
	c.setTextColor(rgbBlack)
	c.pdf.SetLineWidth(0.5)

	x := c.style.Margin
	for i, cell := range cells {
		c.pdf.SetXY(x, c.y)
		if i == 1 {
			c.pdf.CellFormat(tableColWidths[i], rowHeight, "", "1", 0, "CM", false, 0, "")
			startY := c.y + (rowHeight-float64(len(descLines))*tableLineHeight)/2
			for j, line := range descLines {
				c.pdf.SetXY(x, startY+float64(j)*tableLineHeight)
				c.pdf.CellFormat(tableColWidths[i], tableLineHeight, c.tr(line), "0", 0, "CM", false, 0, "")
			}
		} else {
			c.pdf.CellFormat(tableColWidths[i], rowHeight, c.tr(cell), "1", 0, "CM", false, 0, "")
		}
		x += tableColWidths[i]
	}
	c.y += rowHeight
}

func (r *Renderer) drawSummary(c *canvas, labels labelSet, cfg *config.Config, lang Language) {
	m := c.style.Margin
	noteWidth := c.width - 2*m - 36

	vatNote := cfg.VATNote
	rateNote := cfg.ExchangeRateNote
	if lang == French {
		vatNote = labels.VATNote
		rateNote = translateRateNote(rateNote)
	}
	vatLines := wrapText(vatNote, noteWidth, 10)
	rateLines := wrapText(rateNote, noteWidth, 10)

	lineCount := 5 + len(vatLines) + len(rateLines)
	sectionHeight := float64(lineCount)*16 + 24

	// The summary moves to a new page whole rather than splitting.
	c.ensure(sectionHeight)

	c.setFillColor(c.style.Highlight)
	c.pdf.RoundedRect(m, c.y, c.width-2*m, sectionHeight, 8, "1234", "F")

	paymentTerm := fmt.Sprintf("%d %s", cfg.Invoice.DueDays, labels.Days)
	methods := cfg.PaymentMethods
	if lang == French && strings.EqualFold(strings.TrimSpace(methods), "transfer") {
		methods = "Virement"
	}

	rows := []struct {
		label string
		value string
	}{
		{labels.PaymentTerm, paymentTerm},
		{labels.PaymentMethods, methods},
		{labels.AmountExclTax, formatUSD(cfg.AmountExclTax)},
		{labels.VAT, formatUSD(cfg.VAT)},
		{labels.AmountInclTax, formatUSD(cfg.AmountInclTax)},
	}

	c.setTextColor(rgbBlack)
	textY := c.y + 16
	for _, row := range rows {
		c.setFont("B", 10)
		c.text(m+18, textY, row.label)
		c.setFont("", 10)
		c.text(m+120, textY, row.value)
		textY += 16
	}

	textY += 4
	c.setFont("", 10)
	for _, line := range vatLines {
		c.text(m+18, textY, line)
		textY += 14
	}
	for _, line := range rateLines {
		c.text(m+18, textY, line)
		textY += 14
	}

	c.y += sectionHeight + 32
}

func (r *Renderer) drawBankDetails(c *canvas, labels labelSet, cfg *config.Config) {
	m := c.style.Margin

	// Heading plus six single-line fields; wrapping below may run longer,
	// which the wide page width makes unlikely.
	c.ensure(100)

	c.setFont("B", 10)
	c.setTextColor(c.style.Muted)
	c.text(m, c.y+10, labels.BankDetails)

	c.setTextColor(c.style.Ink)
	textY := c.y + 24

	bank := cfg.BankDetails
	fields := []struct {
		label string
		value string
	}{
		{labels.AccountHolder, bank.AccountHolder},
		{labels.RoutingNumber, bank.RoutingNumber},
		{labels.AccountNumber, bank.AccountNumber},
		{labels.AccountType, bank.AccountType},
		{labels.Bank, bank.Bank},
		{labels.BankAddress, bank.BankAddress},
	}
	for _, field := range fields {
		textY = c.wrapped(fmt.Sprintf("%s: %s", field.label, field.value), m, textY, c.width-2*m, "", 9, 11)
	}

	c.y = textY + 20
}
