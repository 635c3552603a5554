// Package render lays the aggregated invoice model out on paginated Letter
// pages and emits the finished PDF.
//
// The layout engine consumes the aggregate as-is and never re-derives
// business rules from the source records.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/rezonia/customs-invoice/internal/aggregate"
	"github.com/rezonia/customs-invoice/internal/config"
	"github.com/rezonia/customs-invoice/internal/model"
	"github.com/rezonia/customs-invoice/internal/money"
)

// Page geometry, in points on a 612x792 Letter page.
const (
	marginLeft   = 40.0
	marginRight  = 40.0
	marginTop    = 106.0 // leaves room for the repeating header
	marginBottom = 50.0

	contentWidth = 612.0 - marginLeft - marginRight

	lineHeight = 10.0

	// Space budgets for the blocks that must never split across pages.
	couponSpace     = 30.0
	summarySpace    = 45.0
	discountSpace   = 35.0 // extra rows when a discount line is shown
	summaryMargin   = 35.0
	signatureSpace  = 150.0
	summaryRightX   = 360.0
	summaryValueX   = 452.0
	summarySepLeft  = 350.0
	summarySepRight = 514.0
)

// Renderer produces commercial invoice PDFs. It holds the embedded image
// assets, loaded once at construction.
type Renderer struct {
	cfg       *config.Config
	logo      []byte
	logoType  string
	signature []byte
	sigType   string
}

// New creates a renderer, loading the logo and signature images from the
// configured paths. A missing asset is a ResourceError: fatal configuration,
// not bad data.
func New(cfg *config.Config) (*Renderer, error) {
	logo, err := os.ReadFile(cfg.LogoPath)
	if err != nil {
		return nil, model.NewResourceError(cfg.LogoPath, err)
	}
	signature, err := os.ReadFile(cfg.SignaturePath)
	if err != nil {
		return nil, model.NewResourceError(cfg.SignaturePath, err)
	}
	return &Renderer{
		cfg:       cfg,
		logo:      logo,
		logoType:  imageType(cfg.LogoPath),
		signature: signature,
		sigType:   imageType(cfg.SignaturePath),
	}, nil
}

// Render draws the aggregated invoice and returns the PDF bytes. Generation
// either fully succeeds or produces no output.
func (r *Renderer) Render(agg *aggregate.Invoice) ([]byte, error) {
	if err := validate(agg); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetCellMargin(3)
	pdf.AliasNbPages("")

	pdf.RegisterImageOptionsReader("logo",
		gofpdf.ImageOptions{ImageType: r.logoType}, bytes.NewReader(r.logo))
	pdf.RegisterImageOptionsReader("signature",
		gofpdf.ImageOptions{ImageType: r.sigType}, bytes.NewReader(r.signature))
	if pdf.Err() {
		return nil, model.NewResourceError(r.cfg.LogoPath, pdf.Error())
	}

	d := &doc{pdf: pdf, agg: agg, cfg: r.cfg}

	// The page header repeats on every page without being re-invoked; the
	// footer numbers pages against the final count.
	pdf.SetHeaderFunc(d.pageHeader)
	pdf.SetFooterFunc(d.pageFooter)

	pdf.AddPage()

	d.drawShippingInfo()
	d.drawAddresses()
	d.drawTable()
	d.drawCoupons()
	d.drawSummary()
	d.drawSignature()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewResourceError("pdf output", err)
	}
	return buf.Bytes(), nil
}

// validate enforces the render-time invariants. Violations are consistency
// faults: the aggregation engine should never hand over such a model.
func validate(agg *aggregate.Invoice) error {
	if agg.TotalWeightOunces <= 0 {
		return model.NewConsistencyError("total_weight", "missing or non-positive")
	}
	if !agg.Total.IsPositive() {
		return model.NewConsistencyError("total", "missing or non-positive")
	}
	if agg.ShippingHandling.IsNegative() {
		return model.NewConsistencyError("shipping_handling", "negative")
	}
	if agg.ChargeLabel == "" {
		return model.NewConsistencyError("charge_label", "missing")
	}
	if agg.Incoterms == "" {
		return model.NewConsistencyError("incoterms", "missing")
	}
	if agg.Discount.IsPositive() {
		return model.NewConsistencyError("discount", "positive (should always be <= 0)")
	}
	return nil
}

// doc is the mutable drawing state for one document.
type doc struct {
	pdf *gofpdf.Fpdf
	agg *aggregate.Invoice
	cfg *config.Config
}

// remaining returns the vertical space left on the current page.
func (d *doc) remaining() float64 {
	_, pageHeight := d.pdf.GetPageSize()
	return pageHeight - marginBottom - d.pdf.GetY()
}

// pageHeader draws the repeating region: logo, sender block, contact block,
// title, salesorder reference, and rule line.
func (d *doc) pageHeader() {
	pdf := d.pdf

	pdf.ImageOptions("logo", 33, 16, 0, 42, false,
		gofpdf.ImageOptions{ImageType: "", ReadDpi: false}, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 8)
	d.textBlock(86, 20, 9, d.cfg.HeaderLines())

	pdf.SetXY(612-marginRight-140, 20)
	for _, line := range d.cfg.ContactLines() {
		pdf.CellFormat(140, 9, line, "", 2, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(marginLeft, 56)
	pdf.CellFormat(contentWidth, 22, "Commercial Invoice", "", 1, "C", false, 0, "")

	salesorderLabel := "For Salesorder "
	if strings.Contains(d.agg.SalesorderID, ",") {
		salesorderLabel = "For Salesorders "
	}
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(marginLeft, 78)
	pdf.CellFormat(contentWidth, 16, salesorderLabel+d.agg.SalesorderID, "", 1, "C", false, 0, "")

	pdf.SetLineWidth(3)
	pdf.Line(72, 98, 540, 98)
	pdf.SetLineWidth(1)
}

func (d *doc) pageFooter() {
	pdf := d.pdf
	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
}

// drawShippingInfo draws the label/value block (ship date, method, tracking,
// invoice ids, PO) at the top left of the first page.
func (d *doc) drawShippingInfo() {
	info := d.agg.ShippingInfo()

	y := 120.0
	d.pdf.SetFont("Helvetica", "B", 10)
	for i, field := range info {
		d.pdf.Text(60, y+float64(i)*14+8, field.Label+":")
	}
	d.pdf.SetFont("Helvetica", "", 10)
	for i, field := range info {
		d.pdf.Text(150, y+float64(i)*14+8, field.Value)
	}
}

// drawAddresses draws the three address blocks. The consignee block carries
// the customer's tax id when one exists.
func (d *doc) drawAddresses() {
	consignee := d.agg.AddrConsignee
	if d.agg.TaxID != "" {
		consignee = append(append([]string{}, consignee...), "Tax ID: "+d.agg.TaxID)
	}

	d.addressBlock("Consignee:", consignee, 320, 120)
	d.addressBlock("Shipped from:", d.agg.AddrFrom, 50, 230)
	d.addressBlock("Importer:", d.agg.AddrImporter, 320, 230)

	d.pdf.SetY(330)
}

func (d *doc) addressBlock(title string, lines []string, x, y float64) {
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.Text(x, y+12, title)
	d.pdf.SetFont("Helvetica", "", 10)
	d.textBlock(x+10, y+18, 11, lines)
}

// drawCoupons writes the coupon line below the table, giving it a fresh page
// when fewer than 30pt remain (long Black Friday coupon lists).
func (d *doc) drawCoupons() {
	if d.remaining() < couponSpace {
		d.pdf.AddPage()
		d.pdf.Ln(25)
	}
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "", 6.5)
	d.writeMarkup(marginLeft, d.pdf.GetY()+6, "<b>Coupons used:</b>  "+d.agg.Coupons, "")
	d.pdf.Ln(9)
}

// drawSummary draws the totals block. The block never splits across a page
// boundary: when the remaining space is below its budget the page breaks
// first and the repeating header is drawn again.
func (d *doc) drawSummary() {
	agg := d.agg

	needed := summarySpace + summaryMargin
	if agg.HasDiscount() {
		needed += discountSpace
	}
	if d.remaining() < needed {
		d.pdf.AddPage()
		d.pdf.Ln(40)
	} else {
		d.summarySeparator()
	}

	summaryStart := d.pdf.GetY()

	// Right column: price summary.
	if agg.HasDiscount() {
		d.summaryText("Before discounts:", money.FormatUSD(agg.PrediscountTotal), summaryRightX, summaryValueX, false)
		d.summaryText("Discounts:", money.FormatUSD(agg.Discount), summaryRightX, summaryValueX, false)
		d.summarySeparator()
	}
	d.summaryText("Subtotal:", money.FormatUSD(agg.Subtotal), summaryRightX, summaryValueX, true)
	d.summaryText(agg.ChargeLabel+": ", money.FormatUSD(agg.ShippingHandling), summaryRightX, summaryValueX, false)
	d.summarySeparator()
	d.summaryText("Invoice Total (USD):", money.FormatUSD(agg.Total), summaryRightX, summaryValueX, true)

	// Left column: shipment summary, drawn independently from the same top.
	d.pdf.SetY(summaryStart)

	quantity := fmt.Sprintf("%d item", agg.TotalQuantity)
	if agg.TotalQuantity > 1 {
		quantity += "s"
	}
	weight := fmt.Sprintf("%.2f pounds", agg.TotalWeightOunces/16.0)

	d.summaryText("Total quantity:", quantity, marginLeft, 160, true)
	d.summaryText("Shipment weight:", weight, marginLeft, 160, true)
	d.summaryText("Incoterms:", agg.Incoterms, marginLeft, 160, true)
}

// drawSignature draws the declaration, signature image, rule, and signer
// name, breaking the page first when fewer than 150pt remain.
func (d *doc) drawSignature() {
	if d.remaining() < signatureSpace {
		d.pdf.AddPage()
	}
	pdf := d.pdf
	pdf.Ln(50)
	y := pdf.GetY()

	// Image first so the declaration text draws over it.
	pdf.ImageOptions("signature", 43, y+16, 0, 35, false,
		gofpdf.ImageOptions{}, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(marginLeft, y)
	pdf.MultiCell(500, 14,
		"I declare all information in this invoice to be true and correct.\nSignature of shipper:",
		"", "L", false)

	ruleY := y + 62
	pdf.SetLineWidth(1)
	pdf.Line(marginLeft, ruleY, marginLeft+150, ruleY)

	pdf.SetXY(marginLeft+8, ruleY+6)
	pdf.CellFormat(200, 14, d.cfg.SignerName, "", 1, "L", false, 0, "")
}

// summaryText writes one label/value summary line and advances the cursor.
func (d *doc) summaryText(label, value string, labelX, valueX float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Helvetica", style, 10)

	y := d.pdf.GetY()
	d.pdf.Text(labelX, y+8, label)
	d.pdf.SetXY(valueX, y)
	d.pdf.CellFormat(60, 10, value, "", 0, "R", false, 0, "")
	d.pdf.SetY(y + 11)
}

func (d *doc) summarySeparator() {
	y := d.pdf.GetY() + 1
	d.pdf.Line(summarySepLeft, y, summarySepRight, y)
	d.pdf.SetY(y + 3)
}

// textBlock draws a series of strings down the page with fixed leading.
func (d *doc) textBlock(x, y, leading float64, lines []string) {
	for i, line := range lines {
		d.pdf.Text(x, y+float64(i)*leading+7, line)
	}
}


func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	default:
		return "PNG"
	}
}
