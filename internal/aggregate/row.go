// Package aggregate transforms a shipment group into the row sequence and
// totals printed on a commercial invoice.
package aggregate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rezonia/customs-invoice/internal/model"
)

// RowKind distinguishes the three printable line variants.
type RowKind int

const (
	// KindHeader is the fixed nine-column table header.
	KindHeader RowKind = iota
	// KindNormal is a plain item line (also used for discount lines).
	KindNormal
	// KindComboHeader is the parent line of a combination product.
	KindComboHeader
	// KindComboSubitem is a lettered constituent line under a combo header.
	KindComboSubitem
)

// Row is one printable line of the item table. Fields are display strings;
// a row is immutable once built.
//
// Description may embed minimal <b>/<i>/<u> markup for combo headers.
type Row struct {
	Kind          RowKind
	LineNumber    string
	Quantity      string
	ProductID     string
	Description   string
	ExtWeight     string
	UnitPrice     string
	ExtendedPrice string
	Origin        string
	HSCode        string
}

// Columns returns the cells in table order.
func (r Row) Columns() [9]string {
	return [9]string{
		r.LineNumber, r.Quantity, r.ProductID, r.Description,
		r.ExtWeight, r.UnitPrice, r.ExtendedPrice, r.Origin, r.HSCode,
	}
}

// NumericQuantity returns the quantity cell as an integer. Non-numeric cells
// ("-", blanks) contribute zero.
func (r Row) NumericQuantity() int {
	n, err := strconv.Atoi(r.Quantity)
	if err != nil {
		return 0
	}
	return n
}

// IsSubitem reports whether the line-number label marks a lettered combo
// subitem ("3a", "3b", ...).
func (r Row) IsSubitem() bool {
	return r.Kind == KindComboSubitem
}

// headerRow is the fixed table header prepended to every row sequence.
func headerRow() Row {
	return Row{
		Kind:          KindHeader,
		LineNumber:    "#",
		Quantity:      "Quantity",
		ProductID:     "Item Number",
		Description:   "Item Description",
		ExtWeight:     "Ext. Weight",
		UnitPrice:     "Unit Price (USD)",
		ExtendedPrice: "Extended Price",
		Origin:        "Origin",
		HSCode:        "HS code",
	}
}

// normalRow builds a plain item line from an invoice line item.
func normalRow(lineNumber int, item model.LineItem) Row {
	p := item.Product
	return Row{
		Kind:          KindNormal,
		LineNumber:    strconv.Itoa(lineNumber),
		Quantity:      quantityCell(p, item.Quantity),
		ProductID:     p.ID,
		Description:   item.Name,
		ExtWeight:     extendedWeight(p, item.Quantity),
		UnitPrice:     item.UnitPrice.StringFixed(2),
		ExtendedPrice: item.ExtendedPrice.StringFixed(2),
		Origin:        p.CountryOfOrigin,
		HSCode:        HSCode(p),
	}
}

// comboHeaderRow builds the parent line of a combination product. The
// quantity is carried in the description instead of the quantity cell so the
// bundle is blatantly marked for customs.
//
// Precondition: item.Quantity > 0 (non-positive quantities are skipped before
// classification, so the singular/plural choice never sees them).
func comboHeaderRow(lineNumber int, item model.LineItem) Row {
	p := item.Product

	contains := "These collectively contain"
	if item.Quantity == 1 {
		contains = "This Combo contains"
	}

	return Row{
		Kind:       KindComboHeader,
		LineNumber: strconv.Itoa(lineNumber),
		Quantity:   "-",
		ProductID:  p.ID,
		Description: fmt.Sprintf("<b>%dx Combo:</b>  %s\n<u><i>%s</i></u>:",
			item.Quantity, item.Name, contains),
		ExtWeight:     extendedWeight(p, item.Quantity),
		UnitPrice:     item.UnitPrice.StringFixed(2),
		ExtendedPrice: item.ExtendedPrice.StringFixed(2),
		Origin:        p.CountryOfOrigin,
		HSCode:        HSCode(p),
	}
}

// comboSubitemRow builds one lettered constituent line. Pricing and weight
// stay blank: both are carried entirely by the combo header.
func comboSubitemRow(label string, c model.Constituent, bundleQuantity int) Row {
	p := c.Product
	return Row{
		Kind:        KindComboSubitem,
		LineNumber:  label,
		Quantity:    quantityCell(p, bundleQuantity*c.Quantity),
		ProductID:   p.ID,
		Description: p.Name,
		Origin:      p.CountryOfOrigin,
		HSCode:      HSCode(p),
	}
}

// HSCode derives the international Harmonized System code for a product:
// the schedule code with dots removed, truncated to six characters. The
// truncation strips the country-specific suffix digits of the national
// tariff code. Products without an assembly have no schedule code and yield
// an empty string.
func HSCode(p *model.Product) string {
	if !p.HasAssembly {
		return ""
	}
	code := strings.ReplaceAll(p.ScheduleBCode, ".", "")
	if len(code) > 6 {
		code = code[:6]
	}
	return code
}

// quantityCell renders a quantity, or "-" for non-physical items.
func quantityCell(p *model.Product, quantity int) string {
	if p.NotPhysicalItem {
		return "-"
	}
	return strconv.Itoa(quantity)
}

// extendedWeight renders quantity x unit weight with a trailing unit, or "-"
// for non-physical items.
func extendedWeight(p *model.Product, quantity int) string {
	if p.NotPhysicalItem {
		return "-"
	}
	w := float64(quantity) * p.WeightOunces
	return strconv.FormatFloat(w, 'g', -1, 64) + " oz"
}
