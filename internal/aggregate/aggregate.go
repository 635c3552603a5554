package aggregate

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/customs-invoice/internal/address"
	"github.com/rezonia/customs-invoice/internal/model"
	"github.com/rezonia/customs-invoice/internal/money"
)

// Options carries the issuer-side values that used to be embedded literals:
// the from-address block and the city printed in FCA incoterms.
type Options struct {
	FromAddress []string
	OriginCity  string
}

// Invoice is the aggregated, render-ready document model. It is built once
// per generation request and read-only thereafter; the layout engine never
// re-derives business rules from it.
type Invoice struct {
	// InvoiceIDs is the comma-joined id list of every group member.
	InvoiceIDs   string
	SalesorderID string
	TaxID        string

	AddrFrom      []string
	AddrConsignee []string
	AddrImporter  []string

	ShipDate        *time.Time
	ShippingService string
	TrackingNumber  string
	PONumber        string

	// ChargeLabel is "Shipping charge" when the shipment bills on the
	// issuer's carrier account, "Handling Fee" when it bills on the
	// customer's own account.
	ChargeLabel string
	Incoterms   string

	// Rows holds the printable sequence, header row first. Order is the
	// invariant the whole document preserves.
	Rows []Row

	PrediscountTotal decimal.Decimal
	Discount         decimal.Decimal
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	ShippingHandling decimal.Decimal
	Total            decimal.Decimal

	TotalWeightOunces float64
	TotalQuantity     int

	// Coupons is the unique coupon codes across the group, comma-joined,
	// or "None".
	Coupons string
}

// InfoField is one label/value pair of the shipping-info block.
type InfoField struct {
	Label string
	Value string
}

// Build aggregates a shipment group into a render-ready Invoice.
//
// Preconditions, each reported as a distinct ValidationError: the main
// invoice has exactly one package, the group is non-empty, the main invoice
// has line items and a shipping contact, and the package weight is non-zero.
func Build(group *model.ShipmentGroup, opts Options) (*Invoice, error) {
	if group == nil || group.Main == nil {
		return nil, model.NewValidationError("shipment_group", "no invoice specified")
	}
	main := group.Main

	if len(main.Packages) != 1 {
		return nil, model.NewValidationError("invoice.packages", "expected invoice to have exactly 1 package")
	}
	pkg := main.Packages[0]

	if len(group.Members) == 0 {
		return nil, model.NewValidationError("shipment_group.members", "invoices array empty")
	}
	if len(main.LineItems) == 0 {
		return nil, model.NewValidationError("invoice.line_items", "invoice has no items")
	}
	if main.ShippingContact == nil {
		return nil, model.NewValidationError("invoice.shipping_contact", "invoice has no shipping contact")
	}
	if pkg.WeightOunces == 0 {
		return nil, model.NewValidationError("package.weight", "package weight is zero")
	}

	consignee, err := address.FromContact(main.ShippingContact)
	if err != nil {
		return nil, err
	}

	agg := &Invoice{
		InvoiceIDs:   joinIDs(group.Members),
		SalesorderID: main.SalesorderID,
		TaxID:        main.TaxID,

		AddrFrom:      opts.FromAddress,
		AddrConsignee: consignee,
		// Consignee and importer are always the same for generated invoices.
		AddrImporter: consignee,

		ShipDate:        main.ShipTime,
		ShippingService: main.ShippingService,
		TrackingNumber:  pkg.TrackingNumber,
		PONumber:        main.PONumber,

		// Linked invoices ship in one physical package, so the weight is
		// read once from the shared package rather than summed.
		TotalWeightOunces: pkg.WeightOunces,
	}

	if group.Members[0].ShippingAccountNumber == "" {
		// Shipping on our account.
		agg.ChargeLabel = "Shipping charge"
		agg.Incoterms = "CIP"
	} else {
		// Shipping on the customer's account.
		agg.ChargeLabel = "Handling Fee"
		agg.Incoterms = "FCA " + opts.OriginCity
	}

	if err := agg.buildRows(group.Members); err != nil {
		return nil, err
	}

	var taxes, subtotals, shipping, totals []decimal.Decimal
	for _, inv := range group.Members {
		taxes = append(taxes, inv.Tax)
		subtotals = append(subtotals, inv.Subtotal)
		shipping = append(shipping, inv.Shipping)
		totals = append(totals, inv.Total)
	}
	agg.Tax = money.Sum(taxes)
	agg.Subtotal = money.Sum(subtotals)
	agg.ShippingHandling = money.Sum(shipping)
	agg.Total = money.Sum(totals)

	agg.Coupons = collectCoupons(group.Members)

	for _, row := range agg.Rows {
		agg.TotalQuantity += row.NumericQuantity()
	}

	agg.Rows = append([]Row{headerRow()}, agg.Rows...)

	if agg.Discount.GreaterThan(decimal.Zero) {
		return nil, model.NewConsistencyError("discount",
			"invoice discount total is positive (should always be <= 0)")
	}

	return agg, nil
}

// buildRows walks every line item of every group member in stable input
// order. The committed line-number counter differs from len(Rows): combo
// subitems share their parent's number with lettered suffixes.
func (agg *Invoice) buildRows(members []*model.Invoice) error {
	lineNumber := 0

	for _, inv := range members {
		for _, item := range inv.LineItems {
			p := item.Product
			if p == nil {
				return model.NewValidationError("line_item.product", "line item has no product")
			}

			if item.Quantity <= 0 {
				// Non-positive quantities are not billable and not displayed.
				continue
			}

			if item.ExtendedPrice.IsNegative() || p.Discount {
				// Discount line. Classified before the customs-exclusion
				// check: some discounts are also flagged exclude_from_customs.
				agg.Discount = agg.Discount.Add(item.ExtendedPrice)
				lineNumber++
				agg.Rows = append(agg.Rows, normalRow(lineNumber, item))
				continue
			}

			if p.ExcludeFromCustoms {
				continue
			}

			lineNumber++ // committed to adding a line

			if p.IsCombination() {
				agg.Rows = append(agg.Rows, comboHeaderRow(lineNumber, item))

				seq := newSubitemLabeler(lineNumber)
				for _, c := range p.Constituents {
					if c.Product.ExcludeFromCustoms {
						continue
					}
					agg.Rows = append(agg.Rows, comboSubitemRow(seq.next(), c, item.Quantity))
				}

				// The bundle's price counts once, never per constituent.
				agg.PrediscountTotal = agg.PrediscountTotal.Add(item.ExtendedPrice)
				continue
			}

			agg.Rows = append(agg.Rows, normalRow(lineNumber, item))
			agg.PrediscountTotal = agg.PrediscountTotal.Add(item.ExtendedPrice)
		}
	}
	return nil
}

// ShippingInfo returns the ordered label/value pairs of the shipping-info
// block. A missing ship date defaults to today, the invoice label pluralizes
// when the id string holds more than one id, the PO line appears only when a
// PO exists, and any other blank value displays as "none".
func (agg *Invoice) ShippingInfo() []InfoField {
	shipDate := time.Now().Format("2006-01-02")
	if agg.ShipDate != nil {
		shipDate = agg.ShipDate.Format("2006-01-02")
	}

	invoiceLabel := "Invoice"
	if strings.Contains(agg.InvoiceIDs, ",") {
		invoiceLabel = "Invoices"
	}

	info := []InfoField{
		{"Ship Date", shipDate},
		{"Ship Method", agg.ShippingService},
		{"Tracking #", agg.TrackingNumber},
		{invoiceLabel, agg.InvoiceIDs},
	}
	if agg.PONumber != "" {
		info = append(info, InfoField{"PO Number", agg.PONumber})
	}

	for i := range info {
		if info[i].Value == "" {
			info[i].Value = "none"
		}
	}
	return info
}

// HasDiscount reports whether a discount line must appear in the summary.
func (agg *Invoice) HasDiscount() bool {
	return agg.Discount.IsNegative()
}

func joinIDs(members []*model.Invoice) string {
	ids := make([]string, len(members))
	for i, inv := range members {
		ids[i] = inv.ID
	}
	return strings.Join(ids, ", ")
}

// collectCoupons gathers the unique coupon codes across all group members in
// first-seen order.
func collectCoupons(members []*model.Invoice) string {
	seen := make(map[string]bool)
	var codes []string
	for _, inv := range members {
		for _, code := range inv.Coupons {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return "None"
	}
	return strings.Join(codes, ", ")
}

// subitemLabeler numbers one bundle's constituent lines: "3a", "3b", ...
// It is scoped to a single expansion and reset by creating a new one.
type subitemLabeler struct {
	parent string
	index  int
}

func newSubitemLabeler(lineNumber int) *subitemLabeler {
	return &subitemLabeler{parent: strconv.Itoa(lineNumber)}
}

func (s *subitemLabeler) next() string {
	label := s.parent + letterSuffix(s.index)
	s.index++
	return label
}

// letterSuffix maps 0 -> "a", 25 -> "z", 26 -> "aa", matching spreadsheet
// column naming.
func letterSuffix(i int) string {
	suffix := ""
	for {
		suffix = string(rune('a'+i%26)) + suffix
		i = i/26 - 1
		if i < 0 {
			return suffix
		}
	}
}
