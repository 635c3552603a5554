// Package model defines the order, shipment, and product records consumed by
// the commercial invoice generator, along with its error taxonomy.
//
// Records are read-only inputs: generation never mutates them.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contact is a shipping contact as recorded on the order.
type Contact struct {
	Name    string `json:"name"`
	Addr1   string `json:"addr1"`
	Addr2   string `json:"addr2,omitempty"`
	Addr3   string `json:"addr3,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Constituent is one member product of a combination, with the quantity
// included per bundle.
type Constituent struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// Product describes a sellable item and its customs-relevant attributes.
// A product with a non-empty Constituents list is a combination (bundle).
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	WeightOunces    float64 `json:"weight_ounces"`
	CountryOfOrigin string  `json:"country_of_origin"`

	NotPhysicalItem    bool `json:"not_physical_item"`
	ExcludeFromCustoms bool `json:"exclude_from_customs"`
	Discount           bool `json:"discount"`

	// HasAssembly reports whether the product participates in at least one
	// manufacturing assembly. Only assembled products carry a schedule code.
	HasAssembly   bool   `json:"has_assembly"`
	ScheduleBCode string `json:"schedule_b_code,omitempty"`

	Constituents []Constituent `json:"constituents,omitempty"`
}

// IsCombination reports whether the product is a bundle of other products.
func (p *Product) IsCombination() bool {
	return len(p.Constituents) > 0
}

// LineItem is one billed line of an invoice.
type LineItem struct {
	// Name is the display label from the originating order line.
	Name string `json:"name"`

	// Quantity may be non-positive, meaning the line is not billable and is
	// ignored by aggregation.
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`

	Product *Product `json:"product"`
}

// Package is the physical parcel an invoice ships in.
type Package struct {
	TrackingNumber string  `json:"tracking_number"`
	WeightOunces   float64 `json:"weight_ounces"`
}

// Invoice is one order-system invoice record.
type Invoice struct {
	ID           string `json:"id"`
	SalesorderID string `json:"salesorder_id"`
	PONumber     string `json:"po_number,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`

	ShipTime              *time.Time `json:"ship_time,omitempty"`
	ShippingService       string     `json:"shipping_service"`
	ShippingAccountNumber string     `json:"shipping_account_number,omitempty"`

	Coupons []string `json:"coupons,omitempty"`

	Tax      decimal.Decimal `json:"tax"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`

	LineItems       []LineItem `json:"line_items"`
	ShippingContact *Contact   `json:"shipping_contact"`
	Packages        []*Package `json:"packages"`
}

// ShipmentGroup is the set of invoices traveling in one physical package.
// Members is in stable resolution order and always contains Main.
type ShipmentGroup struct {
	Main    *Invoice
	Members []*Invoice
}
