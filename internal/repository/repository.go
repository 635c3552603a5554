// Package repository resolves invoice identifiers to fully linked shipment
// groups. The order system itself is an external collaborator; the JSON
// Store here backs the CLI and tests with the same read-only contract.
package repository

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rezonia/customs-invoice/internal/model"
)

// ErrNotFound reports that no invoice matches the requested identifier.
var ErrNotFound = errors.New("invoice not found")

// Repository is the read-only data-access contract for invoice generation.
type Repository interface {
	// ShipmentGroup resolves an invoice id to the invoice and the full set
	// of invoices shipping in the same physical package.
	ShipmentGroup(id string) (*model.ShipmentGroup, error)
}

// Wire records, with products referenced by id so bundles can share
// constituents.
type storeFile struct {
	Products []productRecord `json:"products"`
	Invoices []invoiceRecord `json:"invoices"`
}

type productRecord struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	WeightOunces    float64 `json:"weight_ounces"`
	CountryOfOrigin string  `json:"country_of_origin"`

	NotPhysicalItem    bool `json:"not_physical_item"`
	ExcludeFromCustoms bool `json:"exclude_from_customs"`
	Discount           bool `json:"discount"`

	HasAssembly   bool   `json:"has_assembly"`
	ScheduleBCode string `json:"schedule_b_code"`

	Constituents []constituentRecord `json:"constituents"`
}

type constituentRecord struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type invoiceRecord struct {
	ID           string `json:"id"`
	SalesorderID string `json:"salesorder_id"`
	PONumber     string `json:"po_number"`
	TaxID        string `json:"tax_id"`

	ShipTime              *time.Time `json:"ship_time"`
	ShippingService       string     `json:"shipping_service"`
	ShippingAccountNumber string     `json:"shipping_account_number"`

	Coupons []string `json:"coupons"`

	Tax      decimal.Decimal `json:"tax"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`

	LineItems       []lineItemRecord `json:"line_items"`
	ShippingContact *model.Contact   `json:"shipping_contact"`
	Package         *model.Package   `json:"package"`

	// ShipmentGroup lists the ids of every invoice traveling in the same
	// package, in stable order. Empty means the invoice ships alone.
	ShipmentGroup []string `json:"shipment_group"`
}

type lineItemRecord struct {
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
	ProductID     string          `json:"product_id"`
}

// Store is an in-memory Repository loaded from a JSON document.
type Store struct {
	invoices map[string]*model.Invoice
	groups   map[string][]string
	order    []string
}

// Open loads a store from a JSON file.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", path)
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader loads a store from JSON content.
func FromReader(r io.Reader) (*Store, error) {
	var file storeFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode store")
	}
	return build(&file)
}

func build(file *storeFile) (*Store, error) {
	products := make(map[string]*model.Product, len(file.Products))
	for _, rec := range file.Products {
		products[rec.ID] = &model.Product{
			ID:                 rec.ID,
			Name:               rec.Name,
			WeightOunces:       rec.WeightOunces,
			CountryOfOrigin:    rec.CountryOfOrigin,
			NotPhysicalItem:    rec.NotPhysicalItem,
			ExcludeFromCustoms: rec.ExcludeFromCustoms,
			Discount:           rec.Discount,
			HasAssembly:        rec.HasAssembly,
			ScheduleBCode:      rec.ScheduleBCode,
		}
	}

	// Constituents link in a second pass so bundles can reference products
	// declared in any order.
	for _, rec := range file.Products {
		p := products[rec.ID]
		for _, c := range rec.Constituents {
			constituent, ok := products[c.ProductID]
			if !ok {
				return nil, errors.Errorf("product %s: unknown constituent %s", rec.ID, c.ProductID)
			}
			p.Constituents = append(p.Constituents, model.Constituent{
				Product:  constituent,
				Quantity: c.Quantity,
			})
		}
	}

	s := &Store{
		invoices: make(map[string]*model.Invoice, len(file.Invoices)),
		groups:   make(map[string][]string, len(file.Invoices)),
	}
	for _, rec := range file.Invoices {
		inv := &model.Invoice{
			ID:                    rec.ID,
			SalesorderID:          rec.SalesorderID,
			PONumber:              rec.PONumber,
			TaxID:                 rec.TaxID,
			ShipTime:              rec.ShipTime,
			ShippingService:       rec.ShippingService,
			ShippingAccountNumber: rec.ShippingAccountNumber,
			Coupons:               rec.Coupons,
			Tax:                   rec.Tax,
			Subtotal:              rec.Subtotal,
			Shipping:              rec.Shipping,
			Total:                 rec.Total,
			ShippingContact:       rec.ShippingContact,
		}
		if rec.Package != nil {
			inv.Packages = []*model.Package{rec.Package}
		}
		for _, item := range rec.LineItems {
			p, ok := products[item.ProductID]
			if !ok {
				return nil, errors.Errorf("invoice %s: unknown product %s", rec.ID, item.ProductID)
			}
			inv.LineItems = append(inv.LineItems, model.LineItem{
				Name:          item.Name,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
				ExtendedPrice: item.ExtendedPrice,
				Product:       p,
			})
		}
		s.invoices[rec.ID] = inv
		s.groups[rec.ID] = rec.ShipmentGroup
		s.order = append(s.order, rec.ID)
	}
	return s, nil
}

// ShipmentGroup implements Repository.
func (s *Store) ShipmentGroup(id string) (*model.ShipmentGroup, error) {
	main, ok := s.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}

	ids := s.groups[id]
	if len(ids) == 0 {
		ids = []string{id}
	}

	members := make([]*model.Invoice, 0, len(ids))
	for _, memberID := range ids {
		member, ok := s.invoices[memberID]
		if !ok {
			return nil, errors.Errorf("shipment group of %s references unknown invoice %s", id, memberID)
		}
		members = append(members, member)
	}

	return &model.ShipmentGroup{Main: main, Members: members}, nil
}

// IDs returns every invoice id in declaration order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}
