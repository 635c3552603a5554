// Package customsinvoice provides the public API for generating
// customs-compliant commercial invoice PDFs from shipment records.
//
// Example usage:
//
//	store, err := customsinvoice.OpenStore("shipment.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := customsinvoice.Generate(store, "INV-1001", config.Load())
package customsinvoice

import (
	"github.com/rezonia/customs-invoice/internal/aggregate"
	"github.com/rezonia/customs-invoice/internal/config"
	"github.com/rezonia/customs-invoice/internal/model"
	"github.com/rezonia/customs-invoice/internal/render"
	"github.com/rezonia/customs-invoice/internal/repository"
)

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	LineItem      = model.LineItem
	Product       = model.Product
	Constituent   = model.Constituent
	Contact       = model.Contact
	Package       = model.Package
	ShipmentGroup = model.ShipmentGroup

	Aggregated = aggregate.Invoice
	Row        = aggregate.Row

	Repository = repository.Repository
	Config     = config.Config
)

// Re-export error types
type (
	ValidationError  = model.ValidationError
	ConsistencyError = model.ConsistencyError
	ResourceError    = model.ResourceError
)

// ErrNotFound reports an unresolvable invoice id.
var ErrNotFound = repository.ErrNotFound

// OpenStore loads a JSON-backed shipment store.
func OpenStore(path string) (*repository.Store, error) {
	return repository.Open(path)
}

// Aggregate resolves the shipment group for an invoice id and builds the
// render-ready aggregate without drawing anything.
func Aggregate(repo Repository, id string, cfg *Config) (*Aggregated, error) {
	group, err := repo.ShipmentGroup(id)
	if err != nil {
		return nil, err
	}
	return aggregate.Build(group, aggregate.Options{
		FromAddress: cfg.FromAddress(),
		OriginCity:  cfg.OriginCity,
	})
}

// Generate aggregates and renders the commercial invoice for an invoice id,
// returning the PDF bytes.
func Generate(repo Repository, id string, cfg *Config) ([]byte, error) {
	agg, err := Aggregate(repo, id, cfg)
	if err != nil {
		return nil, err
	}
	r, err := render.New(cfg)
	if err != nil {
		return nil, err
	}
	return r.Render(agg)
}
