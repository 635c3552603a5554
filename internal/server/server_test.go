package server_test

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/customs-invoice/internal/config"
	"github.com/rezonia/customs-invoice/internal/model"
	"github.com/rezonia/customs-invoice/internal/money"
	"github.com/rezonia/customs-invoice/internal/repository"
	"github.com/rezonia/customs-invoice/internal/server"
)

// stubRepo serves canned shipment groups keyed by invoice id.
type stubRepo struct {
	groups map[string]*model.ShipmentGroup
}

func (r *stubRepo) ShipmentGroup(id string) (*model.ShipmentGroup, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return group, nil
}

func testAppConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Environment:     "test",
		SenderAttention: "Dana Whitfield",
		SenderCompany:   "Rezonia Corporation",
		SenderStreet:    "4455 Juniper Trail",
		SenderCityLine:  "Las Vegas, NV 89119",
		SenderCountry:   "USA",
		SenderTaxID:     "043557128",
		SenderPhone:     "+1 (702) 555-6648",
		SenderFax:       "+1 (702) 555-6894",
		SenderEmail:     "sales@rezonia.com",
		SenderWebsite:   "www.rezonia.com",
		OriginCity:      "Las Vegas",
		SignerName:      "Dana Whitfield",
		LogoPath:        filepath.Join(dir, "logo.png"),
		SignaturePath:   filepath.Join(dir, "signature.png"),
	}
	for _, path := range []string{cfg.LogoPath, cfg.SignaturePath} {
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
		require.NoError(t, f.Close())
	}
	return cfg
}

func shippableInvoice() *model.Invoice {
	return &model.Invoice{
		ID:              "INV-1001",
		SalesorderID:    "SO-5001",
		ShippingService: "FedEx International Priority",
		Tax:             money.Zero,
		Subtotal:        money.FromInt(10),
		Shipping:        money.FromInt(6),
		Total:           money.FromInt(16),
		ShippingContact: &model.Contact{
			Name:    "Terra Ashley Bilderback",
			Addr1:   "Beautiful Winds, inc",
			City:    "Ariea",
			State:   "Sky",
			Zip:     "33655",
			Country: "USA",
		},
		Packages: []*model.Package{
			{TrackingNumber: "1Z999AA10123456784", WeightOunces: 52},
		},
		LineItems: []model.LineItem{
			{
				Name:          "Widget A",
				Quantity:      2,
				UnitPrice:     money.FromInt(5),
				ExtendedPrice: money.FromInt(10),
				Product: &model.Product{
					ID: "1001", Name: "Widget", WeightOunces: 2, CountryOfOrigin: "USA",
				},
			},
		},
	}
}

func newTestServer(t *testing.T, app *config.Config, repo repository.Repository) http.Handler {
	t.Helper()
	srv, err := server.NewServer(&server.Config{Address: ":0"}, app, repo, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	handler.ServeHTTP(w, req)
	return w
}

func TestNewServer_MissingAssets(t *testing.T) {
	app := testAppConfig(t)
	app.LogoPath = filepath.Join(t.TempDir(), "missing.png")

	_, err := server.NewServer(&server.Config{}, app, &stubRepo{}, nil)
	require.Error(t, err)

	var rErr *model.ResourceError
	assert.ErrorAs(t, err, &rErr)
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, testAppConfig(t), &stubRepo{})

	w := get(handler, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGenerate_ForbiddenInProduction(t *testing.T) {
	app := testAppConfig(t)
	app.Environment = "production"
	handler := newTestServer(t, app, &stubRepo{})

	w := get(handler, "/api/v1/invoices/INV-1001/commercial-invoice")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Error 403: Forbidden", w.Body.String())
}

func TestGenerate_NotFound(t *testing.T) {
	handler := newTestServer(t, testAppConfig(t), &stubRepo{})

	w := get(handler, "/api/v1/invoices/INV-9999/commercial-invoice")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no invoice found")
}

func TestGenerate_ValidationFault(t *testing.T) {
	inv := shippableInvoice()
	inv.ShippingContact = nil
	repo := &stubRepo{groups: map[string]*model.ShipmentGroup{
		"INV-1001": {Main: inv, Members: []*model.Invoice{inv}},
	}}
	handler := newTestServer(t, testAppConfig(t), repo)

	w := get(handler, "/api/v1/invoices/INV-1001/commercial-invoice")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid shipment data")
}

func TestGenerate_ServesPDFInline(t *testing.T) {
	inv := shippableInvoice()
	repo := &stubRepo{groups: map[string]*model.ShipmentGroup{
		"INV-1001": {Main: inv, Members: []*model.Invoice{inv}},
	}}
	handler := newTestServer(t, testAppConfig(t), repo)

	w := get(handler, "/api/v1/invoices/INV-1001/commercial-invoice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=commercial-invoice.pdf", w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
