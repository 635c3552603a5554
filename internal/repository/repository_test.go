package repository_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/customs-invoice/internal/repository"
)

func openTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := repository.Open("testdata/shipment.json")
	require.NoError(t, err)
	return store
}

func TestOpen(t *testing.T) {
	store := openTestStore(t)
	assert.Equal(t, []string{"INV-1001", "INV-1002", "INV-2001"}, store.IDs())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := repository.Open("testdata/nope.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store")
}

func TestFromReader_BadJSON(t *testing.T) {
	_, err := repository.FromReader(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode store")
}

func TestFromReader_UnknownProduct(t *testing.T) {
	_, err := repository.FromReader(strings.NewReader(`{
		"products": [],
		"invoices": [{
			"id": "INV-1",
			"line_items": [{"name": "x", "quantity": 1, "product_id": "9999"}]
		}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown product 9999")
}

func TestFromReader_UnknownConstituent(t *testing.T) {
	_, err := repository.FromReader(strings.NewReader(`{
		"products": [{
			"id": "2001",
			"name": "Bundle",
			"constituents": [{"product_id": "9999", "quantity": 1}]
		}],
		"invoices": []
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown constituent 9999")
}

func TestShipmentGroup_Linked(t *testing.T) {
	store := openTestStore(t)

	group, err := store.ShipmentGroup("INV-1001")
	require.NoError(t, err)
	require.NotNil(t, group.Main)
	assert.Equal(t, "INV-1001", group.Main.ID)

	require.Len(t, group.Members, 2)
	assert.Equal(t, "INV-1001", group.Members[0].ID)
	assert.Equal(t, "INV-1002", group.Members[1].ID)

	// The same record object backs both the main slot and its member slot.
	assert.Same(t, group.Main, group.Members[0])
}

func TestShipmentGroup_ResolvedFromEitherMember(t *testing.T) {
	store := openTestStore(t)

	group, err := store.ShipmentGroup("INV-1002")
	require.NoError(t, err)
	assert.Equal(t, "INV-1002", group.Main.ID)

	// Member order follows the declared group, not the requested id.
	require.Len(t, group.Members, 2)
	assert.Equal(t, "INV-1001", group.Members[0].ID)
}

func TestShipmentGroup_Solo(t *testing.T) {
	store := openTestStore(t)

	group, err := store.ShipmentGroup("INV-2001")
	require.NoError(t, err)
	require.Len(t, group.Members, 1)
	assert.Same(t, group.Main, group.Members[0])
	assert.Equal(t, "998877", group.Main.ShippingAccountNumber)
}

func TestShipmentGroup_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.ShipmentGroup("INV-9999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_LinksRecords(t *testing.T) {
	store := openTestStore(t)

	group, err := store.ShipmentGroup("INV-1001")
	require.NoError(t, err)
	inv := group.Main

	require.Len(t, inv.LineItems, 4)
	require.Len(t, inv.Packages, 1)
	assert.Equal(t, "1Z999AA10123456784", inv.Packages[0].TrackingNumber)
	assert.EqualValues(t, 52, inv.Packages[0].WeightOunces)

	combo := inv.LineItems[1].Product
	require.True(t, combo.IsCombination())
	require.Len(t, combo.Constituents, 2)
	assert.Equal(t, "Motor", combo.Constituents[0].Product.Name)
	assert.Equal(t, 2, combo.Constituents[0].Quantity)
	assert.True(t, combo.Constituents[1].Product.ExcludeFromCustoms)

	// Shared products resolve to one object.
	assert.Same(t, inv.LineItems[0].Product, group.Members[1].LineItems[0].Product)

	require.NotNil(t, inv.ShipTime)
	assert.Equal(t, "2026-08-14", inv.ShipTime.Format("2006-01-02"))
}
