package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/customs-invoice/internal/aggregate"
	"github.com/rezonia/customs-invoice/internal/model"
)

func TestHSCode(t *testing.T) {
	tests := []struct {
		name     string
		product  *model.Product
		expected string
	}{
		{
			"assembled product strips dots and suffix",
			&model.Product{HasAssembly: true, ScheduleBCode: "1234.56.7890"},
			"123456",
		},
		{
			"no assembly yields empty code",
			&model.Product{HasAssembly: false, ScheduleBCode: "1234.56.7890"},
			"",
		},
		{
			"assembled product with empty schedule code",
			&model.Product{HasAssembly: true, ScheduleBCode: ""},
			"",
		},
		{
			"short code kept whole",
			&model.Product{HasAssembly: true, ScheduleBCode: "85.01"},
			"8501",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, aggregate.HSCode(tc.product))
		})
	}
}

func TestRow_NumericQuantity(t *testing.T) {
	assert.Equal(t, 12, aggregate.Row{Quantity: "12"}.NumericQuantity())
	assert.Equal(t, 0, aggregate.Row{Quantity: "-"}.NumericQuantity())
	assert.Equal(t, 0, aggregate.Row{Quantity: ""}.NumericQuantity())
	assert.Equal(t, 0, aggregate.Row{Quantity: "Quantity"}.NumericQuantity())
}

func TestRow_IsSubitem(t *testing.T) {
	assert.True(t, aggregate.Row{Kind: aggregate.KindComboSubitem, LineNumber: "3a"}.IsSubitem())
	assert.False(t, aggregate.Row{Kind: aggregate.KindNormal, LineNumber: "3"}.IsSubitem())
	assert.False(t, aggregate.Row{Kind: aggregate.KindHeader, LineNumber: "#"}.IsSubitem())
}

func TestRow_Columns(t *testing.T) {
	row := aggregate.Row{
		LineNumber:    "1",
		Quantity:      "2",
		ProductID:     "1001",
		Description:   "Widget",
		ExtWeight:     "4 oz",
		UnitPrice:     "5.00",
		ExtendedPrice: "10.00",
		Origin:        "USA",
		HSCode:        "123456",
	}
	cols := row.Columns()
	assert.Equal(t, "1", cols[0])
	assert.Equal(t, "Widget", cols[3])
	assert.Equal(t, "123456", cols[8])
}
