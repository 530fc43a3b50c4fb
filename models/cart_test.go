package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestNewLineRef(t *testing.T) {
	tests := []struct {
		name        string
		productID   *uint
		flashSaleID *uint
		want        LineRef
		wantErr     error
	}{
		{"product only", uintPtr(7), nil, ProductRef(7), nil},
		{"flash sale only", nil, uintPtr(3), FlashSaleRef(3), nil},
		{"both set", uintPtr(7), uintPtr(3), LineRef{}, ErrInvalidReference},
		{"neither set", nil, nil, LineRef{}, ErrInvalidReference},
		{"zero product id", uintPtr(0), nil, LineRef{}, ErrInvalidReference},
		{"zero product with flash sale", uintPtr(0), uintPtr(3), FlashSaleRef(3), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLineRef(tt.productID, tt.flashSaleID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCartLineSetRefKeepsColumnsExclusive(t *testing.T) {
	var line CartLine

	line.SetRef(ProductRef(4))
	assert.Equal(t, ItemKindProduct, line.ItemKind)
	require.NotNil(t, line.ProductID)
	assert.Equal(t, uint(4), *line.ProductID)
	assert.Nil(t, line.FlashSaleID)
	assert.Equal(t, ProductRef(4), line.Ref())

	line.SetRef(FlashSaleRef(9))
	assert.Equal(t, ItemKindFlashSale, line.ItemKind)
	assert.Nil(t, line.ProductID)
	require.NotNil(t, line.FlashSaleID)
	assert.Equal(t, FlashSaleRef(9), line.Ref())
}

func TestCartLineRefMismatchedKind(t *testing.T) {
	line := CartLine{ItemKind: ItemKindFlashSale, ProductID: uintPtr(1)}
	assert.True(t, line.Ref().IsZero())
	assert.Equal(t, "none", line.Ref().String())
	assert.Equal(t, "product:1", ProductRef(1).String())
}
