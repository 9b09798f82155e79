package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaxMode(t *testing.T) {
	mode, err := ParseTaxMode("IGST")
	require.NoError(t, err)
	assert.Equal(t, TaxModeIGST, mode)

	_, err = ParseTaxMode("igst")
	assert.Error(t, err)
	assert.False(t, TaxMode("VAT").IsValid())
}

func TestItemAndVendorStatus(t *testing.T) {
	assert.True(t, ItemStatusDraft.IsValid())
	assert.True(t, ItemStatus("PUBLISHED").IsValid())
	assert.False(t, ItemStatus("ARCHIVED").IsValid())

	status, err := ParseVendorStatus("Inactive")
	require.NoError(t, err)
	assert.Equal(t, VendorStatusInactive, status)
	assert.Equal(t, "Active", VendorStatusActive.String())

	_, err = ParseVendorStatus("active")
	assert.Error(t, err)
}
