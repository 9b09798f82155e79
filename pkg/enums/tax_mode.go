package enums

import "fmt"

// TaxMode selects intra-state (CGST+SGST) or inter-state (IGST) GST on a purchase order.
type TaxMode string

const (
	TaxModeCGSTSGST TaxMode = "CGST_SGST"
	TaxModeIGST     TaxMode = "IGST"
)

var validTaxModes = []TaxMode{
	TaxModeCGSTSGST,
	TaxModeIGST,
}

// String implements fmt.Stringer.
func (m TaxMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known TaxMode.
func (m TaxMode) IsValid() bool {
	for _, candidate := range validTaxModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseTaxMode converts raw input into a TaxMode.
func ParseTaxMode(value string) (TaxMode, error) {
	for _, candidate := range validTaxModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax mode %q", value)
}
