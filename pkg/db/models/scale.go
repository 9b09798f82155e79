package models

import "github.com/shopspring/decimal"

// Fractional digits kept by the numeric columns.
const (
	AmountScale   int32 = 2
	RateScale     int32 = 2
	QuantityScale int32 = 3
)

// Scaled pairs a decimal input with the scale of the column it is stored in.
type Scaled struct {
	Field  string
	Value  decimal.Decimal
	Places int32
}

// FirstOverScale returns the first field whose value carries more fractional
// digits than its column keeps. Such values would be rounded silently by the
// database, so callers reject them instead.
func FirstOverScale(fields ...Scaled) (Scaled, bool) {
	for _, f := range fields {
		if !f.Value.Equal(f.Value.Truncate(f.Places)) {
			return f, true
		}
	}
	return Scaled{}, false
}
