package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// SKUList is an ordered, de-duplicated set of SKU codes persisted as a
// comma-separated string. An empty list is stored as NULL.
type SKUList []string

const skuSeparator = ","

// CheckSKU rejects codes that cannot round-trip through the stored form.
func CheckSKU(sku string) error {
	if strings.Contains(sku, skuSeparator) {
		return fmt.Errorf("SKU %q must not contain %q", strings.TrimSpace(sku), skuSeparator)
	}
	return nil
}

// NewSKUList trims every entry, drops blanks and keeps the first occurrence of
// each code.
func NewSKUList(raw []string) SKUList {
	out := make(SKUList, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, sku := range raw {
		sku = strings.TrimSpace(sku)
		if sku == "" {
			continue
		}
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		out = append(out, sku)
	}
	return out
}

// Strings returns the list as a plain slice, never nil.
func (l SKUList) Strings() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

func (l *SKUList) Scan(src any) error {
	if src == nil {
		*l = SKUList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		*l = NewSKUList(strings.Split(v, skuSeparator))
	case []byte:
		*l = NewSKUList(strings.Split(string(v), skuSeparator))
	default:
		return fmt.Errorf("SKUList: unsupported Scan type %T", src)
	}
	return nil
}

func (l SKUList) Value() (driver.Value, error) {
	normalized := NewSKUList(l)
	if len(normalized) == 0 {
		return nil, nil
	}
	for _, sku := range normalized {
		if err := CheckSKU(sku); err != nil {
			return nil, err
		}
	}
	return strings.Join(normalized, skuSeparator), nil
}
