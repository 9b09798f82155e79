package types

import "strings"

// TrimmedString trims an optional text field. Nil and blank values become nil
// so empty strings are never stored in nullable columns.
func TrimmedString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
