package enums

import "fmt"

// ItemStatus tracks whether an item is still being prepared or visible to sales.
type ItemStatus string

const (
	ItemStatusDraft     ItemStatus = "DRAFT"
	ItemStatusPublished ItemStatus = "PUBLISHED"
)

var validItemStatuss = []ItemStatus{
	ItemStatusDraft,
	ItemStatusPublished,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuss {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into a ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuss {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
