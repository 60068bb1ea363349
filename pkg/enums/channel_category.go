package enums

import "fmt"

// ChannelCategory distinguishes IPTV bouquets from single streaming services.
type ChannelCategory string

const (
	ChannelCategoryIPTV      ChannelCategory = "iptv"
	ChannelCategoryStreaming ChannelCategory = "streaming"
)

var validChannelCategories = []ChannelCategory{
	ChannelCategoryIPTV,
	ChannelCategoryStreaming,
}

// String implements fmt.Stringer.
func (c ChannelCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChannelCategory.
func (c ChannelCategory) IsValid() bool {
	for _, candidate := range validChannelCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChannelCategory converts raw input into a ChannelCategory.
func ParseChannelCategory(value string) (ChannelCategory, error) {
	for _, candidate := range validChannelCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel category %q", value)
}
