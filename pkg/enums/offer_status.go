package enums

import "fmt"

// OfferStatus tracks the finite-inventory lifecycle of a subscription offer.
// sold_out is terminal with respect to active: it never reverts.
type OfferStatus string

const (
	OfferStatusActive    OfferStatus = "active"
	OfferStatusSoldOut   OfferStatus = "sold_out"
	OfferStatusExpired   OfferStatus = "expired"
	OfferStatusCancelled OfferStatus = "cancelled"
)

var validOfferStatuses = []OfferStatus{
	OfferStatusActive,
	OfferStatusSoldOut,
	OfferStatusExpired,
	OfferStatusCancelled,
}

// String implements fmt.Stringer.
func (s OfferStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OfferStatus.
func (s OfferStatus) IsValid() bool {
	for _, candidate := range validOfferStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Purchasable reports whether an offer in this status may still be sold.
func (s OfferStatus) Purchasable() bool {
	return s == OfferStatusActive
}

// ParseOfferStatus converts raw input into an OfferStatus.
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, candidate := range validOfferStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer status %q", value)
}
