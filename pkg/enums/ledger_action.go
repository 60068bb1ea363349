package enums

import "fmt"

// LedgerAction identifies what moved a user's credit balance.
type LedgerAction string

const (
	LedgerActionAdminAdd      LedgerAction = "admin_add"
	LedgerActionAdminSet      LedgerAction = "admin_set"
	LedgerActionAdminReset    LedgerAction = "admin_reset"
	LedgerActionPurchaseDebit LedgerAction = "purchase_debit"
)

var validLedgerActions = []LedgerAction{
	LedgerActionAdminAdd,
	LedgerActionAdminSet,
	LedgerActionAdminReset,
	LedgerActionPurchaseDebit,
}

// String implements fmt.Stringer.
func (a LedgerAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known LedgerAction.
func (a LedgerAction) IsValid() bool {
	for _, candidate := range validLedgerActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseLedgerAction converts raw input into a LedgerAction.
func ParseLedgerAction(value string) (LedgerAction, error) {
	for _, candidate := range validLedgerActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger action %q", value)
}
