package purchase

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/internal/subscriptions"
)

// ItemType discriminates what a receipt was issued for.
type ItemType string

const (
	ItemTypeOffer ItemType = "subscription_offer"
	ItemTypeApp   ItemType = "app"
	ItemTypeVideo ItemType = "video"
)

// Receipt summarises a completed purchase for the buyer.
type Receipt struct {
	ItemType     ItemType                       `json:"item_type"`
	ItemID       uuid.UUID                      `json:"item_id"`
	PriceCredits int64                          `json:"price_credits"`
	BalanceAfter int64                          `json:"balance_after"`
	PurchasedAt  time.Time                      `json:"purchased_at"`
	Subscription *subscriptions.SubscriptionDTO `json:"subscription,omitempty"`
}

// fundsDetail rides along on insufficient-funds errors so clients can show
// the shortfall without a second request.
type fundsDetail struct {
	RequiredCredits int64 `json:"required_credits"`
	BalanceCredits  int64 `json:"balance_credits"`
	ShortfallBy     int64 `json:"shortfall_by"`
}
