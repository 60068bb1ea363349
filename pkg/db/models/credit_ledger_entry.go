package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/enums"
)

// CreditLedgerEntry records every credit mutation: admin grants and purchase
// debits alike. Entries are append-only; BalanceAfter snapshots the balance
// the mutation produced.
type CreditLedgerEntry struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	ActorUserID  *uuid.UUID         `gorm:"column:actor_user_id;type:uuid"`
	Action       enums.LedgerAction `gorm:"column:action;not null"`
	Delta        int64              `gorm:"column:delta;not null"`
	BalanceAfter int64              `gorm:"column:balance_after;not null"`
	ReferenceID  *uuid.UUID         `gorm:"column:reference_id;type:uuid"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
