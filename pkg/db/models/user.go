package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/enums"
)

// User represents the canonical account entity. Credits are the internal
// spendable currency; the column carries a DB-level CHECK (credits >= 0) and
// every debit goes through a guarded update.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	DisplayName  string           `gorm:"column:display_name;not null"`
	Role         enums.UserRole   `gorm:"column:role;not null;default:'customer'"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:'approved'"`
	Credits      int64            `gorm:"column:credits;not null;default:0"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
