package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	DisplayName string           `json:"display_name"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	Credits     int64            `json:"credits"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Role         enums.UserRole
	Credits      int64
}

// LedgerEntryDTO is the transport shape for one credit mutation.
type LedgerEntryDTO struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"user_id"`
	ActorUserID  *uuid.UUID         `json:"actor_user_id,omitempty"`
	Action       enums.LedgerAction `json:"action"`
	Delta        int64              `json:"delta"`
	BalanceAfter int64              `json:"balance_after"`
	ReferenceID  *uuid.UUID         `json:"reference_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		Credits:     u.Credits,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func LedgerEntryFromModel(e *models.CreditLedgerEntry) *LedgerEntryDTO {
	if e == nil {
		return nil
	}

	return &LedgerEntryDTO{
		ID:           e.ID,
		UserID:       e.UserID,
		ActorUserID:  e.ActorUserID,
		Action:       e.Action,
		Delta:        e.Delta,
		BalanceAfter: e.BalanceAfter,
		ReferenceID:  e.ReferenceID,
		CreatedAt:    e.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		DisplayName:  c.DisplayName,
		Role:         role,
		Status:       enums.UserStatusApproved,
		Credits:      c.Credits,
	}
}
