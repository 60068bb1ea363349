package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// txRunner abstracts the database transaction entry point.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes user lookups and admin credit mutations. Every credit
// mutation appends a ledger entry in the same transaction.
type Service interface {
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context, search string, params pagination.Params) ([]UserDTO, pagination.Meta, error)
	AddCredits(ctx context.Context, actorID, userID uuid.UUID, amount int64) (*UserDTO, error)
	SetCredits(ctx context.Context, actorID, userID uuid.UUID, amount int64) (*UserDTO, error)
	ResetCredits(ctx context.Context, actorID, userID uuid.UUID) (*UserDTO, error)
	CreditHistory(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]LedgerEntryDTO, pagination.Meta, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires a users service with its repository and transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return FromModel(user), nil
}

func (s *service) ListUsers(ctx context.Context, search string, params pagination.Params) ([]UserDTO, pagination.Meta, error) {
	params = params.Normalize()

	rows, total, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}

	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, pagination.MetaFor(params, total), nil
}

// AddCredits moves the balance by a signed amount. The move happens in a
// single guarded statement so a concurrent debit is never overwritten; it
// fails if the resulting balance would be negative.
func (s *service) AddCredits(ctx context.Context, actorID, userID uuid.UUID, amount int64) (*UserDTO, error) {
	if amount == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a non-zero integer")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var updated *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
		}

		rows, err := repo.AdjustCredits(ctx, userID, amount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating credits")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "credit balance may not go negative").
				WithDetails(map[string]any{
					"balance_credits": user.Credits,
					"requested_delta": amount,
				})
		}

		// Re-read for the post-adjust balance; the guarded update may have
		// raced another writer.
		user, err = repo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
		}

		actor := actorID
		entry := &models.CreditLedgerEntry{
			UserID:       userID,
			ActorUserID:  &actor,
			Action:       enums.LedgerActionAdminAdd,
			Delta:        amount,
			BalanceAfter: user.Credits,
		}
		if err := repo.CreateLedgerEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording ledger entry")
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// SetCredits overwrites the balance. Negative targets clamp to zero.
func (s *service) SetCredits(ctx context.Context, actorID, userID uuid.UUID, amount int64) (*UserDTO, error) {
	if amount < 0 {
		amount = 0
	}
	return s.overwriteCredits(ctx, actorID, userID, enums.LedgerActionAdminSet, amount)
}

// ResetCredits zeroes the balance.
func (s *service) ResetCredits(ctx context.Context, actorID, userID uuid.UUID) (*UserDTO, error) {
	return s.overwriteCredits(ctx, actorID, userID, enums.LedgerActionAdminReset, 0)
}

func (s *service) overwriteCredits(ctx context.Context, actorID, userID uuid.UUID, action enums.LedgerAction, target int64) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var updated *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
		}

		if err := repo.SetCredits(ctx, userID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating credits")
		}

		actor := actorID
		entry := &models.CreditLedgerEntry{
			UserID:       userID,
			ActorUserID:  &actor,
			Action:       action,
			Delta:        target - user.Credits,
			BalanceAfter: target,
		}
		if err := repo.CreateLedgerEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording ledger entry")
		}

		user.Credits = target
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) CreditHistory(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]LedgerEntryDTO, pagination.Meta, error) {
	if userID == uuid.Nil {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	params = params.Normalize()

	rows, total, err := s.repo.ListLedger(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing credit history")
	}

	dtos := make([]LedgerEntryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *LedgerEntryFromModel(&rows[i]))
	}
	return dtos, pagination.MetaFor(params, total), nil
}
