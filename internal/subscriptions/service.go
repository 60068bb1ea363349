package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// Service lists a customer's subscriptions and runs the expiry sweep.
type Service interface {
	ListMySubscriptions(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]SubscriptionDTO, pagination.Meta, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a subscriptions service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListMySubscriptions(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]SubscriptionDTO, pagination.Meta, error) {
	if userID == uuid.Nil {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	params = params.Normalize()

	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing subscriptions")
	}

	now := s.now()
	dtos := make([]SubscriptionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], now))
	}
	return dtos, pagination.MetaFor(params, total), nil
}

// SweepExpired persists expiry for everything past due at now.
func (s *service) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	rows, err := s.repo.MarkExpired(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sweeping expired subscriptions")
	}
	return rows, nil
}
