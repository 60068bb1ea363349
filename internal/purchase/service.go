package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/internal/catalog"
	"github.com/danielovera/streampass-backend/internal/offers"
	"github.com/danielovera/streampass-backend/internal/subscriptions"
	"github.com/danielovera/streampass-backend/internal/users"
	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
)

// txRunner abstracts the database transaction entry point.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes purchases. Every purchase runs in a single transaction:
// the inventory flip, the guarded debit, the ownership record, and the
// ledger entry commit together or not at all.
type Service interface {
	PurchaseOffer(ctx context.Context, userID, offerID uuid.UUID) (*Receipt, error)
	PurchaseApp(ctx context.Context, userID, appID uuid.UUID) (*Receipt, error)
	PurchaseVideo(ctx context.Context, userID, videoID uuid.UUID) (*Receipt, error)
}

type service struct {
	usersRepo  users.Repository
	offersRepo offers.Repository
	catRepo    catalog.Repository
	subsRepo   subscriptions.Repository
	tx         txRunner
	now        func() time.Time
}

// NewService wires the purchase service with its repositories.
func NewService(usersRepo users.Repository, offersRepo offers.Repository, catRepo catalog.Repository, subsRepo subscriptions.Repository, tx txRunner) (Service, error) {
	if usersRepo == nil || offersRepo == nil || catRepo == nil || subsRepo == nil {
		return nil, fmt.Errorf("purchase service requires all repositories")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		usersRepo:  usersRepo,
		offersRepo: offersRepo,
		catRepo:    catRepo,
		subsRepo:   subsRepo,
		tx:         tx,
		now:        time.Now,
	}, nil
}

func (s *service) PurchaseOffer(ctx context.Context, userID, offerID uuid.UUID) (*Receipt, error) {
	if userID == uuid.Nil || offerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and offer id are required")
	}

	// Preconditions are checked outside the transaction for friendly errors;
	// the conditional updates inside re-verify everything that can race.
	offer, err := s.offersRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer")
	}
	if !offer.Status.Purchasable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("offer is %s", offer.Status))
	}

	user, err := s.loadBuyer(ctx, userID, offer.PriceCredits)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		offersRepo := s.offersRepo.WithTx(tx)
		usersRepo := s.usersRepo.WithTx(tx)
		subsRepo := s.subsRepo.WithTx(tx)

		rows, err := offersRepo.MarkSoldOut(ctx, offerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving offer")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "offer was just sold")
		}

		balanceAfter, err := s.debit(ctx, usersRepo, userID, offer.PriceCredits, user.Credits)
		if err != nil {
			return err
		}

		startsAt := s.now()
		sub := &models.UserSubscription{
			UserID:    userID,
			OfferID:   offer.ID,
			ChannelID: offer.ChannelID,
			Code:      offer.Code,
			StartsAt:  startsAt,
			EndsAt:    offer.Duration.AddTo(startsAt),
			Status:    enums.SubscriptionStatusActive,
		}
		if err := subsRepo.Create(ctx, sub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording subscription")
		}

		if err := s.appendDebitEntry(ctx, usersRepo, userID, offer.PriceCredits, balanceAfter, offer.ID); err != nil {
			return err
		}

		receipt = &Receipt{
			ItemType:     ItemTypeOffer,
			ItemID:       offer.ID,
			PriceCredits: offer.PriceCredits,
			BalanceAfter: balanceAfter,
			PurchasedAt:  startsAt,
			Subscription: subscriptions.FromModel(sub, startsAt),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *service) PurchaseApp(ctx context.Context, userID, appID uuid.UUID) (*Receipt, error) {
	if userID == uuid.Nil || appID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and app id are required")
	}

	app, err := s.catRepo.FindAppByID(ctx, appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "app not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading app")
	}
	if err := checkUnowned(app.OwnerUserID, userID); err != nil {
		return nil, err
	}

	user, err := s.loadBuyer(ctx, userID, app.PriceCredits)
	if err != nil {
		return nil, err
	}

	return s.purchaseItem(ctx, ItemTypeApp, app.ID, app.PriceCredits, user.Credits, userID, func(ctx context.Context, tx *gorm.DB) (int64, error) {
		return s.catRepo.WithTx(tx).ClaimApp(ctx, appID, userID)
	})
}

func (s *service) PurchaseVideo(ctx context.Context, userID, videoID uuid.UUID) (*Receipt, error) {
	if userID == uuid.Nil || videoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and video id are required")
	}

	video, err := s.catRepo.FindVideoByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "video not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading video")
	}
	if err := checkUnowned(video.OwnerUserID, userID); err != nil {
		return nil, err
	}

	user, err := s.loadBuyer(ctx, userID, video.PriceCredits)
	if err != nil {
		return nil, err
	}

	return s.purchaseItem(ctx, ItemTypeVideo, video.ID, video.PriceCredits, user.Credits, userID, func(ctx context.Context, tx *gorm.DB) (int64, error) {
		return s.catRepo.WithTx(tx).ClaimVideo(ctx, videoID, userID)
	})
}

// purchaseItem runs the shared claim-debit-ledger transaction for owned items.
func (s *service) purchaseItem(ctx context.Context, itemType ItemType, itemID uuid.UUID, price, balance int64, userID uuid.UUID, claim func(ctx context.Context, tx *gorm.DB) (int64, error)) (*Receipt, error) {
	var receipt *Receipt
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.usersRepo.WithTx(tx)

		rows, err := claim(ctx, tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claiming item")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item was just sold")
		}

		balanceAfter, err := s.debit(ctx, usersRepo, userID, price, balance)
		if err != nil {
			return err
		}

		if err := s.appendDebitEntry(ctx, usersRepo, userID, price, balanceAfter, itemID); err != nil {
			return err
		}

		receipt = &Receipt{
			ItemType:     itemType,
			ItemID:       itemID,
			PriceCredits: price,
			BalanceAfter: balanceAfter,
			PurchasedAt:  s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// loadBuyer fetches the user and rejects early when the balance cannot cover
// the price.
func (s *service) loadBuyer(ctx context.Context, userID uuid.UUID, price int64) (*models.User, error) {
	user, err := s.usersRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if user.Credits < price {
		return nil, insufficientFunds(price, user.Credits)
	}
	return user, nil
}

// debit runs the guarded decrement. Zero rows means a concurrent spend beat
// us to the balance, so the whole transaction aborts.
func (s *service) debit(ctx context.Context, usersRepo users.Repository, userID uuid.UUID, price, lastKnownBalance int64) (int64, error) {
	rows, err := usersRepo.DebitCredits(ctx, userID, price)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debiting credits")
	}
	if rows == 0 {
		return 0, insufficientFunds(price, lastKnownBalance)
	}

	fresh, err := usersRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading balance")
	}
	return fresh.Credits, nil
}

func (s *service) appendDebitEntry(ctx context.Context, usersRepo users.Repository, userID uuid.UUID, price, balanceAfter int64, referenceID uuid.UUID) error {
	ref := referenceID
	entry := &models.CreditLedgerEntry{
		UserID:       userID,
		Action:       enums.LedgerActionPurchaseDebit,
		Delta:        -price,
		BalanceAfter: balanceAfter,
		ReferenceID:  &ref,
	}
	if err := usersRepo.CreateLedgerEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording ledger entry")
	}
	return nil
}

func checkUnowned(owner *uuid.UUID, buyer uuid.UUID) error {
	if owner == nil {
		return nil
	}
	if *owner == buyer {
		return pkgerrors.New(pkgerrors.CodeConflict, "you already own this item")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "item already sold")
}

func insufficientFunds(price, balance int64) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "not enough credits for this purchase").
		WithDetails(fundsDetail{
			RequiredCredits: price,
			BalanceCredits:  balance,
			ShortfallBy:     price - balance,
		})
}
