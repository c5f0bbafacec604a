package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"

	"gorm.io/gorm"
)

// SwapService handles swap proposals, listings and responses.
type SwapService struct {
	swapRepo  repository.SwapRepository
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
	tx        TxFunc
	now       func() time.Time
}

// NewSwapService returns a new SwapService.
func NewSwapService(
	swapRepo repository.SwapRepository,
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	tx TxFunc,
) *SwapService {
	return &SwapService{
		swapRepo:  swapRepo,
		userRepo:  userRepo,
		skillRepo: skillRepo,
		tx:        tx,
		now:       time.Now,
	}
}

// ProposeInput carries the fields of a swap proposal.
type ProposeInput struct {
	ProposerID       uint
	ReceiverID       uint
	OfferedSkillID   uint
	RequestedSkillID uint
	Message          string
}

// Propose records a pending swap. Both users are checked before both skills.
// Self-swaps and skill ownership are not checked.
func (s *SwapService) Propose(ctx context.Context, in ProposeInput) (*models.Swap, error) {
	ctx, span := observability.StartServiceSpan(ctx, "SwapService", "Propose")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var created *models.Swap
	err = s.tx(ctx, func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		for _, id := range []uint{in.ProposerID, in.ReceiverID} {
			if id == 0 {
				return models.NewNotFoundError("Invalid user ID")
			}
			ok, err := users.Exists(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return models.NewNotFoundError("Invalid user ID")
			}
		}

		skills := s.skillRepo.WithTx(tx)
		for _, id := range []uint{in.OfferedSkillID, in.RequestedSkillID} {
			if id == 0 {
				return models.NewNotFoundError("Invalid skill ID")
			}
			ok, err := skills.Exists(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return models.NewNotFoundError("Invalid skill ID")
			}
		}

		swap := &models.Swap{
			ProposerID:       in.ProposerID,
			ReceiverID:       in.ReceiverID,
			OfferedSkillID:   in.OfferedSkillID,
			RequestedSkillID: in.RequestedSkillID,
			Status:           models.SwapStatusPending,
			Message:          in.Message,
			Timestamp:        s.now().UTC(),
		}
		swaps := s.swapRepo.WithTx(tx)
		if err := swaps.Create(ctx, swap); err != nil {
			return err
		}

		loaded, err := swaps.GetByID(ctx, swap.ID)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.SwapsProposed.Inc()
	return created, nil
}

// GetSwap returns one swap with both users and both skills.
func (s *SwapService) GetSwap(ctx context.Context, id uint) (*models.Swap, error) {
	return s.swapRepo.GetByID(ctx, id)
}

// ListUserSwaps returns the swaps a user proposed or received, newest first.
// A swap where the user is on both sides is listed once.
func (s *SwapService) ListUserSwaps(ctx context.Context, userID uint) ([]models.Swap, error) {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewRecordNotFoundError("User", userID)
	}

	proposed, err := s.swapRepo.ListProposedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.swapRepo.ListReceivedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	return mergeSwaps(proposed, received), nil
}

// mergeSwaps concatenates, drops duplicate ids and stable-sorts by timestamp descending.
func mergeSwaps(lists ...[]models.Swap) []models.Swap {
	seen := make(map[uint]struct{})
	out := make([]models.Swap, 0)
	for _, list := range lists {
		for _, sw := range list {
			if _, dup := seen[sw.ID]; dup {
				continue
			}
			seen[sw.ID] = struct{}{}
			out = append(out, sw)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Respond overwrites the swap status with the receiver's answer.
// The previous status is not checked; replacing a non-pending status is logged.
func (s *SwapService) Respond(ctx context.Context, swapID uint, answer models.ResponseStatus) (*models.Swap, error) {
	ctx, span := observability.StartServiceSpan(ctx, "SwapService", "Respond")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var (
		updated    *models.Swap
		previous   models.SwapStatus
		wasPending bool
	)
	err = s.tx(ctx, func(tx *gorm.DB) error {
		swaps := s.swapRepo.WithTx(tx)

		swap, err := swaps.GetByID(ctx, swapID)
		if err != nil {
			return err
		}

		wasPending = swap.IsPending()
		previous = swap.Respond(answer)
		if err := swaps.UpdateStatus(ctx, swap.ID, swap.Status); err != nil {
			return err
		}

		updated = swap
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wasPending {
		middleware.Logger.WarnContext(ctx, "swap status overwritten after it was already answered",
			slog.Uint64("swap_id", uint64(swapID)),
			slog.String("previous", string(previous)),
			slog.String("status", string(updated.Status)),
		)
	}
	observability.SwapResponses.WithLabelValues(string(updated.Status), string(previous)).Inc()
	return updated, nil
}
