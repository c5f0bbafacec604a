package repository

import (
	"context"
	"fmt"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwapRepository defines persistence operations for swaps.
type SwapRepository interface {
	Create(ctx context.Context, swap *models.Swap) error
	GetByID(ctx context.Context, id uint) (*models.Swap, error)
	ListProposedBy(ctx context.Context, userID uint) ([]models.Swap, error)
	ListReceivedBy(ctx context.Context, userID uint) ([]models.Swap, error)
	UpdateStatus(ctx context.Context, id uint, status models.SwapStatus) error
	WithTx(tx *gorm.DB) SwapRepository
}

type swapRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewSwapRepository returns a new SwapRepository implementation.
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db, log: observability.NewRepoLogger("swaps", middleware.Logger)}
}

func (r *swapRepository) WithTx(tx *gorm.DB) SwapRepository {
	return &swapRepository{db: tx, log: r.log}
}

// withParticipants preloads both users (with their skill lists) and both skills.
func withParticipants(db *gorm.DB) *gorm.DB {
	return db.
		Scopes(withUserSkills("Proposer.")).
		Scopes(withUserSkills("Receiver.")).
		Preload("Proposer").
		Preload("Receiver").
		Preload("OfferedSkill").
		Preload("RequestedSkill")
}

func (r *swapRepository) Create(ctx context.Context, swap *models.Swap) error {
	defer observability.TrackQuery("create", "swaps")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(swap).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"swap_id":     swap.ID,
		"proposer_id": swap.ProposerID,
		"receiver_id": swap.ReceiverID,
	})
	return nil
}

func (r *swapRepository) GetByID(ctx context.Context, id uint) (*models.Swap, error) {
	defer observability.TrackQuery("get", "swaps")()

	var swap models.Swap
	if err := r.db.WithContext(ctx).Scopes(withParticipants).First(&swap, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "Swap", id)
	}
	return &swap, nil
}

// ListProposedBy returns swaps whose proposer is userID, newest first.
func (r *swapRepository) ListProposedBy(ctx context.Context, userID uint) ([]models.Swap, error) {
	return r.listBy(ctx, "proposer_id", userID)
}

// ListReceivedBy returns swaps whose receiver is userID, newest first.
func (r *swapRepository) ListReceivedBy(ctx context.Context, userID uint) ([]models.Swap, error) {
	return r.listBy(ctx, "receiver_id", userID)
}

func (r *swapRepository) listBy(ctx context.Context, column string, userID uint) ([]models.Swap, error) {
	defer observability.TrackQuery("list", "swaps")()

	var swaps []models.Swap
	if err := r.db.WithContext(ctx).
		Scopes(withParticipants).
		Where(clause.Eq{Column: clause.Column{Table: "swaps", Name: column}, Value: userID}).
		Order("swaps.timestamp DESC").
		Order("swaps.id DESC").
		Find(&swaps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return swaps, nil
}

// UpdateStatus overwrites the status column only; the timestamp is never written.
func (r *swapRepository) UpdateStatus(ctx context.Context, id uint, status models.SwapStatus) error {
	if !status.Valid() {
		return models.NewInternalError(fmt.Errorf("unknown swap status %q", status))
	}
	defer observability.TrackQuery("update", "swaps")()

	result := r.db.WithContext(ctx).Model(&models.Swap{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewRecordNotFoundError("Swap", id)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"swap_id": id, "status": string(status)})
	return nil
}
