package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"

	"gorm.io/gorm"
)

// SkillRepository defines persistence operations for skills.
type SkillRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	Exists(ctx context.Context, id uint) (bool, error)
	GetByName(ctx context.Context, name string) (*models.Skill, error)
	Create(ctx context.Context, skill *models.Skill) error
	List(ctx context.Context) ([]models.Skill, error)
	WithTx(tx *gorm.DB) SkillRepository
}

type skillRepository struct {
	db       *gorm.DB
	useCache bool
	log      *observability.RepoLogger
}

// NewSkillRepository returns a new SkillRepository implementation.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db, useCache: true, log: observability.NewRepoLogger("skills", middleware.Logger)}
}

func (r *skillRepository) WithTx(tx *gorm.DB) SkillRepository {
	return &skillRepository{db: tx, log: r.log}
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "Skill", id)
	}
	return &skill, nil
}

func (r *skillRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Skill{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *skillRepository) GetByName(ctx context.Context, name string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &skill, nil
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	defer observability.TrackQuery("create", "skills")()

	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		if isUniqueConstraintError(err) {
			return &models.AppError{Code: models.CodeConflict, Message: "Skill already exists", Err: err}
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"skill_id": skill.ID, "name": skill.Name})
	return nil
}

// List returns every skill ordered by id.
func (r *skillRepository) List(ctx context.Context) ([]models.Skill, error) {
	if !r.useCache {
		return r.list(ctx)
	}

	skills := []models.Skill{}
	err := cache.Aside(ctx, cache.KeyspaceSkills, cache.SkillListKey, &skills, cache.SkillListTTL, func() error {
		loaded, err := r.list(ctx)
		if err != nil {
			return err
		}
		skills = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepository) list(ctx context.Context) ([]models.Skill, error) {
	defer observability.TrackQuery("list", "skills")()

	skills := []models.Skill{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}
