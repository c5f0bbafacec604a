package service

import (
	"context"

	"skillswap/internal/cache"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"

	"gorm.io/gorm"
)

// SkillService manages the skill catalogue.
type SkillService struct {
	skillRepo repository.SkillRepository
	userRepo  repository.UserRepository
	tx        TxFunc
}

// NewSkillService returns a new SkillService.
func NewSkillService(skillRepo repository.SkillRepository, userRepo repository.UserRepository, tx TxFunc) *SkillService {
	return &SkillService{
		skillRepo: skillRepo,
		userRepo:  userRepo,
		tx:        tx,
	}
}

// SkillHolders lists who offers and who seeks a skill.
type SkillHolders struct {
	Skill    *models.Skill `json:"skill"`
	Offering []models.User `json:"offering"`
	Seeking  []models.User `json:"seeking"`
}

// CreateSkill adds a skill with a unique name.
func (s *SkillService) CreateSkill(ctx context.Context, name, category string) (*models.Skill, error) {
	ctx, span := observability.StartServiceSpan(ctx, "SkillService", "CreateSkill")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	skill := &models.Skill{Name: name, Category: category}
	err = s.tx(ctx, func(tx *gorm.DB) error {
		skills := s.skillRepo.WithTx(tx)

		existing, err := skills.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Skill already exists")
		}
		return skills.Create(ctx, skill)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateSkills(ctx)
	observability.SkillsCreated.Inc()
	return skill, nil
}

// ListSkills returns every skill ordered by id.
func (s *SkillService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.skillRepo.List(ctx)
}

// GetSkillHolders returns a skill with the users offering and seeking it.
func (s *SkillService) GetSkillHolders(ctx context.Context, skillID uint) (*SkillHolders, error) {
	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}

	offering, err := s.userRepo.ListOfferingSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	seeking, err := s.userRepo.ListSeekingSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}

	if offering == nil {
		offering = []models.User{}
	}
	if seeking == nil {
		seeking = []models.User{}
	}
	return &SkillHolders{Skill: skill, Offering: offering, Seeking: seeking}, nil
}
