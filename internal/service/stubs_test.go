package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"

	"gorm.io/gorm"
)

// directTx runs fn without a real transaction; stubs ignore the handle.
func directTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	existsFn            func(context.Context, uint) (bool, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	listFn              func(context.Context) ([]models.User, error)
	addSkillFn          func(context.Context, uint, uint, models.UserSkillKind) error
	listOfferingSkillFn func(context.Context, uint) ([]models.User, error)
	listSeekingSkillFn  func(context.Context, uint) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) AddSkill(ctx context.Context, userID, skillID uint, kind models.UserSkillKind) error {
	return s.addSkillFn(ctx, userID, skillID, kind)
}
func (s *userRepoStub) ListOfferingSkill(ctx context.Context, skillID uint) ([]models.User, error) {
	return s.listOfferingSkillFn(ctx, skillID)
}
func (s *userRepoStub) ListSeekingSkill(ctx context.Context, skillID uint) ([]models.User, error) {
	return s.listSeekingSkillFn(ctx, skillID)
}
func (s *userRepoStub) WithTx(_ *gorm.DB) repository.UserRepository { return s }

type skillRepoStub struct {
	getByIDFn   func(context.Context, uint) (*models.Skill, error)
	existsFn    func(context.Context, uint) (bool, error)
	getByNameFn func(context.Context, string) (*models.Skill, error)
	createFn    func(context.Context, *models.Skill) error
	listFn      func(context.Context) ([]models.Skill, error)
}

func (s *skillRepoStub) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	return s.getByIDFn(ctx, id)
}
func (s *skillRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *skillRepoStub) GetByName(ctx context.Context, name string) (*models.Skill, error) {
	return s.getByNameFn(ctx, name)
}
func (s *skillRepoStub) Create(ctx context.Context, skill *models.Skill) error {
	return s.createFn(ctx, skill)
}
func (s *skillRepoStub) List(ctx context.Context) ([]models.Skill, error) {
	return s.listFn(ctx)
}
func (s *skillRepoStub) WithTx(_ *gorm.DB) repository.SkillRepository { return s }

type swapRepoStub struct {
	createFn         func(context.Context, *models.Swap) error
	getByIDFn        func(context.Context, uint) (*models.Swap, error)
	listProposedByFn func(context.Context, uint) ([]models.Swap, error)
	listReceivedByFn func(context.Context, uint) ([]models.Swap, error)
	updateStatusFn   func(context.Context, uint, models.SwapStatus) error
}

func (s *swapRepoStub) Create(ctx context.Context, swap *models.Swap) error {
	return s.createFn(ctx, swap)
}
func (s *swapRepoStub) GetByID(ctx context.Context, id uint) (*models.Swap, error) {
	return s.getByIDFn(ctx, id)
}
func (s *swapRepoStub) ListProposedBy(ctx context.Context, userID uint) ([]models.Swap, error) {
	return s.listProposedByFn(ctx, userID)
}
func (s *swapRepoStub) ListReceivedBy(ctx context.Context, userID uint) ([]models.Swap, error) {
	return s.listReceivedByFn(ctx, userID)
}
func (s *swapRepoStub) UpdateStatus(ctx context.Context, id uint, status models.SwapStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *swapRepoStub) WithTx(_ *gorm.DB) repository.SwapRepository { return s }

func existsSet(ids ...uint) func(context.Context, uint) (bool, error) {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(_ context.Context, id uint) (bool, error) {
		return set[id], nil
	}
}
