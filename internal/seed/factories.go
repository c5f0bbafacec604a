// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"time"

	"skillswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	hash  string
	now   func() time.Time
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Hash once; bcrypt per user dominates seeding time otherwise.
	var template models.User
	if err := template.SetPassword(DefaultPassword); err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return &Factory{
		db:    db,
		faker: gofakeit.New(seed),
		hash:  template.PasswordHash,
		now:   time.Now,
	}, nil
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:     fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 999)),
		Email:        f.faker.Email(),
		PasswordHash: f.hash,
		Location:     f.faker.City(),
		Bio:          f.faker.Sentence(10),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSkill persists a skill, reusing an existing row with the same name.
func (f *Factory) CreateSkill(name, category string) (*models.Skill, error) {
	skill := models.Skill{Name: name, Category: category}
	if err := f.db.Where(models.Skill{Name: name}).FirstOrCreate(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// LinkSkill records that user offers or seeks skill.
func (f *Factory) LinkSkill(user *models.User, skill *models.Skill, kind models.UserSkillKind) error {
	return f.db.Model(user).Association(kind.Association()).Append(skill)
}

// CreateSwap persists a swap between two users. The status defaults to pending.
func (f *Factory) CreateSwap(proposer, receiver *models.User, offered, requested *models.Skill, overrides ...func(*models.Swap)) (*models.Swap, error) {
	swap := &models.Swap{
		ProposerID:       proposer.ID,
		ReceiverID:       receiver.ID,
		OfferedSkillID:   offered.ID,
		RequestedSkillID: requested.ID,
		Status:           models.SwapStatusPending,
		Message:          f.faker.Sentence(8),
		Timestamp:        f.now().UTC(),
	}
	for _, override := range overrides {
		override(swap)
	}

	if err := f.db.Omit("Proposer", "Receiver", "OfferedSkill", "RequestedSkill").Create(swap).Error; err != nil {
		return nil, err
	}
	return swap, nil
}

// pick returns a random element index in [0, n).
func (f *Factory) pick(n int) int {
	return f.faker.Number(0, n-1)
}
