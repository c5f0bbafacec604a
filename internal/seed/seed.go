package seed

import (
	"fmt"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumSwaps    int
	ShouldClean bool
	// Seed makes the generated data reproducible; zero means random.
	Seed int64
}

// Result summarises what a seeding run created.
type Result struct {
	Users  []models.User
	Skills []models.Skill
	Swaps  []models.Swap
}

// Catalogue is the skill list every seeding run starts from.
var Catalogue = []models.Skill{
	{Name: "Guitar", Category: "Music"},
	{Name: "Piano", Category: "Music"},
	{Name: "Singing", Category: "Music"},
	{Name: "Spanish", Category: "Language"},
	{Name: "French", Category: "Language"},
	{Name: "Japanese", Category: "Language"},
	{Name: "Go Programming", Category: "Technology"},
	{Name: "Web Design", Category: "Technology"},
	{Name: "Photography", Category: "Art"},
	{Name: "Watercolor", Category: "Art"},
	{Name: "Baking", Category: "Cooking"},
	{Name: "Yoga", Category: "Fitness"},
}

var swapStatuses = []models.SwapStatus{
	models.SwapStatusPending,
	models.SwapStatusPending,
	models.SwapStatusAccepted,
	models.SwapStatusRejected,
}

// Seed populates the database with users, skills, skill links and swaps.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	log := middleware.Logger
	log.Info("Starting database seeding", slog.Int("users", opts.NumUsers), slog.Int("swaps", opts.NumSwaps))

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts.Seed)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, s := range Catalogue {
		skill, err := f.CreateSkill(s.Name, s.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to create skill %q: %w", s.Name, err)
		}
		res.Skills = append(res.Skills, *skill)
	}
	log.Info("Skills available", slog.Int("count", len(res.Skills)))

	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		offered := &res.Skills[f.pick(len(res.Skills))]
		seeking := &res.Skills[f.pick(len(res.Skills))]
		if err := f.LinkSkill(user, offered, models.UserSkillOffered); err != nil {
			return nil, fmt.Errorf("failed to link offered skill: %w", err)
		}
		if err := f.LinkSkill(user, seeking, models.UserSkillSeeking); err != nil {
			return nil, fmt.Errorf("failed to link sought skill: %w", err)
		}
		res.Users = append(res.Users, *user)
	}
	log.Info("Users created", slog.Int("count", len(res.Users)))

	if len(res.Users) >= 2 {
		base := time.Now().UTC().Add(-time.Duration(opts.NumSwaps) * time.Minute)
		for i := 0; i < opts.NumSwaps; i++ {
			proposer := &res.Users[f.pick(len(res.Users))]
			receiver := &res.Users[f.pick(len(res.Users))]
			for receiver.ID == proposer.ID {
				receiver = &res.Users[f.pick(len(res.Users))]
			}
			offered := &res.Skills[f.pick(len(res.Skills))]
			requested := &res.Skills[f.pick(len(res.Skills))]

			ts := base.Add(time.Duration(i) * time.Minute)
			status := swapStatuses[f.pick(len(swapStatuses))]
			swap, err := f.CreateSwap(proposer, receiver, offered, requested, func(s *models.Swap) {
				s.Timestamp = ts
				s.Status = status
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create swap: %w", err)
			}
			res.Swaps = append(res.Swaps, *swap)
		}
	}
	log.Info("Swaps created", slog.Int("count", len(res.Swaps)))

	log.Info("Database seeding completed")
	return res, nil
}

// ClearAll removes every row from the application tables, children first.
func ClearAll(db *gorm.DB) error {
	middleware.Logger.Info("Clearing existing data")
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"swaps", "user_skills_offered", "user_skills_seeking", "users", "skills"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
