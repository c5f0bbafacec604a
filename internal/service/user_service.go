package service

import (
	"context"

	"skillswap/internal/cache"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"

	"gorm.io/gorm"
)

// UserService provides registration, lookup and skill-association logic.
type UserService struct {
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
	tx        TxFunc
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, skillRepo repository.SkillRepository, tx TxFunc) *UserService {
	return &UserService{
		userRepo:  userRepo,
		skillRepo: skillRepo,
		tx:        tx,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Location string
}

// Register creates a user with a bcrypt-hashed password.
// The username is checked before the email; hashing happens only once both are free.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Register")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Location: in.Location,
	}
	err = s.tx(ctx, func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		existing, err := users.GetByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Username already exists")
		}

		existing, err = users.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Email address already in use")
		}

		if err := user.SetPassword(in.Password); err != nil {
			return models.NewInternalError(err)
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	observability.UsersRegistered.Inc()
	return user, nil
}

// GetUser returns one user with both skill lists.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// AddSkill links a skill to a user as offered or sought and returns the updated user.
func (s *UserService) AddSkill(ctx context.Context, userID, skillID uint, kind models.UserSkillKind) (*models.User, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("Invalid skill list")
	}

	ctx, span := observability.StartServiceSpan(ctx, "UserService", "AddSkill")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	err = s.tx(ctx, func(tx *gorm.DB) error {
		ok, err := s.userRepo.WithTx(tx).Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewRecordNotFoundError("User", userID)
		}

		ok, err = s.skillRepo.WithTx(tx).Exists(ctx, skillID)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewRecordNotFoundError("Skill", skillID)
		}

		return s.userRepo.WithTx(tx).AddSkill(ctx, userID, skillID, kind)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, userID)

	var user *models.User
	user, err = s.userRepo.GetByID(ctx, userID)
	return user, err
}
