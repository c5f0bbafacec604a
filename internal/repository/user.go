package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	AddSkill(ctx context.Context, userID, skillID uint, kind models.UserSkillKind) error
	ListOfferingSkill(ctx context.Context, skillID uint) ([]models.User, error)
	ListSeekingSkill(ctx context.Context, skillID uint) ([]models.User, error)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db       *gorm.DB
	useCache bool
	log      *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
// Single-user reads go through the Redis cache when one is configured.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, useCache: true, log: observability.NewRepoLogger("users", middleware.Logger)}
}

// WithTx binds the repository to tx. Bound repositories bypass the cache.
func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx, log: r.log}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if !r.useCache {
		return r.load(ctx, id)
	}

	var user models.User
	err := cache.Aside(ctx, cache.KeyspaceUser, cache.UserKey(id), &user, cache.UserTTL, func() error {
		loaded, err := r.load(ctx, id)
		if err != nil {
			return err
		}
		user = *loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) load(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Scopes(withUserSkills("")).First(&user, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			if violatedColumn(err, "email") {
				return &models.AppError{Code: models.CodeConflict, Message: "Email address already in use", Err: err}
			}
			return &models.AppError{Code: models.CodeConflict, Message: "Username already exists", Err: err}
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"user_id": user.ID, "username": user.Username})
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer observability.TrackQuery("list", "users")()

	var users []models.User
	if err := r.db.WithContext(ctx).Scopes(withUserSkills("")).Order("users.id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// AddSkill links a skill to a user. Adding an existing link is a no-op.
func (r *userRepository) AddSkill(ctx context.Context, userID, skillID uint, kind models.UserSkillKind) error {
	defer observability.TrackQuery("insert", kind.JoinTable())()

	row := map[string]interface{}{"user_id": userID, "skill_id": skillID}
	if err := r.db.WithContext(ctx).
		Table(kind.JoinTable()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error; err != nil {
		r.log.LogError(ctx, err, "add_skill")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"user_id": userID, "skill_id": skillID, "kind": string(kind)})
	return nil
}

// ListOfferingSkill returns the users offering skillID, ordered by user id.
func (r *userRepository) ListOfferingSkill(ctx context.Context, skillID uint) ([]models.User, error) {
	return r.listBySkill(ctx, skillID, models.UserSkillOffered)
}

// ListSeekingSkill returns the users seeking skillID, ordered by user id.
func (r *userRepository) ListSeekingSkill(ctx context.Context, skillID uint) ([]models.User, error) {
	return r.listBySkill(ctx, skillID, models.UserSkillSeeking)
}

func (r *userRepository) listBySkill(ctx context.Context, skillID uint, kind models.UserSkillKind) ([]models.User, error) {
	defer observability.TrackQuery("list", kind.JoinTable())()

	join := kind.JoinTable()
	var users []models.User
	if err := r.db.WithContext(ctx).
		Scopes(withUserSkills("")).
		Joins("JOIN "+join+" ON "+join+".user_id = users.id").
		Where(join+".skill_id = ?", skillID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
