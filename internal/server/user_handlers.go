package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the body of POST /api/users/register.
// Pointer fields distinguish a missing key from an empty value.
type RegisterRequest struct {
	Username *string `json:"username" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
	Location *string `json:"location"`
}

// SkillLinkRequest is the body of the skill association endpoints.
type SkillLinkRequest struct {
	SkillID *int64 `json:"skill_id" validate:"required"`
}

// Register handles POST /api/users/register
// @Summary Register a user
// @Description Create a user account. The password is stored as a bcrypt hash and never returned.
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bindBody(c, &req, "Missing data for registration"); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.userService.Register(ctx, service.RegisterInput{
		Username: *req.Username,
		Email:    *req.Email,
		Password: *req.Password,
		Location: deref(req.Location),
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.userService.GetUser(ctx, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description Returns every user with both skill lists. Not paginated.
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(users)
}

// AddOfferedSkill handles POST /api/users/:id/skills/offered
// @Summary Add an offered skill
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body SkillLinkRequest true "Skill to link"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/skills/offered [post]
func (s *Server) AddOfferedSkill(c *fiber.Ctx) error {
	return s.addSkill(c, models.UserSkillOffered)
}

// AddSeekingSkill handles POST /api/users/:id/skills/seeking
// @Summary Add a sought skill
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body SkillLinkRequest true "Skill to link"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/skills/seeking [post]
func (s *Server) AddSeekingSkill(c *fiber.Ctx) error {
	return s.addSkill(c, models.UserSkillSeeking)
}

func (s *Server) addSkill(c *fiber.Ctx, kind models.UserSkillKind) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req SkillLinkRequest
	if err := bindBody(c, &req, "Missing skill_id"); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.userService.AddSkill(ctx, userID, recordID(*req.SkillID), kind)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// ListUserSwaps handles GET /api/users/:id/swaps
// @Summary List a user's swaps
// @Description Swaps the user proposed or received, newest first.
// @Tags swaps
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Swap
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/swaps [get]
func (s *Server) ListUserSwaps(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	swaps, err := s.swapService.ListUserSwaps(ctx, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(swaps)
}
