package server

import (
	"github.com/gofiber/fiber/v2"
)

// CreateSkillRequest is the body of POST /api/skills.
type CreateSkillRequest struct {
	Name     *string `json:"name" validate:"required"`
	Category *string `json:"category" validate:"required"`
}

// CreateSkill handles POST /api/skills
// @Summary Create a skill
// @Tags skills
// @Accept json
// @Produce json
// @Param request body CreateSkillRequest true "Skill"
// @Success 201 {object} models.Skill
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /skills [post]
func (s *Server) CreateSkill(c *fiber.Ctx) error {
	var req CreateSkillRequest
	if err := bindBody(c, &req, "Missing skill name or category"); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	skill, err := s.skillService.CreateSkill(ctx, *req.Name, *req.Category)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// ListSkills handles GET /api/skills
// @Summary List skills
// @Tags skills
// @Produce json
// @Success 200 {array} models.Skill
// @Router /skills [get]
func (s *Server) ListSkills(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	skills, err := s.skillService.ListSkills(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skills)
}

// GetSkillHolders handles GET /api/skills/:id/users
// @Summary Users offering and seeking a skill
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} service.SkillHolders
// @Failure 404 {object} models.ErrorResponse
// @Router /skills/{id}/users [get]
func (s *Server) GetSkillHolders(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	holders, err := s.skillService.GetSkillHolders(ctx, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(holders)
}
