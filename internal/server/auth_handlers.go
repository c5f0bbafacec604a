package server

import (
	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// Login handles POST /api/users/login
// @Summary User login
// @Description Verify a username and password and return a signed token. No route requires the token yet.
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bindBody(c, &req, "Missing username or password"); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := s.authService.Login(ctx, *req.Username, *req.Password)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}
