package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProposeSwapRequest is the body of POST /api/swaps/propose.
type ProposeSwapRequest struct {
	ProposerID       *int64  `json:"proposer_id" validate:"required"`
	ReceiverID       *int64  `json:"receiver_id" validate:"required"`
	OfferedSkillID   *int64  `json:"offered_skill_id" validate:"required"`
	RequestedSkillID *int64  `json:"requested_skill_id" validate:"required"`
	Message          *string `json:"message"`
}

// RespondSwapRequest is the body of POST /api/swaps/:id/respond.
type RespondSwapRequest struct {
	Status *string `json:"status" validate:"required"`
}

// ProposeSwap handles POST /api/swaps/propose
// @Summary Propose a swap
// @Description Both users are checked before both skills. The new swap is pending.
// @Tags swaps
// @Accept json
// @Produce json
// @Param request body ProposeSwapRequest true "Proposal"
// @Success 201 {object} models.Swap
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /swaps/propose [post]
func (s *Server) ProposeSwap(c *fiber.Ctx) error {
	var req ProposeSwapRequest
	if err := bindBody(c, &req, "Missing data for swap proposal"); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	swap, err := s.swapService.Propose(ctx, service.ProposeInput{
		ProposerID:       recordID(*req.ProposerID),
		ReceiverID:       recordID(*req.ReceiverID),
		OfferedSkillID:   recordID(*req.OfferedSkillID),
		RequestedSkillID: recordID(*req.RequestedSkillID),
		Message:          deref(req.Message),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(swap)
}

// GetSwap handles GET /api/swaps/:id
// @Summary Get a swap
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} models.Swap
// @Failure 404 {object} models.ErrorResponse
// @Router /swaps/{id} [get]
func (s *Server) GetSwap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	swap, err := s.swapService.GetSwap(ctx, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(swap)
}

// RespondToSwap handles POST /api/swaps/:id/respond
// @Summary Accept or reject a swap
// @Description Overwrites the status. Neither the caller nor the current status is checked.
// @Tags swaps
// @Accept json
// @Produce json
// @Param id path int true "Swap ID"
// @Param request body RespondSwapRequest true "accepted or rejected"
// @Success 200 {object} models.Swap
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /swaps/{id}/respond [post]
func (s *Server) RespondToSwap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	// A missing swap is reported before the body is looked at.
	if _, err := s.swapService.GetSwap(ctx, id); err != nil {
		return s.respondError(c, err)
	}

	var req RespondSwapRequest
	if err := bindBody(c, &req, "Missing status in request body"); err != nil {
		return nil
	}

	answer, err := models.ParseResponseStatus(*req.Status)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status. Must be 'accepted' or 'rejected'"))
	}

	swap, err := s.swapService.Respond(ctx, id, answer)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(swap)
}
