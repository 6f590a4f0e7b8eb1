package server

import (
	"strings"

	"parley/internal/models"

	"github.com/gofiber/fiber/v2"
)

// commentParam extracts the comment id route parameter. Comment ids are
// opaque strings, not integers.
func commentParam(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("commentId"))
	if id == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
		return "", errResponseWritten
	}
	return id, nil
}

// CreateComment handles POST /api/discussions/:id/comment. The whole parent
// discussion is echoed back so the client can re-render the thread.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	discussion, err := s.discussionService.AddComment(c.UserContext(), id, currentUserID(c), req.Text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(discussion)
}

// UpdateComment handles PATCH /api/discussions/:id/comment/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := commentParam(c)
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.discussionService.EditComment(c.UserContext(), id, commentID, req.Text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/discussions/:id/comment/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := commentParam(c)
	if err != nil {
		return nil
	}

	if err := s.discussionService.DeleteComment(c.UserContext(), id, commentID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// LikeComment handles POST /api/discussions/:id/comment/:commentId/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := commentParam(c)
	if err != nil {
		return nil
	}

	comment, err := s.discussionService.LikeComment(c.UserContext(), id, commentID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}

// UnlikeComment handles POST /api/discussions/:id/comment/:commentId/unlike
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := commentParam(c)
	if err != nil {
		return nil
	}

	comment, err := s.discussionService.UnlikeComment(c.UserContext(), id, commentID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}
