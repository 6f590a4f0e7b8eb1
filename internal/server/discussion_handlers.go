package server

import (
	"io"
	"log/slog"
	"strings"

	"parley/internal/models"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDiscussion handles POST /api/discussions. The body is multipart so
// an image can ride along with the text: fields "text", "hashtags"
// (comma-separated), and an optional "image" file.
func (s *Server) CreateDiscussion(c *fiber.Ctx) error {
	text := c.FormValue("text")
	hashtags := parseHashtags(c.FormValue("hashtags"))

	image, err := s.saveUploadedImage(c)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	discussion, err := s.discussionService.Create(c.UserContext(), service.CreateDiscussionInput{
		UserID:   currentUserID(c),
		Text:     text,
		Image:    image,
		Hashtags: hashtags,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(discussion)
}

// UpdateDiscussion handles PATCH /api/discussions/:id. Only fields present
// in the multipart form are touched.
func (s *Server) UpdateDiscussion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateDiscussionInput{ID: id, UserID: currentUserID(c)}
	if vals, ok := form.Value["text"]; ok && len(vals) > 0 {
		in.Text = &vals[0]
	}
	if vals, ok := form.Value["hashtags"]; ok && len(vals) > 0 {
		tags := parseHashtags(vals[0])
		in.Hashtags = &tags
	}
	if _, uploadOk := form.File["image"]; uploadOk {
		image, saveErr := s.saveUploadedImage(c)
		if saveErr != nil {
			return models.RespondWithError(c, mapServiceError(saveErr), saveErr)
		}
		in.Image = &image
	}

	discussion, replaced, err := s.discussionService.Update(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	s.removeStoredImage(c, replaced)

	return c.JSON(discussion)
}

// DeleteDiscussion handles DELETE /api/discussions/:id
func (s *Server) DeleteDiscussion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	discussion, err := s.discussionService.Delete(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	s.removeStoredImage(c, discussion.Image)

	return c.JSON(fiber.Map{"message": "Discussion deleted"})
}

// GetDiscussionsByTags handles GET /api/discussions/by-tags?tags=a,b
func (s *Server) GetDiscussionsByTags(c *fiber.Ctx) error {
	tags := parseHashtags(c.Query("tags"))
	if len(tags) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tags query is required"))
	}

	discussions, err := s.discussionService.FindByTags(c.UserContext(), tags)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(discussions)
}

// GetDiscussionsByText handles GET /api/discussions/by-text?text=...
func (s *Server) GetDiscussionsByText(c *fiber.Ctx) error {
	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Text query is required"))
	}

	discussions, err := s.discussionService.FindByText(c.UserContext(), text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(discussions)
}

// LikeDiscussion handles POST /api/discussions/:id/like
func (s *Server) LikeDiscussion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	discussion, err := s.discussionService.Like(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(discussion)
}

// UnlikeDiscussion handles POST /api/discussions/:id/unlike
func (s *Server) UnlikeDiscussion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	discussion, err := s.discussionService.Unlike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(discussion)
}

// IncrementView handles POST /api/discussions/:id/view. No auth: every
// render counts a view.
func (s *Server) IncrementView(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	discussion, err := s.discussionService.IncrementView(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(discussion)
}

// removeStoredImage drops a no-longer-referenced upload. A failure is logged
// and swallowed: the aggregate write already succeeded, so the response must
// not turn into an error over a leftover file.
func (s *Server) removeStoredImage(c *fiber.Ctx, name string) {
	if name == "" || strings.Contains(name, "://") {
		return
	}
	if err := s.uploads.Remove(name); err != nil {
		slog.ErrorContext(c.UserContext(), "failed to remove stored image",
			"image", name,
			"error", err,
		)
	}
}

// saveUploadedImage stores the optional "image" form file and returns its
// stored name, or "" when no file was sent.
func (s *Server) saveUploadedImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}

	return s.uploads.Save(file.Filename, content)
}

// parseHashtags splits a comma-separated tag list, trimming whitespace and
// dropping empties.
func parseHashtags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
