package service

import (
	"context"
	"strings"

	"parley/internal/models"
	"parley/internal/repository"
)

const maxCommentLen = 10000

// DiscussionService implements discussion lifecycle, search, and the
// engagement rules (likes, comments, views). Every mutation loads one
// aggregate, applies one rule in memory, and re-persists the whole aggregate.
type DiscussionService struct {
	discussionRepo repository.DiscussionRepository
}

// CreateDiscussionInput carries the fields for a new discussion.
type CreateDiscussionInput struct {
	UserID   uint
	Text     string
	Image    string
	Hashtags []string
}

// UpdateDiscussionInput carries a partial update for an owned discussion.
// Nil fields are left untouched.
type UpdateDiscussionInput struct {
	ID       uint
	UserID   uint
	Text     *string
	Hashtags *[]string
	Image    *string
}

// NewDiscussionService creates a new DiscussionService.
func NewDiscussionService(discussionRepo repository.DiscussionRepository) *DiscussionService {
	return &DiscussionService{discussionRepo: discussionRepo}
}

// Create validates and persists a new discussion owned by the caller.
func (s *DiscussionService) Create(ctx context.Context, in CreateDiscussionInput) (*models.Discussion, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	discussion := &models.Discussion{
		Text:     in.Text,
		Image:    in.Image,
		Hashtags: models.StringList(in.Hashtags),
		UserID:   in.UserID,
	}
	if err := s.discussionRepo.Create(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

// Update applies a partial update to an owned discussion. Ownership is part
// of the lookup predicate: a non-owner gets NotFound, never a permission
// error. The second return value names the image the update displaced, if
// any, so the caller can release the stored file.
func (s *DiscussionService) Update(ctx context.Context, in UpdateDiscussionInput) (*models.Discussion, string, error) {
	discussion, err := s.discussionRepo.GetOwned(ctx, in.ID, in.UserID)
	if err != nil {
		return nil, "", err
	}

	if in.Text != nil {
		if strings.TrimSpace(*in.Text) == "" {
			return nil, "", models.NewValidationError("Text is required")
		}
		discussion.Text = *in.Text
	}
	if in.Hashtags != nil {
		discussion.Hashtags = models.StringList(*in.Hashtags)
	}
	var replaced string
	if in.Image != nil && discussion.Image != *in.Image {
		replaced = discussion.Image
		discussion.Image = *in.Image
	}

	if err := s.discussionRepo.Save(ctx, discussion); err != nil {
		return nil, "", err
	}
	return discussion, replaced, nil
}

// Delete removes an owned discussion and its embedded comments. Returns the
// removed aggregate so the caller can release its stored attachment.
func (s *DiscussionService) Delete(ctx context.Context, id, userID uint) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.discussionRepo.DeleteOwned(ctx, id, userID); err != nil {
		return nil, err
	}
	return discussion, nil
}

// FindByTags returns discussions whose hashtag set intersects tags.
func (s *DiscussionService) FindByTags(ctx context.Context, tags []string) ([]models.Discussion, error) {
	return s.discussionRepo.FindByHashtags(ctx, tags)
}

// FindByText returns discussions whose body contains the pattern.
func (s *DiscussionService) FindByText(ctx context.Context, pattern string) ([]models.Discussion, error) {
	return s.discussionRepo.FindByText(ctx, pattern)
}

// Like adds the user to the liker set. Already-liked skips the write
// entirely, so a retried request cannot touch the row twice.
func (s *DiscussionService) Like(ctx context.Context, id, userID uint) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discussion.Like(userID) {
		if err := s.discussionRepo.Save(ctx, discussion); err != nil {
			return nil, err
		}
	}
	return discussion, nil
}

// Unlike filters the user out of the liker set unconditionally.
func (s *DiscussionService) Unlike(ctx context.Context, id, userID uint) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	discussion.Unlike(userID)
	if err := s.discussionRepo.Save(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

// AddComment appends a new comment and re-saves the parent. Returns the
// mutated discussion, matching what the API echoes back.
func (s *DiscussionService) AddComment(ctx context.Context, id, userID uint, text string) (*models.Discussion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	discussion.AddComment(userID, text)
	if err := s.discussionRepo.Save(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

// EditComment replaces the text of an embedded comment.
func (s *DiscussionService) EditComment(ctx context.Context, id uint, commentID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment, ok := discussion.EditComment(commentID, text)
	if !ok {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if err := s.discussionRepo.Save(ctx, discussion); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes an embedded comment from the parent's sequence.
func (s *DiscussionService) DeleteComment(ctx context.Context, id uint, commentID string) error {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !discussion.DeleteComment(commentID) {
		return models.NewNotFoundError("Comment", commentID)
	}
	return s.discussionRepo.Save(ctx, discussion)
}

// LikeComment adds the user to an embedded comment's liker set, idempotently.
func (s *DiscussionService) LikeComment(ctx context.Context, id uint, commentID string, userID uint) (*models.Comment, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment := discussion.FindComment(commentID)
	if comment == nil {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if comment.Likes.Add(userID) {
		if err := s.discussionRepo.Save(ctx, discussion); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

// UnlikeComment removes the user from an embedded comment's liker set.
func (s *DiscussionService) UnlikeComment(ctx context.Context, id uint, commentID string, userID uint) (*models.Comment, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment := discussion.FindComment(commentID)
	if comment == nil {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	comment.Likes.Remove(userID)
	if err := s.discussionRepo.Save(ctx, discussion); err != nil {
		return nil, err
	}
	return comment, nil
}

// IncrementView bumps the view counter and re-saves. Publicly callable, no
// idempotency guard, no upper bound.
func (s *DiscussionService) IncrementView(ctx context.Context, id uint) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	discussion.IncrementViews()
	if err := s.discussionRepo.Save(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}
