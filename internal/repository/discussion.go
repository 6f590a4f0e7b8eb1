package repository

import (
	"context"
	"errors"
	"strings"

	"parley/internal/models"

	"gorm.io/gorm"
)

// DiscussionRepository defines persistence operations for discussion aggregates.
// Every mutation path goes through Save: load the row, mutate in memory,
// re-persist the whole aggregate.
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	GetByID(ctx context.Context, id uint) (*models.Discussion, error)
	GetOwned(ctx context.Context, id, ownerID uint) (*models.Discussion, error)
	Save(ctx context.Context, discussion *models.Discussion) error
	DeleteOwned(ctx context.Context, id, ownerID uint) error
	FindByHashtags(ctx context.Context, tags []string) ([]models.Discussion, error)
	FindByText(ctx context.Context, pattern string) ([]models.Discussion, error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository returns a new DiscussionRepository implementation.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	if discussion.Hashtags == nil {
		discussion.Hashtags = models.StringList{}
	}
	if discussion.Comments == nil {
		discussion.Comments = models.CommentList{}
	}
	if discussion.Likes == nil {
		discussion.Likes = models.IDSet{}
	}
	if err := r.db.WithContext(ctx).Create(discussion).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *discussionRepository) GetByID(ctx context.Context, id uint) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).First(&discussion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Discussion", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &discussion, nil
}

// GetOwned looks up a discussion with a combined id+owner filter. A non-owner
// gets the same NotFound as a missing id, so the lookup does not leak the
// existence of other users' discussions.
func (r *discussionRepository) GetOwned(ctx context.Context, id, ownerID uint) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&discussion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Discussion", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &discussion, nil
}

// Save persists the whole aggregate, embedded comments included, with a
// single keyed upsert. Last writer wins; there is no version check.
func (r *discussionRepository) Save(ctx context.Context, discussion *models.Discussion) error {
	if err := r.db.WithContext(ctx).Save(discussion).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteOwned removes the discussion using the same combined id+owner filter
// as GetOwned. Deleting the row drops its embedded comments with it.
func (r *discussionRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Discussion{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Discussion", id)
	}
	return nil
}

// FindByHashtags returns discussions whose hashtag set intersects tags
// (logical OR). The hashtag column holds a JSON array, so each tag is matched
// against its quoted serialized form.
func (r *discussionRepository) FindByHashtags(ctx context.Context, tags []string) ([]models.Discussion, error) {
	if len(tags) == 0 {
		return []models.Discussion{}, nil
	}

	query := r.db.WithContext(ctx)
	cond := r.db.Session(&gorm.Session{NewDB: true})
	for _, tag := range tags {
		cond = cond.Or("hashtags LIKE ? ESCAPE '\\'", `%"`+escapeLike(tag)+`"%`)
	}

	var discussions []models.Discussion
	if err := query.Where(cond).Order("created_on DESC").Find(&discussions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return discussions, nil
}

// escapeLike escapes LIKE metacharacters so a tag containing % or _ matches
// only its literal text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *discussionRepository) FindByText(ctx context.Context, pattern string) ([]models.Discussion, error) {
	var discussions []models.Discussion
	like := "%" + pattern + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(text) LIKE LOWER(?)", like).
		Order("created_on DESC").
		Find(&discussions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return discussions, nil
}
