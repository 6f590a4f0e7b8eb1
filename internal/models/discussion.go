package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a record embedded in a discussion. It has no independent storage
// identity; it is addressed by the (discussion id, comment id) pair and is
// persisted only as part of a full re-save of its parent.
//
// Replies holds user ids, not nested comments. That shape is preserved from
// the original data model; no threading logic is built on top of it.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UserID    uint      `json:"user_id"`
	Likes     IDSet     `json:"likes"`
	Replies   IDSet     `json:"replies"`
	CreatedOn time.Time `json:"created_on"`
}

// Discussion is the aggregate for a discussion post: body text, optional
// image path, hashtags, the embedded ordered comment sequence, the liker id
// set, and a view counter. Every mutation re-saves the whole row.
type Discussion struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Text      string      `gorm:"type:text;not null" json:"text"`
	Image     string      `json:"image,omitempty"`
	Hashtags  StringList  `gorm:"type:text" json:"hashtags"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	Comments  CommentList `gorm:"type:text" json:"comments"`
	Likes     IDSet       `gorm:"type:text" json:"likes"`
	Views     uint        `gorm:"not null;default:0" json:"views"`
	CreatedOn time.Time   `gorm:"autoCreateTime" json:"created_on"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Like adds userID to the liker set. Already-liked is a no-op, never an
// error, so retried or duplicate requests cannot grow the set.
func (d *Discussion) Like(userID uint) bool {
	return d.Likes.Add(userID)
}

// Unlike filters userID out of the liker set unconditionally.
func (d *Discussion) Unlike(userID uint) bool {
	return d.Likes.Remove(userID)
}

// AddComment appends a new comment with a freshly generated id, empty like
// set and the current timestamp. Existing comment order is preserved.
func (d *Discussion) AddComment(userID uint, text string) *Comment {
	comment := Comment{
		ID:        uuid.NewString(),
		Text:      text,
		UserID:    userID,
		Likes:     IDSet{},
		Replies:   IDSet{},
		CreatedOn: time.Now().UTC(),
	}
	d.Comments = append(d.Comments, comment)
	return &d.Comments[len(d.Comments)-1]
}

// FindComment locates an embedded comment by id. Returns nil when absent.
func (d *Discussion) FindComment(commentID string) *Comment {
	for i := range d.Comments {
		if d.Comments[i].ID == commentID {
			return &d.Comments[i]
		}
	}
	return nil
}

// LikeComment adds userID to the comment's liker set, gated on membership.
// Returns false when the comment does not exist.
func (d *Discussion) LikeComment(commentID string, userID uint) (*Comment, bool) {
	comment := d.FindComment(commentID)
	if comment == nil {
		return nil, false
	}
	comment.Likes.Add(userID)
	return comment, true
}

// UnlikeComment removes userID from the comment's liker set unconditionally.
// Returns false when the comment does not exist.
func (d *Discussion) UnlikeComment(commentID string, userID uint) (*Comment, bool) {
	comment := d.FindComment(commentID)
	if comment == nil {
		return nil, false
	}
	comment.Likes.Remove(userID)
	return comment, true
}

// EditComment replaces the comment's text only. Returns false when absent.
func (d *Discussion) EditComment(commentID, text string) (*Comment, bool) {
	comment := d.FindComment(commentID)
	if comment == nil {
		return nil, false
	}
	comment.Text = text
	return comment, true
}

// DeleteComment removes the comment from the ordered sequence, preserving
// the order of the remaining comments. Returns false when absent.
func (d *Discussion) DeleteComment(commentID string) bool {
	for i := range d.Comments {
		if d.Comments[i].ID == commentID {
			d.Comments = append(d.Comments[:i], d.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// IncrementViews bumps the view counter. There is no idempotency guard: the
// same viewer can increment without bound.
func (d *Discussion) IncrementViews() {
	d.Views++
}
