// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a user account with its follower/following relations.
// Followers and Following are maintained as embedded id sets on the row; a
// follow touches both the actor's and the target's aggregates.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	MobileNo  string    `gorm:"unique;not null" json:"mobile_no"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Followers IDSet     `gorm:"type:text" json:"followers"`
	Following IDSet     `gorm:"type:text" json:"following"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Follow records that actor follows this user. Gated on follower membership:
// when the actor already follows, neither side is touched. A user never
// follows itself.
func (u *User) Follow(actor *User) bool {
	if u.ID == actor.ID {
		return false
	}
	if u.Followers.Contains(actor.ID) {
		return false
	}
	u.Followers.Add(actor.ID)
	actor.Following.Add(u.ID)
	return true
}

// Unfollow removes actor from this user's followers and this user from the
// actor's following set. Removal of an absent member is a no-op.
func (u *User) Unfollow(actor *User) {
	u.Followers.Remove(actor.ID)
	actor.Following.Remove(u.ID)
}
