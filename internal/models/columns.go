// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDSet is an ordered set of user IDs stored as a JSON array in a text column.
// It mirrors the embedded id-array shape of the aggregates: membership is
// checked before append, removal filters unconditionally.
type IDSet []uint

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id uint) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}
	return false
}

// Add appends id if absent and reports whether the set changed.
func (s *IDSet) Add(id uint) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove filters id out. Removing an absent member is a no-op.
func (s *IDSet) Remove(id uint) bool {
	for i, member := range *s {
		if member == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Value implements driver.Valuer, serializing the set as JSON text.
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		s = IDSet{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *IDSet) Scan(value any) error {
	return scanJSON(value, s)
}

// StringList is an ordered list of strings stored as a JSON array in a text
// column. Used for discussion hashtags.
type StringList []string

// Contains reports whether v is present.
func (l StringList) Contains(v string) bool {
	for _, member := range l {
		if member == v {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l)
}

// CommentList is the ordered sequence of comments embedded in a discussion,
// stored as a JSON array in a text column. Comments have no table of their
// own; they live and die with the parent row.
type CommentList []Comment

// Value implements driver.Valuer.
func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		l = CommentList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *CommentList) Scan(value any) error {
	return scanJSON(value, l)
}

func scanJSON(value any, dest any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}
