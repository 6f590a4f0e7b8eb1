// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"parley/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumDiscussions int
	ShouldClean    bool
}

// SeedPassword is the shared plaintext credential for every seeded account.
const SeedPassword = "password123"

var hashtagPool = []string{
	"go", "backend", "frontend", "devops", "cloud", "databases",
	"music", "movies", "books", "travel", "food", "fitness",
	"gaming", "art", "science", "history", "startups", "ai",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d discussions...",
		opts.NumUsers, opts.NumDiscussions)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := wireFollows(db, users); err != nil {
		return fmt.Errorf("failed to wire follows: %w", err)
	}
	log.Println("✓ follow graph wired")

	discussions, err := createDiscussions(db, users, opts.NumDiscussions)
	if err != nil {
		return fmt.Errorf("failed to create discussions: %w", err)
	}
	log.Printf("✓ %d discussions created", len(discussions))

	if err := addEngagement(db, users, discussions); err != nil {
		return fmt.Errorf("failed to add engagement: %w", err)
	}
	log.Println("✓ likes, comments, and views added")

	log.Printf("🎉 Seeding complete. Log in as any seeded user with password %q", SeedPassword)
	return nil
}

func clearData(db *gorm.DB) error {
	if err := db.Exec("DELETE FROM discussions").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := &models.User{
			Name:      first + " " + last,
			MobileNo:  fmt.Sprintf("9%09d", gofakeit.Number(0, 999999999)),
			Email:     fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Password:  string(hashed),
			Followers: models.IDSet{},
			Following: models.IDSet{},
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// wireFollows makes each user follow a few random others, keeping both sides
// of the relationship in sync.
func wireFollows(db *gorm.DB, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, actor := range users {
		n := rand.Intn(4)
		for j := 0; j < n; j++ {
			target := users[rand.Intn(len(users))]
			if target.ID == actor.ID {
				continue
			}
			target.Follow(actor)
		}
	}
	for _, u := range users {
		if err := db.Save(u).Error; err != nil {
			return err
		}
	}
	return nil
}

func createDiscussions(db *gorm.DB, users []*models.User, n int) ([]*models.Discussion, error) {
	discussions := make([]*models.Discussion, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		tags := models.StringList{}
		for _, t := range pickTags(rand.Intn(4)) {
			tags = append(tags, t)
		}

		d := &models.Discussion{
			Text:     gofakeit.Paragraph(1, 3, 8, " "),
			Hashtags: tags,
			UserID:   author.ID,
			Comments: models.CommentList{},
			Likes:    models.IDSet{},
		}
		if rand.Intn(3) == 0 {
			d.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		}
		if err := db.Create(d).Error; err != nil {
			return nil, err
		}
		discussions = append(discussions, d)
	}
	return discussions, nil
}

// addEngagement sprinkles likes, comments, comment likes, and view counts
// over the seeded discussions.
func addEngagement(db *gorm.DB, users []*models.User, discussions []*models.Discussion) error {
	for _, d := range discussions {
		for i := 0; i < rand.Intn(6); i++ {
			d.Like(users[rand.Intn(len(users))].ID)
		}
		for i := 0; i < rand.Intn(4); i++ {
			commenter := users[rand.Intn(len(users))]
			comment := d.AddComment(commenter.ID, gofakeit.Sentence(8))
			for j := 0; j < rand.Intn(3); j++ {
				comment.Likes.Add(users[rand.Intn(len(users))].ID)
			}
		}
		for i := 0; i < rand.Intn(50); i++ {
			d.IncrementViews()
		}
		if err := db.Save(d).Error; err != nil {
			return err
		}
	}
	return nil
}

func pickTags(n int) []string {
	if n == 0 {
		return nil
	}
	perm := rand.Perm(len(hashtagPool))
	tags := make([]string, 0, n)
	for _, idx := range perm[:n] {
		tags = append(tags, hashtagPool[idx])
	}
	return tags
}
