package repository

import (
	"context"
	"testing"

	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDiscussion(t *testing.T, repo DiscussionRepository, ownerID uint, text string, tags ...string) *models.Discussion {
	t.Helper()
	d := &models.Discussion{
		Text:     text,
		UserID:   ownerID,
		Hashtags: models.StringList(tags),
	}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func TestDiscussionRepository_OwnedLookups(t *testing.T) {
	t.Parallel()

	repo := NewDiscussionRepository(newTestDB(t))
	ctx := context.Background()

	d := seedDiscussion(t, repo, 1, "hello")

	t.Run("owner finds it", func(t *testing.T) {
		got, err := repo.GetOwned(ctx, d.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Text)
	})

	t.Run("non-owner gets not found", func(t *testing.T) {
		_, err := repo.GetOwned(ctx, d.ID, 2)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err),
			"existence of another user's discussion must not leak")
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := repo.DeleteOwned(ctx, d.ID, 2)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

		_, err = repo.GetByID(ctx, d.ID)
		assert.NoError(t, err, "failed delete must leave the row in place")
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteOwned(ctx, d.ID, 1))
		_, err := repo.GetByID(ctx, d.ID)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})
}

func TestDiscussionRepository_SaveRoundTripsEmbeddedComments(t *testing.T) {
	t.Parallel()

	repo := NewDiscussionRepository(newTestDB(t))
	ctx := context.Background()

	d := seedDiscussion(t, repo, 1, "hello", "go")
	d.AddComment(2, "nice")
	d.AddComment(3, "nicer")
	d.Like(2)
	d.IncrementViews()
	require.NoError(t, repo.Save(ctx, d))

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "nice", got.Comments[0].Text)
	assert.Equal(t, "nicer", got.Comments[1].Text)
	assert.Equal(t, d.Comments[0].ID, got.Comments[0].ID)
	assert.Equal(t, models.IDSet{2}, got.Likes)
	assert.Equal(t, uint(1), got.Views)
	assert.Equal(t, models.StringList{"go"}, got.Hashtags)
}

func TestDiscussionRepository_FindByHashtags(t *testing.T) {
	t.Parallel()

	repo := NewDiscussionRepository(newTestDB(t))
	ctx := context.Background()

	seedDiscussion(t, repo, 1, "about go", "go", "backend")
	seedDiscussion(t, repo, 1, "about rust", "rust")
	seedDiscussion(t, repo, 1, "untagged")

	t.Run("single tag", func(t *testing.T) {
		found, err := repo.FindByHashtags(ctx, []string{"go"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "about go", found[0].Text)
	})

	t.Run("or intersection", func(t *testing.T) {
		found, err := repo.FindByHashtags(ctx, []string{"go", "rust"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("unknown tag", func(t *testing.T) {
		found, err := repo.FindByHashtags(ctx, []string{"java"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("no tags", func(t *testing.T) {
		found, err := repo.FindByHashtags(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestDiscussionRepository_FindByHashtags_LiteralMetacharacters(t *testing.T) {
	t.Parallel()

	repo := NewDiscussionRepository(newTestDB(t))
	ctx := context.Background()

	seedDiscussion(t, repo, 1, "full marks", "100%")
	seedDiscussion(t, repo, 1, "near miss", "100x")
	seedDiscussion(t, repo, 1, "snaky", "big_deal")
	seedDiscussion(t, repo, 1, "dashing", "bigXdeal")

	t.Run("percent matches only itself", func(t *testing.T) {
		found, err := repo.FindByHashtags(ctx, []string{"100%"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "full marks", found[0].Text)
	})

	t.Run("underscore matches only itself", func(t *testing.T) {
		found, err := repo.FindByHashtags(ctx, []string{"big_deal"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "snaky", found[0].Text)
	})
}

func TestDiscussionRepository_FindByText(t *testing.T) {
	t.Parallel()

	repo := NewDiscussionRepository(newTestDB(t))
	ctx := context.Background()

	seedDiscussion(t, repo, 1, "Deploying Go services")
	seedDiscussion(t, repo, 1, "Cooking at home")

	found, err := repo.FindByText(ctx, "go serv")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Deploying Go services", found[0].Text)

	found, err = repo.FindByText(ctx, "nothing here")
	require.NoError(t, err)
	assert.Empty(t, found)
}
