package service

import (
	"context"
	"testing"

	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	saveFn       func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
	searchFn     func(context.Context, string) ([]models.User, error)
	listFn       func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Save(ctx context.Context, user *models.User) error {
	return s.saveFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, pattern string) ([]models.User, error) {
	return s.searchFn(ctx, pattern)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		saveFn:       func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		searchFn:     func(_ context.Context, _ string) ([]models.User, error) { return nil, nil },
		listFn:       func(_ context.Context) ([]models.User, error) { return nil, nil },
	}
}

// memoryUserRepo keeps user aggregates in a map so dual-write behavior can be
// observed across calls.
type memoryUserRepo struct {
	users map[uint]*models.User
	saves int
}

func newMemoryUserRepo(users ...*models.User) *memoryUserRepo {
	m := &memoryUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}
func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	copied := *u
	return &copied, nil
}
func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}
func (m *memoryUserRepo) Save(_ context.Context, user *models.User) error {
	copied := *user
	m.users[user.ID] = &copied
	m.saves++
	return nil
}
func (m *memoryUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}
func (m *memoryUserRepo) Search(_ context.Context, _ string) ([]models.User, error) { return nil, nil }
func (m *memoryUserRepo) List(_ context.Context) ([]models.User, error)             { return nil, nil }

func TestUserService_Signup(t *testing.T) {
	t.Parallel()

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.Signup(context.Background(), SignupInput{Name: "Ann", Email: "a@x.com"})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		t.Parallel()
		var created *models.User
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, u *models.User) error {
			created = u
			return nil
		}
		svc := NewUserService(repo)

		user, err := svc.Signup(context.Background(), SignupInput{
			Name: "Ann", MobileNo: "9876543210", Email: "a@x.com", Password: "opensesame",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, "opensesame", created.Password, "plaintext must never be stored")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("opensesame")))
	})

	t.Run("conflict propagates", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) error {
			return models.NewConflictError("Mobile number or email already registered")
		}
		svc := NewUserService(repo)
		_, err := svc.Signup(context.Background(), SignupInput{
			Name: "Ann", MobileNo: "9876543210", Email: "a@x.com", Password: "opensesame",
		})
		assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	})
}

func TestUserService_SignupThenLogin(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", MobileNo: "9876543210", Email: "a@x.com", Password: "opensesame"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, "a@x.com", "opensesame")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	_, err = svc.Login(ctx, "nobody@x.com", "opensesame")
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err),
		"unknown email and wrong password must be indistinguishable")
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("disallowed field rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), 1, map[string]any{"followers": []uint{99}})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("allowed fields applied and password rehashed", func(t *testing.T) {
		t.Parallel()
		repo := newMemoryUserRepo(&models.User{ID: 1, Name: "Ann", MobileNo: "1", Email: "a@x.com", Password: "old-hash"})
		svc := NewUserService(repo)

		updated, err := svc.UpdateProfile(context.Background(), 1, map[string]any{
			"name":     "Anna",
			"password": "newpassword",
		})
		require.NoError(t, err)
		assert.Equal(t, "Anna", updated.Name)
		assert.Equal(t, "a@x.com", updated.Email)
		assert.NotEqual(t, "newpassword", updated.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword")))
	})
}

func TestUserService_Follow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("follow then repeat is idempotent", func(t *testing.T) {
		t.Parallel()
		repo := newMemoryUserRepo(&models.User{ID: 1}, &models.User{ID: 2})
		svc := NewUserService(repo)

		res, err := svc.Follow(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.IDSet{1}, res.Target.Followers)
		assert.Equal(t, models.IDSet{2}, res.Actor.Following)
		assert.Equal(t, 2, repo.saves, "both sides persisted")

		res, err = svc.Follow(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.IDSet{1}, res.Target.Followers)
		assert.Equal(t, models.IDSet{2}, res.Actor.Following)
		assert.Equal(t, 2, repo.saves, "repeat follow performs no writes")
	})

	t.Run("unfollow restores pre-follow state", func(t *testing.T) {
		t.Parallel()
		repo := newMemoryUserRepo(&models.User{ID: 1}, &models.User{ID: 2})
		svc := NewUserService(repo)

		_, err := svc.Follow(ctx, 1, 2)
		require.NoError(t, err)
		res, err := svc.Unfollow(ctx, 1, 2)
		require.NoError(t, err)
		assert.Empty(t, res.Target.Followers)
		assert.Empty(t, res.Actor.Following)

		target, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, target.Followers, "persisted state matches")
	})

	t.Run("self follow rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(newMemoryUserRepo(&models.User{ID: 1}))
		_, err := svc.Follow(ctx, 1, 1)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(newMemoryUserRepo(&models.User{ID: 1}))
		_, err := svc.Follow(ctx, 1, 42)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})
}
