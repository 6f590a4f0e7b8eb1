// Package service contains the business rules applied between the HTTP
// boundary and the repositories.
package service

import (
	"context"

	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// profileUpdateFields is the allow-list for profile updates. Any other key in
// the update payload fails validation.
var profileUpdateFields = map[string]struct{}{
	"name":      {},
	"mobile_no": {},
	"email":     {},
	"password":  {},
}

// UserService implements account lifecycle and the follow/unfollow rules.
type UserService struct {
	userRepo repository.UserRepository
}

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	Name     string
	MobileNo string
	Email    string
	Password string
}

// FollowResult echoes both mutated aggregates after a follow or unfollow.
type FollowResult struct {
	Target *models.User
	Actor  *models.User
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Signup hashes the credential and creates the account. The plaintext
// password is never stored.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Name == "" || in.MobileNo == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Name, mobile number, email, and password are required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateMobileNo(in.MobileNo); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		MobileNo: in.MobileNo,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login resolves the account by email and checks the credential. Both an
// unknown email and a wrong password yield the same unauthorized error.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Invalid login credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid login credentials")
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update restricted to the allow-list
// (name, mobile_no, email, password). A password update is re-hashed.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, updates map[string]any) (*models.User, error) {
	for field := range updates {
		if _, ok := profileUpdateFields[field]; !ok {
			return nil, models.NewValidationError("Invalid updates")
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v, ok := stringField(updates, "name"); ok {
		user.Name = v
	}
	if v, ok := stringField(updates, "mobile_no"); ok {
		if err := validation.ValidateMobileNo(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.MobileNo = v
	}
	if v, ok := stringField(updates, "email"); ok {
		if err := validation.ValidateEmail(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = v
	}
	if v, ok := stringField(updates, "password"); ok {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, models.NewInternalError(hashErr)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func stringField(updates map[string]any, field string) (string, bool) {
	raw, ok := updates[field]
	if !ok {
		return "", false
	}
	v, ok := raw.(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Delete removes the account. Authored discussions and comments are left in
// place; the absence of a cascade is inherited behavior.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}

// Search returns users whose name contains the pattern, case-insensitively.
func (s *UserService) Search(ctx context.Context, namePattern string) ([]models.User, error) {
	return s.userRepo.Search(ctx, namePattern)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// Follow adds the actor to the target's followers and the target to the
// actor's following set. When the actor already follows, neither aggregate is
// written. The two saves are independent writes, not a transaction: a failure
// between them leaves the sets diverged.
func (s *UserService) Follow(ctx context.Context, actorID, targetID uint) (*FollowResult, error) {
	if actorID == targetID {
		return nil, models.NewValidationError("Users cannot follow themselves")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if target.Follow(actor) {
		if err := s.userRepo.Save(ctx, target); err != nil {
			return nil, err
		}
		if err := s.userRepo.Save(ctx, actor); err != nil {
			return nil, err
		}
	}
	return &FollowResult{Target: target, Actor: actor}, nil
}

// Unfollow removes the relation from both sides unconditionally. Same
// dual-write caveat as Follow.
func (s *UserService) Unfollow(ctx context.Context, actorID, targetID uint) (*FollowResult, error) {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	target.Unfollow(actor)
	if err := s.userRepo.Save(ctx, target); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, actor); err != nil {
		return nil, err
	}
	return &FollowResult{Target: target, Actor: actor}, nil
}
