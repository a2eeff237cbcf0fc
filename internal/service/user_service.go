package service

import (
	"context"
	"strings"

	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"
	"brrads/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile updates and admin user management.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type ListUsersInput struct {
	Actor  policy.Actor
	Search string
	Role   models.Role
	Limit  int
	Offset int
}

// UpdateProfileInput carries a user's own profile edits. Nil pointers mean
// "leave unchanged".
type UpdateProfileInput struct {
	Actor    policy.Actor
	UserID   uint
	Email    *string
	FullName *string
	Password *string
}

// ListUsers returns the admin user listing with search and role filters.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	if err := policy.Authorize(input.Actor, policy.ActionReadAdminListings, policy.Resource{}).Err(); err != nil {
		return nil, 0, err
	}
	if input.Role != "" && !models.ValidRole(input.Role) {
		return nil, 0, models.NewValidationError("Invalid role filter")
	}
	return s.userRepo.List(ctx, input.Search, input.Role, input.Limit, input.Offset)
}

// GetUser fetches a user the actor is allowed to see.
func (s *UserService) GetUser(ctx context.Context, actor policy.Actor, id uint) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionReadUser, policy.Resource{TargetUserID: id}).Err(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

// UpdateProfile lets a user change their own email, name, or password.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.User, error) {
	if err := policy.Authorize(input.Actor, policy.ActionUpdateProfile, policy.Resource{TargetUserID: input.UserID}).Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", input.UserID)
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			if err := validation.ValidateEmail(email); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			if existing != nil && existing.ID != user.ID {
				return nil, models.NewConflictError("Email is already registered")
			}
		}
		user.Email = email
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Password != nil {
		if err := validation.ValidatePassword(*input.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// ChangeRole sets another user's role. Admins cannot change their own.
func (s *UserService) ChangeRole(ctx context.Context, actor policy.Actor, userID uint, role models.Role) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionChangeUserRole, policy.Resource{TargetUserID: userID}).Err(); err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("Invalid role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", userID)
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// SetActive enables or disables another user's account. Admins cannot change
// their own active flag.
func (s *UserService) SetActive(ctx context.Context, actor policy.Actor, userID uint, active bool) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionToggleUserActive, policy.Resource{TargetUserID: userID}).Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", userID)
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// DeleteUser removes an account and, via the schema's cascades, all of its
// submissions. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor policy.Actor, userID uint) error {
	if err := policy.Authorize(actor, policy.ActionDeleteUser, policy.Resource{TargetUserID: userID}).Err(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if user == nil {
		return models.NewNotFoundError("User", userID)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
