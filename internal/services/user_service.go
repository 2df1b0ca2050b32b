package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"gorm.io/gorm"
)

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
	auditSvc *AuditService
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{userRepo: userRepo, auditSvc: auditSvc}
}

// CreateUserInput is the request payload for creating a user
type CreateUserInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" binding:"required"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role" binding:"omitempty,oneof=admin owner tenant"`
	Address  *string `json:"address"`
	Note     *string `json:"note"`
}

// CreateUser creates a user account. Only admins create admins or owners;
// owners may create tenant accounts for their renters.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input *CreateUserInput) (*models.User, error) {
	role := input.Role
	if role == "" {
		role = models.RoleTenant
	}

	if role != models.RoleTenant && !actor.IsAdmin() {
		return nil, forbiddenError("only admins can create %s accounts", role)
	}
	if !actor.IsAdmin() && !actor.IsOwner() {
		return nil, forbiddenError("only admins and owners can create accounts")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:             input.Email,
		EncryptedPassword: hash,
		FullName:          input.FullName,
		Phone:             input.Phone,
		Role:              role,
		Status:            models.StatusActive,
		Address:           input.Address,
		Note:              input.Note,
		CreatedBy:         &actor.ID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConflict, err.Error())
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "User", user.ID,
		fmt.Sprintf("Account created: %s (%s) role %s", user.FullName, user.Email, user.Role), "", "")

	return user, nil
}

// UpdateUserInput is the request payload for updating a user
type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	Address  *string `json:"address"`
	Note     *string `json:"note"`
}

// UpdateUser edits a user. Users can edit themselves; admins can edit
// anyone. Status changes are admin-only.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, userID uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user")
		}
		return nil, err
	}

	if !actor.IsAdmin() && actor.ID != user.ID {
		return nil, forbiddenError("you can only edit your own account")
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Status != nil {
		if !actor.IsAdmin() {
			return nil, forbiddenError("only admins can change account status")
		}
		user.Status = *input.Status
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.Note != nil {
		user.Note = input.Note
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "User", user.ID,
		fmt.Sprintf("Account updated: %s", user.Email), "", "")

	return user, nil
}

// GetUser loads a user by ID
func (s *UserService) GetUser(ctx context.Context, actor Actor, userID uint) (*models.User, error) {
	if !actor.IsAdmin() && !actor.IsOwner() && actor.ID != userID {
		return nil, forbiddenError("you do not have access to this user")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user")
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists users. Admin only; the handler enforces the role.
func (s *UserService) ListUsers(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, query)
}

// DeleteUser soft-deletes a user account
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, userID uint) error {
	if !actor.IsAdmin() {
		return forbiddenError("only admins can delete accounts")
	}
	if actor.ID == userID {
		return validationError("you cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("user")
		}
		return err
	}

	if err := s.userRepo.SoftDelete(ctx, userID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "User", userID, "Account soft-deleted", "", "")
	return nil
}

// RestoreUser brings back a soft-deleted account
func (s *UserService) RestoreUser(ctx context.Context, actor Actor, userID uint) error {
	if !actor.IsAdmin() {
		return forbiddenError("only admins can restore accounts")
	}
	if err := s.userRepo.Restore(ctx, userID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "RESTORE", "User", userID, "Account restored", "", "")
	return nil
}

// ChangePassword sets a new password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, actor Actor, current, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return notFoundError("user")
	}

	if !VerifyPassword(current, user.EncryptedPassword) {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidCredentials)
	}
	if len(newPassword) < 8 {
		return validationError("password must be at least 8 characters")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.EncryptedPassword = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "CHANGE_PASSWORD", "User", user.ID, "Password changed by the user", "", "")
	return nil
}
