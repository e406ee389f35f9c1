package services

import (
	"context"
	"errors"
	"log"

	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/core/domain"
	"palika-console/internal/pkg/pagination"
	"palika-console/internal/pkg/password"

	"gorm.io/gorm"
)

// User management errors
var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// UserService handles user management business logic
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	deptRepo         repositories.DepartmentRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	deptRepo repositories.DepartmentRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		deptRepo:         deptRepo,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID *uint  `json:"department_id"`
}

// UpdateUserInput represents input for updating a user.
// Nil pointers leave the field unchanged; an empty password keeps
// the current one.
type UpdateUserInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	DepartmentID *uint   `json:"department_id"`
	IsActive     *bool   `json:"is_active"`
}

// ListUsers lists users, paginated when params is non-nil
func (s *UserService) ListUsers(ctx context.Context, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	offset, limit := 0, 0
	if params != nil {
		offset, limit = params.Offset, params.Limit
	}

	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, total, nil
}

// GetUser gets a single user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// CreateUser creates a user on behalf of an administrator
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	// 1. Validate role
	if !domain.Role(input.Role).Valid() {
		return nil, ErrInvalidRole
	}

	// 2. Check email uniqueness
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	// 3. Resolve department if given
	if input.DepartmentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownDepartment
			}
			return nil, err
		}
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     hashedPassword,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s (%s, role=%s)", user.Name, user.Email, user.Role)
	return user.ToResponse(), nil
}

// UpdateUser updates a user. actorID is the administrator making the
// change; an admin cannot change their own role.
func (s *UserService) UpdateUser(ctx context.Context, id, actorID uint, input *UpdateUserInput) (*models.UserResponse, error) {
	// 1. Load user
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 2. Role change rules
	if input.Role != nil && *input.Role != user.Role {
		if id == actorID {
			return nil, ErrCannotChangeOwnRole
		}
		if !domain.Role(*input.Role).Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}

	// 3. Email change keeps the unique index honest
	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailAlreadyUsed
		}
		user.Email = *input.Email
	}

	// 4. Department change
	if input.DepartmentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownDepartment
			}
			return nil, err
		}
		user.DepartmentID = input.DepartmentID
	}

	// 5. Password is optional on update
	if input.Password != nil && *input.Password != "" {
		hashedPassword, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashedPassword
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
		// Deactivation kills every open session
		if !*input.IsActive {
			if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
				log.Printf("⚠️ Failed to revoke sessions for deactivated user %d: %v", user.ID, err)
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User updated: %s (ID: %d)", user.Email, user.ID)
	return user.ToResponse(), nil
}

// DeleteUser deletes a user. Administrators cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Revoke sessions before the soft delete so the tokens die with the account
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		log.Printf("⚠️ Failed to revoke sessions for deleted user %d: %v", user.ID, err)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("✅ User deleted: %s (ID: %d)", user.Email, user.ID)
	return nil
}
