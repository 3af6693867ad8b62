package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
)

type UserService interface {
	Me(ctx context.Context, caller permission.Caller) (*models.User, error)
	UpdateMe(ctx context.Context, caller permission.Caller, req dto.UpdateUserRequest) (*models.User, error)

	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, caller permission.Caller, username string) (*models.User, error)
	Update(ctx context.Context, caller permission.Caller, username string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, caller permission.Caller, username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Me(ctx context.Context, caller permission.Caller) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateMe applies a profile update to the caller's own account. The role never changes here.
func (s *userService) UpdateMe(ctx context.Context, caller permission.Caller, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	req.Role = nil
	return s.apply(ctx, user, req)
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if isReservedUsername(req.Username) {
		return nil, invalid("username", ErrRestrictedUsername)
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, caller permission.Caller, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !permission.SelfOrAdmin(caller, user.ID) {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, caller permission.Caller, username string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, caller, username)
	if err != nil {
		return nil, err
	}
	if req.Role != nil && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.apply(ctx, user, req)
}

func (s *userService) Delete(ctx context.Context, caller permission.Caller, username string) error {
	user, err := s.Get(ctx, caller, username)
	if err != nil {
		return err
	}
	return notFound(s.userRepo.Delete(ctx, user.ID), ErrUserNotFound)
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*models.User, error) {
	if req.Username != nil {
		if isReservedUsername(*req.Username) {
			return nil, invalid("username", ErrRestrictedUsername)
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
