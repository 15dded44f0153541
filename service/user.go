package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"electro_store/database"
	"electro_store/model"
)

type UserService struct {
	users database.UserStore
	now   func() time.Time
}

func NewUserService(users database.UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	if req.Role != model.RoleAdmin && req.Role != model.RoleUser {
		return model.User{}, fmt.Errorf("%w: role must be admin or user", ErrInvalidInput)
	}
	user, err := newUser(req.Name, req.Email, req.Password, req.Role == model.RoleAdmin, s.now())
	if err != nil {
		return model.User{}, err
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return model.User{}, storeError(err, "email already exists")
	}
	return user, nil
}

// Update applies an admin's changes to another account. Admins cannot lock
// themselves out.
func (s *UserService) Update(ctx context.Context, actor model.User, id string, req model.UpdateUserRequest) (model.User, error) {
	if actor.ID == id {
		if (req.IsAdmin != nil && !*req.IsAdmin) || (req.IsActive != nil && !*req.IsActive) || (req.IsBlocked != nil && *req.IsBlocked) {
			return model.User{}, fmt.Errorf("%w: admins cannot demote, deactivate or block themselves", ErrForbidden)
		}
	}
	user, err := s.users.UpdateUser(ctx, id, func(u *model.User) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
			}
			u.Name = name
		}
		if req.Email != nil {
			u.Email = model.NormalizeEmail(*req.Email)
		}
		if req.IsAdmin != nil {
			u.IsAdmin = *req.IsAdmin
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.IsBlocked != nil {
			u.IsBlocked = *req.IsBlocked
		}
		return nil
	})
	if err != nil {
		return model.User{}, userUpdateError(err, id)
	}
	return user, nil
}

// Delete removes an account. Orders keep their copy of the customer details.
func (s *UserService) Delete(ctx context.Context, actor model.User, id string) error {
	if actor.ID == id {
		return fmt.Errorf("%w: admins cannot delete themselves", ErrForbidden)
	}
	return storeError(s.users.DeleteUser(ctx, id), "user "+id)
}

func (s *UserService) Profile(ctx context.Context, id string) (model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, storeError(err, "user "+id)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (model.User, error) {
	user, err := s.users.UpdateUser(ctx, id, func(u *model.User) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
			}
			u.Name = name
		}
		if req.Email != nil {
			u.Email = model.NormalizeEmail(*req.Email)
		}
		if req.Phone != nil {
			u.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.ShippingAddress != nil {
			addr := *req.ShippingAddress
			u.ShippingAddress = &addr
		}
		return nil
	})
	if err != nil {
		return model.User{}, userUpdateError(err, id)
	}
	return user, nil
}

func userUpdateError(err error, id string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return fmt.Errorf("%w: email already exists", ErrConflict)
	}
	return storeError(err, "user "+id)
}
