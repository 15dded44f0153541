package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"electro_store/database"
	"electro_store/middleware"
	"electro_store/model"
	"electro_store/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users  database.UserStore
	tokens *middleware.TokenIssuer
	now    func() time.Time
}

func NewAuthService(users database.UserStore, tokens *middleware.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Register creates a regular, active account and signs the user in.
func (s *AuthService) Register(ctx context.Context, req model.UserRequestBody) (model.AuthResponse, error) {
	user, err := newUser(req.Name, req.Email, req.Password, false, s.now())
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return model.AuthResponse{}, storeError(err, "email is already registered")
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequestBody) (model.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, database.ErrNotFound) {
		return model.AuthResponse{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return model.AuthResponse{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if !user.CanSignIn() {
		return model.AuthResponse{}, fmt.Errorf("%w: account is inactive or blocked", ErrForbidden)
	}
	return s.issue(user)
}

// SeedAdmin makes sure an active admin with the given email exists. An
// existing account is promoted; its password is left alone.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin && existing.CanSignIn() {
			return nil
		}
		_, err = s.users.UpdateUser(ctx, existing.ID, func(u *model.User) error {
			u.IsAdmin = true
			u.IsActive = true
			u.IsBlocked = false
			return nil
		})
		if err == nil {
			logrus.Infof("SeedAdmin: promoted %s to admin", existing.Email)
		}
		return err
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	if password == "" {
		return fmt.Errorf("%w: admin password is required to seed %s", ErrInvalidInput, email)
	}
	user, err := newUser(name, email, password, true, s.now())
	if err != nil {
		return err
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return storeError(err, "email is already registered")
	}
	logrus.Infof("SeedAdmin: created admin %s", user.Email)
	return nil
}

func (s *AuthService) issue(user model.User) (model.AuthResponse, error) {
	token, err := s.tokens.GenerateJWT(user.ID, user.Role())
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: user}, nil
}

func newUser(name, email, password string, admin bool, now time.Time) (model.User, error) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hash,
		IsAdmin:   admin,
		IsActive:  true,
		CreatedAt: now.UTC().Truncate(time.Microsecond),
	}, nil
}
