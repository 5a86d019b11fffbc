package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// UserAdminStore is the account persistence surface user management needs.
type UserAdminStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, role, search string, limit, offset int) ([]model.User, int, error)
}

// UserService implements admin account management.
type UserService struct {
	users      UserAdminStore
	bcryptCost int
	logger     zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserAdminStore, bcryptCost int, logger zerolog.Logger) *UserService {
	return &UserService{
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "user_service").Logger(),
	}
}

// Get retrieves one account.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// List retrieves accounts with optional role filter and search.
func (s *UserService) List(ctx context.Context, role, search string, limit, offset int) ([]model.User, int, error) {
	return s.users.List(ctx, role, search, limit, offset)
}

// Update edits an account. An empty password keeps the stored hash.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = model.Role(req.Role)
	if req.Department != "" {
		dept := model.Department(req.Department)
		user.Department = &dept
	} else if user.Role == model.RoleAdmin {
		user.Department = nil
	}

	user.PasswordHash = ""
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.users.GetByID(ctx, id)
}

// Delete removes an account and cascades its sessions and results.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
