package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
	DeleteUser(ctx context.Context, id int64) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUser(ctx context.Context, user *User) (*User, error) {
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user in repository")
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return created, nil
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users in repository")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		log.Error().Err(err).Int64("user_id", id).Msg("failed to get user by id in repository")
		return nil, fmt.Errorf("failed to get user by id '%d': %w", id, err)
	}

	return user, nil
}

// UpdateUser replaces all fields of the stored record with those of user.
func (s *service) UpdateUser(ctx context.Context, user *User) (*User, error) {
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update user by id '%d': %w", user.ID, err)
	}

	return updated, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) (*User, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		log.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return nil, fmt.Errorf("failed to delete user by id '%d': %w", id, err)
	}

	return deleted, nil
}
