package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialhub/internal/auth"
	apperrors "socialhub/internal/errors"
	"socialhub/internal/model"
	"socialhub/internal/repository"
)

// UserPatch lists the profile fields a user may change. Nil means unchanged.
type UserPatch struct {
	Username *string
	Name     *string
	Bio      *string
	Password *string
}

// UserService exposes profile operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.UserProfile, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.UserProfile, error)
	UpdateUser(ctx context.Context, principal auth.Principal, id uuid.UUID, patch UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, principal auth.Principal, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo        repository.UserRepository
	revocations auth.RevocationStore
}

// NewUserService builds a UserService. Deleted users have their tokens
// revoked through revocations.
func NewUserService(repo repository.UserRepository, revocations auth.RevocationStore) UserService {
	return &userService{repo: repo, revocations: revocations}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if profiles == nil {
		profiles = []model.UserProfile{}
	}
	return profiles, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	profile, err := s.repo.FindProfile(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound, "find user")
	}
	return profile, nil
}

// UpdateUser applies the patch to the caller's own profile.
func (s *userService) UpdateUser(ctx context.Context, principal auth.Principal, id uuid.UUID, patch UserPatch) (*model.User, error) {
	identity, err := requireIdentity(principal)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound, "find user")
	}
	if identity.ID != user.ID {
		return nil, apperrors.ErrNotProfileOwner
	}

	fields := map[string]interface{}{}
	if patch.Username != nil && *patch.Username != user.Username {
		other, err := s.repo.FindByUsername(ctx, *patch.Username)
		if err == nil && other.ID != user.ID {
			return nil, apperrors.ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
		fields["username"] = *patch.Username
		user.Username = *patch.Username
	}
	if patch.Name != nil {
		fields["name"] = *patch.Name
		user.Name = *patch.Name
	}
	if patch.Bio != nil {
		fields["bio"] = *patch.Bio
		user.Bio = patch.Bio
	}
	if patch.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hashed)
		user.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the caller's own account and revokes its tokens.
func (s *userService) DeleteUser(ctx context.Context, principal auth.Principal, id uuid.UUID) (*model.User, error) {
	identity, err := requireIdentity(principal)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound, "find user")
	}
	if identity.ID != user.ID {
		return nil, apperrors.ErrNotProfileOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound, "delete user")
	}

	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, id, auth.TokenExpiry); err != nil {
			return nil, fmt.Errorf("revoke tokens: %w", err)
		}
	}
	return user, nil
}
