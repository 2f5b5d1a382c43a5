package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
)

type ProfileService struct {
	users    ports.UserRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewProfileService(users ports.UserRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, activity: activity, logger: logger}
}

// Update applies a self-service edit to actor's own profile. Either every
// requested change is written in one update or none is.
func (s *ProfileService) Update(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error) {
	if err := policy.Authorize(actor, policy.UpdateProfile, actor); err != nil {
		return nil, err
	}

	var (
		patch   domain.UserPatch
		changed []string
	)

	if name := strings.TrimSpace(in.Name); name != "" && name != actor.Name {
		patch.Name = &name
		changed = append(changed, "name")
	}
	if apartment := strings.TrimSpace(in.Apartment); apartment != "" && apartment != actor.Apartment {
		patch.Apartment = &apartment
		changed = append(changed, "apartment")
	}
	if email := domain.NormalizeEmail(in.Email); email != "" && email != actor.Email {
		taken, err := s.users.EmailTakenByOther(ctx, email, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		patch.Email = &email
		changed = append(changed, "email")
	}

	if in.CurrentPassword != "" || in.NewPassword != "" || in.ConfirmPassword != "" {
		if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
			return nil, domain.ErrMissingPasswordFields
		}
		if ok, _ := checkPassword(actor.PasswordHash, in.CurrentPassword); !ok {
			return nil, domain.ErrInvalidCurrentPassword
		}
		if in.NewPassword != in.ConfirmPassword {
			return nil, domain.ErrPasswordMismatch
		}
		if err := domain.CheckPasswordStrength("new_password", in.NewPassword); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		patch.PasswordHash = &h
		changed = append(changed, "password")
	}

	if patch.Empty() {
		return &ports.ProfileResult{}, nil
	}

	if err := s.users.Update(ctx, actor.ID, patch); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", actor.ID).Strs("fields", changed).Msg("profile updated")
	s.activity.Record(domain.NewActivity(domain.ActivityProfileUpdated, actor, actor.ID, strings.Join(changed, ",")))
	return &ports.ProfileResult{Changed: changed}, nil
}
