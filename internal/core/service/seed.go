package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
)

// SeedAccount is a well-known account provisioned for local development.
type SeedAccount struct {
	Name      string
	Email     string
	Apartment string
	Password  string
	Role      domain.Role
}

// Seeder provisions the default development accounts. It runs outside the
// request path and must never be enabled in production: the credentials it
// installs are public.
type Seeder struct {
	users    ports.UserRepository
	accounts []SeedAccount
	log      zerolog.Logger
}

func NewSeeder(users ports.UserRepository, accounts []SeedAccount, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, accounts: accounts, log: log}
}

// EnsureDefaults creates every configured account that is missing and
// returns how many were created. Existing accounts are left untouched.
func (s *Seeder) EnsureDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, acct := range s.accounts {
		email := domain.NormalizeEmail(acct.Email)
		if email == "" || acct.Password == "" {
			continue
		}

		_, err := s.users.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return created, fmt.Errorf("seed %s: %w", email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}

		role := acct.Role
		if !role.Valid() {
			role = domain.RoleResident
		}

		_, err = s.users.Create(ctx, &domain.User{
			Name:         acct.Name,
			Email:        email,
			Apartment:    acct.Apartment,
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    time.Now().UTC(),
		})
		if errors.Is(err, domain.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", email, err)
		}

		created++
		s.log.Warn().
			Str("email", email).
			Str("role", string(role)).
			Msg("seeded development account with well-known credentials; do not use in production")
	}
	return created, nil
}

// DefaultAccounts returns the secretary and sample resident used in local
// development.
func DefaultAccounts(secretaryEmail, secretaryPassword, residentEmail, residentPassword string) []SeedAccount {
	return []SeedAccount{
		{Name: "Society Secretary", Email: secretaryEmail, Apartment: "Office", Password: secretaryPassword, Role: domain.RoleSecretary},
		{Name: "Default Resident", Email: residentEmail, Apartment: "A-101", Password: residentPassword, Role: domain.RoleResident},
	}
}
