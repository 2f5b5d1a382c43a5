package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
)

// AuthService implements credential checks, resident registration and
// bearer tokens.
type AuthService struct {
	users     ports.UserRepository
	activity  ports.ActivityRecorder
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, activity ports.ActivityRecorder, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, activity: activity, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so an unknown email costs as
// much as a wrong password.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			equalizeTiming(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	ok, rehash := checkPassword(user.PasswordHash, password)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if rehash {
		// Upgrade a legacy hash now that the plain password is known. A
		// failure leaves the old hash in place for the next login.
		if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			h := string(hash)
			if s.users.Update(ctx, user.ID, domain.UserPatch{PasswordHash: &h}) == nil {
				user.PasswordHash = h
			}
		}
	}
	return user, nil
}

func (s *AuthService) RegisterResident(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	apartment := strings.TrimSpace(in.Apartment)
	email := domain.NormalizeEmail(in.Email)

	switch {
	case name == "":
		return nil, domain.Invalid("name", "is required")
	case email == "":
		return nil, domain.Invalid("email", "is required")
	case apartment == "":
		return nil, domain.Invalid("apartment", "is required")
	case in.Password == "":
		return nil, domain.Invalid("password", "is required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		Apartment:    apartment,
		PasswordHash: string(hash),
		Role:         domain.RoleResident,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(domain.NewActivity(domain.ActivityUserRegistered, created, created.ID, created.Apartment))
	return created, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ParseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthenticated
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthenticated
	}
	return sub, nil
}
