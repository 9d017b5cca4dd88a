// Package auth owns identities: credentials, sign-up, sign-in and the JWT
// session tokens handed to browsers and API clients.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wms-backend/internal/models"
	"wms-backend/internal/store"
)

const MinPasswordLength = 6

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("Invalid login credentials")

	// ErrInvalidInput wraps every sign-up validation failure.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	store  store.ProfileStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(st store.ProfileStore, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{store: st, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers credentials for email. If an administrator already created
// a profile with this email, the new credentials claim it and its role is
// kept; otherwise a fresh profile with role "user" is inserted.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*models.Profile, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	switch {
	case email == "":
		return nil, fmt.Errorf("email is required: %w", ErrInvalidInput)
	case name == "":
		return nil, fmt.Errorf("full name is required: %w", ErrInvalidInput)
	case len(password) < MinPasswordLength:
		return nil, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, ErrInvalidInput)
	}

	if _, err := s.store.GetCredentials(ctx, email); err == nil {
		return nil, fmt.Errorf("user already registered: %w", store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		log.Printf("🔗 Sign-up claims pre-provisioned profile %s (%s)", profile.ID, profile.Role)
	case errors.Is(err, store.ErrNotFound):
		profile = &models.Profile{
			ID:     uuid.New().String(),
			Email:  email,
			Name:   name,
			Role:   models.RoleUser,
			Status: models.ProfileStatusActive,
		}
		if err := s.store.CreateProfile(ctx, profile); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.store.CreateCredentials(ctx, &models.Credentials{
		ProfileID: profile.ID,
		Email:     email,
		Password:  hash,
	}); err != nil {
		return nil, err
	}

	log.Printf("✅ Registered %s (%s)", email, profile.Role)
	return profile, nil
}

// SignIn verifies the password and returns the profile with a fresh token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Profile, string, error) {
	email = NormalizeEmail(email)

	creds, err := s.store.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("❌ Unknown email: %s", email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !CheckPassword(creds.Password, password) {
		log.Printf("❌ Invalid password for: %s", email)
		return nil, "", ErrInvalidCredentials
	}

	profile, err := s.store.GetProfile(ctx, creds.ProfileID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *Service) IssueToken(p *models.Profile) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}
	return signed, nil
}

func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return claims, nil
}

// TTL is the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }
