package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hirable/internal/models"
	"hirable/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token issuance/validation.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	clockSkew  time.Duration // Leeway allowed on expiry validation
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
		clockSkew:  2 * time.Minute,
	}
}

// NormalizeEmail trims whitespace and lowercases an email address. All
// lookups and stored emails use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword derives a bcrypt hash of the password scoped to the owning
// email. The pair is pre-digested with SHA-256 so the input stays inside
// bcrypt's 72-byte limit regardless of email length. Because the email is
// part of the digest, a stored hash only verifies against the same email.
func hashPassword(email, password string) (string, error) {
	digest := sha256.Sum256([]byte(email + ":" + password))
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// verifyPassword reports whether the password matches the stored hash for
// the given email.
func verifyPassword(email, hash, password string) bool {
	digest := sha256.Sum256([]byte(email + ":" + password))
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(digest[:]))) == nil
}

// Register creates a new account and returns a freshly issued token plus
// the normalized email. A duplicate email yields ErrDuplicateEmail whether
// it is caught by the lookup or, losing a concurrent-registration race, by
// the store's unique constraint.
func (s *AuthService) Register(email, password string) (string, string, error) {
	normalized := NormalizeEmail(email)

	if _, err := s.userRepo.GetByEmail(normalized); err == nil {
		return "", "", ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return "", "", fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := hashPassword(normalized, password)
	if err != nil {
		return "", "", err
	}

	user := &models.User{
		Email:        normalized,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return "", "", ErrDuplicateEmail
		}
		return "", "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", "", err
	}
	return token, user.Email, nil
}

// Login authenticates a user and returns a token plus the normalized email.
// Unknown email and wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (string, string, error) {
	normalized := NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !verifyPassword(normalized, user.PasswordHash, password) {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", "", err
	}
	return token, user.Email, nil
}

// IssueToken signs a token carrying the user's identifier and email.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning the user identifier
// and email claims. Expiry is checked with the configured clock-skew leeway.
func (s *AuthService) ValidateToken(tokenString string) (uint, string, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Add(-s.clockSkew).Unix() > int64(exp) {
		return 0, "", fmt.Errorf("invalid token: expired")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid token: missing user_id claim")
	}
	email, _ := claims["email"].(string)

	return uint(userID), email, nil
}
