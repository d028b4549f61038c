package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/config"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the portal identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64      `json:"user_id"`
	ProfileID int64      `json:"profile_id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	CourseID  *int64     `json:"course_id,omitempty"`
}

// Identity converts the token claims into the request identity.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:    c.UserID,
		ProfileID: c.ProfileID,
		Username:  c.Username,
		Role:      c.Role,
		CourseID:  c.CourseID,
	}
}

// LoginResult is what a successful login hands back to the handler.
type LoginResult struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"-"`
	Redirect  string    `json:"redirect"`
}

// AuthService handles authentication, JWT, and session management.
type AuthService struct {
	cfg   *config.Config
	users UserStore
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, users UserStore, rdb *redis.Client, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:   cfg,
		users: users,
		rdb:   rdb,
		log:   log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials, makes sure the user has a profile and opens a
// session. A new login replaces any session the user already had.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	profile, err := s.users.EnsureProfile(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	identity := Identity{
		UserID:    user.ID,
		ProfileID: profile.ID,
		Username:  user.Username,
		Role:      profile.Role,
		CourseID:  profile.CourseID,
	}

	token, expiresAt, err := s.issueToken(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(profile.Role)).Msg("User logged in")

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
		Redirect:  HomePath(profile.Role),
	}, nil
}

// HomePath is the landing route for a role.
func HomePath(role model.Role) string {
	if role == model.RoleTeacher {
		return "/teacher/"
	}
	return "/student/"
}

func (s *AuthService) issueToken(ctx context.Context, id Identity) (string, time.Time, error) {
	jti := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    id.UserID,
		ProfileID: id.ProfileID,
		Username:  id.Username,
		Role:      id.Role,
		CourseID:  id.CourseID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	// Session lives exactly as long as the token.
	if err := s.rdb.Set(ctx, config.CacheKey.UserSessionKey(id.UserID), jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("invalid role claim")
	}

	return claims, nil
}

// ValidateSession checks that the token's JTI is the user's current session.
func (s *AuthService) ValidateSession(ctx context.Context, userID int64, jti string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.UserSessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionInvalid
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionInvalid
	}
	return nil
}

// Logout destroys the user's session. It is a no-op if none exists.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, config.CacheKey.UserSessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Info().Int64("user_id", userID).Msg("User logged out")
	return nil
}
