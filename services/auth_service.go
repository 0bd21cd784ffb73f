package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/shared"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the claims so a refresh token cannot be replayed
// as an access token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`

	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type AuthService struct {
	DB         *sql.DB
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(db *sql.DB, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		DB:         db,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a new user and issues a token pair.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, *TokenPair, error) {
	fields := map[string]string{}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		fields["username"] = "username is required"
	}
	if len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, nil, shared.NewValidationError("auth-service", "Register", "invalid registration data", fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, shared.NewDatabaseError("auth-service", "Register", err)
	}

	user := &models.User{
		Username:  username,
		Email:     strings.TrimSpace(input.Email),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	user.PasswordHash = string(hash)

	query := `INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, date_joined`

	err = s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, nil, shared.NewValidationError("auth-service", "Register", "user already exists",
				map[string]string{"username": "username already exists"})
		}
		return nil, nil, shared.NewDatabaseError("auth-service", "Register", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logrus.WithField("username", user.Username).Info("User registered")
	return user, tokens, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.getUserBy(ctx, "username", username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, shared.NewAuthenticationError("auth-service", "Login", "invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("username", username).Warn("Login failed")
		return nil, nil, shared.NewAuthenticationError("auth-service", "Login", "invalid username or password")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logrus.WithField("username", username).Info("User logged in")
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.Verify(refreshToken)
	if err != nil {
		return nil, shared.NewAuthenticationError("auth-service", "Refresh", "invalid refresh token")
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, shared.NewAuthenticationError("auth-service", "Refresh", "not a refresh token")
	}

	user, err := s.getUserBy(ctx, "id", claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewAuthenticationError("auth-service", "Refresh", "user no longer exists")
	}

	access, err := s.sign(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access}, nil
}

// GetUserByID looks up a user, or nil when the id is unknown.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getUserBy(ctx, "id", id.String())
}

// GetOrCreateAdminUser is the idempotent bootstrap for the named system
// actor. It is invoked only by data-loading tooling, never by request
// handling.
func (s *AuthService) GetOrCreateAdminUser(ctx context.Context, username, email, password string) (*models.User, error) {
	user, err := s.getUserBy(ctx, "username", username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewDatabaseError("auth-service", "GetOrCreateAdminUser", err)
	}

	query := `INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, TRUE, TRUE)
		ON CONFLICT (username) DO NOTHING`

	if _, err := s.DB.ExecContext(ctx, query, username, email, string(hash)); err != nil {
		return nil, shared.NewDatabaseError("auth-service", "GetOrCreateAdminUser", err)
	}

	// Re-read so a concurrent creator still yields the stored row.
	user, err = s.getUserBy(ctx, "username", username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDatabaseError("auth-service", "GetOrCreateAdminUser", sql.ErrNoRows)
	}

	logrus.WithField("username", username).Info("Bootstrap admin user created")
	return user, nil
}

func (s *AuthService) getUserBy(ctx context.Context, column, value string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, first_name, last_name,
		is_staff, is_superuser, date_joined
		FROM users WHERE ` + column + ` = $1`

	var user models.User
	err := s.DB.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.IsStaff, &user.IsSuperuser, &user.DateJoined,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, shared.NewDatabaseError("auth-service", "getUserBy", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.sign(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:    user.ID.String(),
		Username:  user.Username,
		IsStaff:   user.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ipo-backend",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", shared.NewAuthenticationError("auth-service", "sign", "failed to sign token")
	}
	return token, nil
}

// Verify parses and validates a token, returning its claims.
func (s *AuthService) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
