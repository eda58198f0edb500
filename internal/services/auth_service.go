package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storerating/internal/apperrors"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
)

// Claims are the session token contents: who the caller is and their role.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

// AuthOptions configures token signing and password hashing.
type AuthOptions struct {
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	AllowAdminSignup bool
	Logger           zerolog.Logger
}

// AuthService handles signup, login and token verification.
type AuthService struct {
	userRepo         repositories.UserRepository
	validate         *validation.Validator
	jwtSecret        []byte
	tokenTTL         time.Duration
	bcryptCost       int
	allowAdminSignup bool
	log              zerolog.Logger
}

// NewAuthService creates a new AuthService. A zero TokenTTL means one day.
func NewAuthService(userRepo repositories.UserRepository, opts AuthOptions) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:         userRepo,
		validate:         validation.New(),
		jwtSecret:        []byte(opts.JWTSecret),
		tokenTTL:         opts.TokenTTL,
		bcryptCost:       opts.BcryptCost,
		allowAdminSignup: opts.AllowAdminSignup,
		log:              opts.Logger,
	}
}

// SignupInput carries the self-signup form. Its rules mirror the stored
// user schema and are looser than the admin-created account rules.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=3,max=60" label:"Name"`
	Email    string `json:"email" validate:"required,emailshape" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=100" label:"Password"`
	Address  string `json:"address" validate:"omitempty,max=400" label:"Address"`
	Role     string `json:"role" validate:"omitempty,role" label:"Role"`
}

func (in *SignupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Role = strings.TrimSpace(in.Role)
}

// Signup registers a new account and signs it in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.normalize()
	if msgs := s.validate.Check(in); len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	role, _ := models.ParseRole(in.Role)
	if role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, apperrors.RoleMismatch("Admin accounts cannot be created through signup.")
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.DuplicateEmail(in.Email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hashed, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Address:  in.Address,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.DuplicateEmail(in.Email)
		}
		return nil, apperrors.Internal(err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user signed up")
	return s.authResult(user)
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if !passwordMatches(user.Password, password) {
		return nil, apperrors.InvalidCredentials()
	}

	return s.authResult(user)
}

func (s *AuthService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// IssueToken signs an HS256 token carrying the user's id, email and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, errors.New("invalid token: missing identity or unknown role")
	}
	return claims, nil
}
