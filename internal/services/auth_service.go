package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

// Claims are the JWT claims issued by AuthService.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// UserOptions carries the optional fields of a new user.
type UserOptions struct {
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// ProfileUpdate lists the self-service profile changes; nil fields are left
// untouched.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// AuthService handles accounts, credentials and tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// CreateUser registers an account. The email is required and normalised;
// only the bcrypt hash of the password is stored.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, opts UserOptions) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, domainerrors.Validation("users must have an email address")
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:       email,
		Password:    hashed,
		Name:        strings.TrimSpace(opts.Name),
		IsActive:    true,
		IsStaff:     opts.IsStaff,
		IsSuperuser: opts.IsSuperuser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user created", zap.Uint("user_id", user.ID), zap.Bool("superuser", user.IsSuperuser))
	return user, nil
}

// CreateSuperuser registers a staff account with every permission.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, UserOptions{IsStaff: true, IsSuperuser: true})
}

// LoginUser checks the credentials and returns a signed token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return "", invalidCredentials()
		}
		return "", err
	}
	if !user.IsActive || !CheckPassword(user.Password, password) {
		return "", invalidCredentials()
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// invalidCredentials does not reveal whether the email exists.
func invalidCredentials() error {
	return domainerrors.Validation("unable to authenticate with provided credentials")
}

// ValidateToken parses and validates a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, domainerrors.Unauthorized("invalid token")
	}
	return claims, nil
}

// Authenticate resolves a token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.Unauthorized("user inactive or deleted")
	}
	return user, nil
}

// GetProfile returns the user's own account.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of upd to the user's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := models.NormalizeEmail(*upd.Email)
		if email == "" {
			return nil, domainerrors.Validation("users must have an email address")
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Password != nil {
		hashed, err := hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return domainerrors.AlreadyExists(fmt.Sprintf("email '%s' already registered", email))
	}
	if err != nil && !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
