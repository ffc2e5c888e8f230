package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lireddit/internal/apperror"
	"lireddit/internal/config"
	"lireddit/internal/mailer"
	"lireddit/internal/models"
)

const (
	forgetPasswordPrefix = "forget-password:"
	resetTokenTTL        = 3 * 24 * time.Hour
	sessionTokenTTL      = 72 * time.Hour

	uniqueViolationCode = "23505"
)

type AuthService struct {
	db          *gorm.DB
	redis       *redis.Client
	mailer      mailer.Mailer
	log         *zap.SugaredLogger
	jwtSecret   []byte
	frontendURL string
}

func NewAuthService(db *gorm.DB, rdb *redis.Client, m mailer.Mailer, cfg config.Config, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		db:          db,
		redis:       rdb,
		mailer:      m,
		log:         log,
		jwtSecret:   []byte(cfg.JWTSecret),
		frontendURL: cfg.FrontendURL,
	}
}

// ValidateRegister returns field-scoped validation errors for a registration
// attempt, or nil when the input is acceptable.
func ValidateRegister(username, email, password string) []apperror.FieldError {
	if !strings.Contains(email, "@") {
		return []apperror.FieldError{{Field: "email", Message: "has to be a valid email"}}
	}
	if len(username) <= 2 {
		return []apperror.FieldError{{Field: "username", Message: "length must be greater than 2"}}
	}
	if strings.Contains(username, "@") {
		return []apperror.FieldError{{Field: "username", Message: "username cannot include @"}}
	}
	if len(password) <= 3 {
		return []apperror.FieldError{{Field: "password", Message: "length must be greater than 3"}}
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if fields := ValidateRegister(username, email, password); fields != nil {
		return nil, "", apperror.ValidationFields(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return nil, "", apperror.Validation("email", "email already in use")
			}
			return nil, "", apperror.Validation("username", "username already taken")
		}
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Infow("user registered", "id", user.ID, "username", user.Username)
	return &user, token, nil
}

func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, string, error) {
	query := s.db.WithContext(ctx)
	if strings.Contains(usernameOrEmail, "@") {
		query = query.Where("email = ?", usernameOrEmail)
	} else {
		query = query.Where("username = ?", usernameOrEmail)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.Validation("username_or_email", "that user doesn't exist")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperror.Validation("password", "incorrect password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, err
	}
	return &user, nil
}

// ForgotPassword stores a short-lived reset token and mails a reset link.
// An unknown email still succeeds, so the endpoint can't be used to probe
// which addresses exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.redis.Set(ctx, forgetPasswordPrefix+token, user.ID, resetTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/change-password/%s", s.frontendURL, token)
	body := fmt.Sprintf(`<a href="%s">reset password</a>`, link)
	if err := s.mailer.Send(ctx, email, "reset password", body); err != nil {
		return err
	}

	s.log.Infow("password reset requested", "user_id", user.ID)
	return nil
}

// ChangePassword consumes a reset token, updates the hash, and logs the user
// in by returning a fresh session token.
func (s *AuthService) ChangePassword(ctx context.Context, token, newPassword string) (*models.User, string, error) {
	if len(newPassword) <= 3 {
		return nil, "", apperror.Validation("new_password", "length must be greater than 3")
	}

	key := forgetPasswordPrefix + token
	rawID, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", apperror.Validation("token", "token expired")
		}
		return nil, "", err
	}

	userID, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, "", apperror.Validation("token", "token expired")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.Validation("token", "user no longer exists")
		}
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password", string(hashed)).Error; err != nil {
		return nil, "", err
	}

	s.redis.Del(ctx, key)

	sessionToken, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return &user, sessionToken, nil
}

func (s *AuthService) issueToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(sessionTokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
