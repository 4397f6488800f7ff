package userapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelhub/internal/core/integrity"
	userEntity "travelhub/internal/core/user"
	userPort "travelhub/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload; Staff gates the admin routes.
type Claims struct {
	Staff bool `json:"staff"`
	jwt.StandardClaims
}

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	jwtKey         []byte
	Logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		jwtKey:         jwtKey,
		Logger:         logger,
	}
}

// LoginUser checks the password and issues a signed token.
func (s *UserService) LoginUser(ctx context.Context, username string, password string) (*userPort.LoginResponse, error) {
	user, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		s.Logger.Info("Login for unknown user", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Logger.Info("Invalid password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(tokenTTL)
	token, err := s.generateJWT(user, expiresAt)
	if err != nil {
		s.Logger.Error("Error generating JWT", zap.Error(err))
		return nil, errors.New("could not generate token")
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		IsStaff:   user.IsStaff,
	}, nil
}

func (s *UserService) generateJWT(user *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &Claims{
		Staff: user.IsStaff,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.String(),
			Issuer:    "travelhub",
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// RegisterUser ثبت‌نام کاربر جدید
func (s *UserService) RegisterUser(ctx context.Context, username, password string, staff bool) (*userPort.UserDTO, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Username: username,
		Password: string(hashed),
		IsStaff:  staff,
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("User registered", zap.String("id", u.ID.String()), zap.Bool("staff", u.IsStaff))
	return toDTO(u), nil
}

// DeleteUser removes the account; the database cascades or nulls what points at it.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	id, err := uuid.FromString(userID)
	if err != nil {
		return fmt.Errorf("invalid userID: %w", err)
	}
	return s.UserRepository.Delete(ctx, id)
}

func toDTO(u *userEntity.User) *userPort.UserDTO {
	return &userPort.UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		IsStaff:  u.IsStaff,
	}
}

// EnsureStaff creates the staff account when no user has that username yet.
func (s *UserService) EnsureStaff(ctx context.Context, username, password string) error {
	if _, err := s.UserRepository.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, integrity.ErrNotFound) {
		return err
	}
	_, err := s.RegisterUser(ctx, username, password, true)
	return err
}
