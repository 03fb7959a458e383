package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/myhireapp/myhire-api/internal/config"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthUsecase struct {
	users *repository.UserRepository
}

func NewAuthUsecase(users *repository.UserRepository) *AuthUsecase {
	return &AuthUsecase{users: users}
}

func (uc *AuthUsecase) Register(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email required")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password too short (min 6)")
	}
	if _, err := uc.users.FindByEmail(email); err == nil {
		return nil, fmt.Errorf("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Email: email, PasswordHash: hash}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *AuthUsecase) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	authConfig := config.LoadAuthConfig()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(authConfig.TokenTTL).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString(authConfig.JWTSecret)
}
