package service

import (
	"errors"
	"time"

	"gscormer_backend/internal/config"
	"gscormer_backend/internal/model"
	"gscormer_backend/internal/repository"
	"gscormer_backend/internal/util"
	"gscormer_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 3

// AuthService handles login, password changes and the per-user working
// session lifecycle. A session carries the undo ledger and filter sets;
// it is created on login and dropped on logout, never persisted.
type AuthService struct {
	Users    *repository.UserRepository
	Sessions *SessionRegistry
	JWT      config.JWTConfig
}

func NewAuthService(users *repository.UserRepository, sessions *SessionRegistry, jwt config.JWTConfig) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, JWT: jwt}
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login verifies credentials by user name and opens a working session.
func (s *AuthService) Login(name, password string) (*LoginResult, error) {
	user, err := s.Users.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.AuthorizationError(util.ErrInvalidCredentials)
		}
		return nil, util.PersistenceError("buscar usuario", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.AuthorizationError(util.ErrInvalidCredentials)
	}

	token, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return nil, util.PersistenceError("emitir token", err)
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("last login update failed", zap.Uint("userID", user.ID), zap.Error(err))
	}
	user.LastLogin = time.Now()
	user.Password = ""

	s.Sessions.Start(user.ID)
	logger.Log.Info("user logged in", zap.String("user", user.Name), zap.String("role", string(user.Role)))

	return &LoginResult{Token: token, User: user}, nil
}

// Logout drops the working session, discarding its undo history and
// filter sets.
func (s *AuthService) Logout(userID uint) {
	s.Sessions.Discard(userID)
}

// ChangePassword re-hashes and stores a new password for the user.
func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return util.AuthorizationError(util.ErrUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return util.AuthorizationError(util.ErrInvalidCredentials)
	}
	if len(next) < minPasswordLength {
		return util.ValidationError(util.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return util.PersistenceError("cifrar contraseña", err)
	}
	if err := s.Users.UpdatePassword(userID, string(hash)); err != nil {
		return util.PersistenceError("guardar contraseña", err)
	}
	return nil
}
