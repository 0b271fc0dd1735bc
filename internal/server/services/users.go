package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/auth"
	"github.com/dmitrijs2005/lifelog/internal/server/config"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// Session is returned by Register and Login.
type Session struct {
	AccessToken string
	Username    string
	UserID      string
}

// UserService handles registration and login. Access tokens carry the
// username as their subject; IdentityResolver turns it back into an id.
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         Clock
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Register creates a user and logs them in. Usernames and non-empty
// emails must be unique.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users()
	if email != "" {
		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return nil, fmt.Errorf("%w: email is already registered", common.ErrorAlreadyExists)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		CreatedAt:    models.NewTimestamp(s.now()),
	}
	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return s.session(user)
}

// Login verifies the password. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repomanager.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.session(user)
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{AccessToken: token, Username: user.Username, UserID: user.ID}, nil
}
