package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL = 24 * time.Hour

	bcryptMaxBytes = 72
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	mirror  *mirrorRunner
	usersMu *sync.Mutex
	secret  []byte
	ttl     time.Duration
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, mirror *mirrorRunner, usersMu *sync.Mutex, secret []byte, ttl time.Duration) Auth {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &authService{
		logger:  logger,
		repo:    repo,
		mirror:  mirror,
		usersMu: usersMu,
		secret:  secret,
		ttl:     ttl,
	}
}

func (s *authService) Signup(ctx context.Context, name string, email string, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, "", ErrInvalidName
	}
	if !emailRegexp.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if n := utf8.RuneCountInString(password); n < 6 || n > 100 {
		return nil, "", ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, "", ErrInternal
	}

	user := model.User{
		ID:           repository.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    model.Now(),
	}

	if err := s.register(ctx, user); err != nil {
		return nil, "", err
	}

	s.mirror.Go("save user", func(ctx context.Context, m RemoteMirror) error {
		return m.SaveUser(ctx, user)
	})

	return s.startSession(ctx, user)
}

// register appends user to the directory unless the email is taken.
func (s *authService) register(ctx context.Context, user model.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := s.repo.Users.Directory(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load users for signup: %s", err.Error())
		return ErrInternal
	}
	for _, u := range users {
		if normalizeEmail(u.Email) == user.Email {
			return ErrUserExists
		}
	}

	if err := s.repo.Users.SaveDirectory(ctx, append(users, user)); err != nil {
		s.logger.Sugar().Errorf("failed to save user(%s): %s", user.ID, err.Error())
		return ErrInternal
	}
	return nil
}

func (s *authService) Login(ctx context.Context, email string, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if password == "" {
		return nil, "", ErrInvalidCredentials
	}

	users, err := s.repo.Users.Directory(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load users for login: %s", err.Error())
		return nil, "", ErrInternal
	}

	for _, u := range users {
		if normalizeEmail(u.Email) != email {
			continue
		}
		if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), bcryptInput(password)) != nil {
			return nil, "", ErrInvalidCredentials
		}
		return s.startSession(ctx, u)
	}

	return nil, "", ErrInvalidCredentials
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.repo.Users.ClearCurrent(ctx); err != nil {
		s.logger.Sugar().Errorf("failed to clear current user: %s", err.Error())
		return ErrInternal
	}
	return nil
}

func (s *authService) User(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.Users.FindByID(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id, err.Error())
		return nil, ErrInternal
	}
	if user == nil {
		current, err := s.repo.Users.Current(ctx)
		if err != nil {
			s.logger.Sugar().Errorf("failed to read current user: %s", err.Error())
			return nil, ErrInternal
		}
		if current == nil || current.ID != id {
			return nil, ErrUserNotFound
		}
		user = current
	}

	session := user.Session()
	return &session, nil
}

func (s *authService) startSession(ctx context.Context, user model.User) (*model.User, string, error) {
	if err := s.repo.Users.SetCurrent(ctx, user); err != nil {
		s.logger.Sugar().Errorf("failed to set current user(%s): %s", user.ID, err.Error())
		return nil, "", ErrInternal
	}

	token, err := utils.SignJWT(user.ID, user.DisplayName(), s.secret, s.ttl)
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign token for user(%s): %s", user.ID, err.Error())
		return nil, "", ErrInternal
	}

	session := user.Session()
	return &session, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// bcrypt rejects inputs over 72 bytes; longer passwords are compared on their prefix.
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}
