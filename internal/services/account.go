package services

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

const minPasswordLength = 8

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserUpdate carries the optional profile changes; Password is plaintext.
type UserUpdate struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error)
	// Authenticate checks an email/password pair; a mismatch is a 401.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type accountService struct {
	log      *logger.Logger
	accounts store.AccountStore
	cost     int
}

func NewAccountService(log *logger.Logger, accounts store.AccountStore) AccountService {
	return &accountService{
		log:      log.With("service", "AccountService"),
		accounts: accounts,
		cost:     bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email %q is not a valid address", email)
	}
	return nil
}

func (s *accountService) hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", invalid("password must be at least %d characters", minPasswordLength)
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(raw), nil
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := required("username", in.Username); err != nil {
		return nil, err
	}
	if err := required("email", in.Email); err != nil {
		return nil, err
	}
	if err := validEmail(in.Email); err != nil {
		return nil, err
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.accounts.CreateUser(ctx, &domain.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hashed,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	})
	if err != nil {
		return nil, storeErr("create user", err)
	}
	s.log.Info("User registered", "user_id", u.ID)
	return u, nil
}

func (s *accountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return getUser(ctx, s.accounts, id)
}

func getUser(ctx context.Context, accounts store.AccountStore, id string) (*domain.User, error) {
	u, err := accounts.GetUser(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user")
	}
	return u, nil
}

func (s *accountService) UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error) {
	patch := store.UserPatch{FirstName: in.FirstName, LastName: in.LastName}
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if err := required("username", v); err != nil {
			return nil, err
		}
		patch.Username = &v
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		if err := validEmail(v); err != nil {
			return nil, err
		}
		patch.Email = &v
	}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hashed
	}
	u, err := s.accounts.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update user", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user")
	}
	return u, nil
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.accounts.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeErr("get user by email", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	return u, nil
}
