package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/jwt"
)

type AuthService struct {
	accounts    *AccountService
	accountRepo AccountStore
	cfg         *config.Config
}

func NewAuthService(accounts *AccountService, accountRepo AccountStore, cfg *config.Config) *AuthService {
	return &AuthService{
		accounts:    accounts,
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

// Register creates a standard account on a fresh trial.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.Create(ctx, req.Email, string(hashedPassword), entitlement.RoleStandard)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		AccountID: account.ID.String(),
	}, nil
}

// Login checks the password and issues a token. Suspended accounts may still
// log in; tool access is refused separately.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if account.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(account.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Account:   dto.NewAccountInfo(account),
	}, nil
}
