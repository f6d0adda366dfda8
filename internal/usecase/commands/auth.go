package commands

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"qrcard/internal/domain/operator"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/pkg/jwt"
	"qrcard/internal/pkg/password"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	Role        operator.Role
}

type AuthCommands interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// OperatorAccount is the single configured operator.
type OperatorAccount struct {
	Username     string
	PasswordHash string
}

type authCommandsImpl struct {
	account    OperatorAccount
	jwtService *jwt.Service
}

func NewAuthCommands(account OperatorAccount, jwtService *jwt.Service) AuthCommands {
	if account.PasswordHash != "" {
		if _, err := password.CheckHash(account.PasswordHash); err != nil {
			slog.Warn("OPERATOR_PASSWORD_HASH is not a bcrypt hash; every login will fail", "error", err)
		}
	}
	return &authCommandsImpl{
		account:    account,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(_ context.Context, username, pw string) (*LoginResult, error) {
	credentials, err := operator.NewCredentials(username, pw)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	if a.account.PasswordHash == "" {
		slog.Warn("operator login attempted without a configured password hash")
		return nil, ErrInvalidCredentials
	}

	userMatch := subtle.ConstantTimeCompare([]byte(credentials.Username()), []byte(a.account.Username)) == 1
	pwErr := password.ComparePassword(a.account.PasswordHash, credentials.Password())
	if !userMatch || pwErr != nil {
		slog.Info("operator login rejected", "username", credentials.Username())
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(credentials.Username(), operator.RoleOperator)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	slog.Info("operator logged in", "username", credentials.Username())
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   a.jwtService.TokenDuration(),
		Role:        operator.RoleOperator,
	}, nil
}
