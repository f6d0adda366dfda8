package usecase

import (
	"qrcard/internal/domain/operator"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/pkg/jwt"
)

// TokenValidator turns a bearer token into the operator identity it carries.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, operator.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

// ValidateToken fails with jwt.ErrInvalidToken when the signature checks out
// but the claims do not name a subject and a known role.
func (t *tokenValidatorImpl) ValidateToken(tokenString string) (string, operator.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Subject == "" {
		return "", "", jwt.ErrInvalidToken
	}
	role, err := operator.NewRole(claims.Role)
	if err != nil {
		return "", "", errs.Mark(err, jwt.ErrInvalidToken)
	}
	return claims.Subject, role, nil
}
