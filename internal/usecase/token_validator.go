package usecase

import (
	"barberbook/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator verifies access tokens for the HTTP layer without exposing
// the signing implementation.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, string, error)
}

type jwtTokenValidator struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &jwtTokenValidator{jwtService: jwtService}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, string, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.UserID, claims.Role, nil
}
