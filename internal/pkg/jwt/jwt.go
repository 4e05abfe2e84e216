package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/config"
	"github.com/golang-jwt/jwt/v4"
)

type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return "invalid token: " + e.Reason
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManger() *Manager {
	return &Manager{
		secret: []byte(config.Secret()),
		ttl:    config.JwtTTL(),
	}
}

func (m *Manager) CreateToken(id int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(id, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

func (m *Manager) GetIdFromToken(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &InvalidTokenError{Reason: fmt.Sprintf("unexpected signing method %v", t.Header["alg"])}
		}
		return m.secret, nil
	})
	if err != nil {
		invalidTokenErr := &InvalidTokenError{}
		if errors.As(err, &invalidTokenErr) {
			return 0, err
		}
		return 0, &InvalidTokenError{Reason: err.Error()}
	}

	if !parsed.Valid {
		return 0, &InvalidTokenError{Reason: "token is not valid"}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, &InvalidTokenError{Reason: "subject is not an id"}
	}

	return id, nil
}
