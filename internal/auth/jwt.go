package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"DemoShop/internal/model"
)

type TokenMaker struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		issuer: "demoshop-auth",
		ttl:    ttl,
		now:    time.Now,
	}
}

type Claims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) Session() model.Session {
	return model.Session{Email: c.Email, Name: c.Name, Role: c.Role}
}

func (t *TokenMaker) New(s model.Session) (string, error) {
	now := t.now()

	claims := Claims{
		Email: s.Email,
		Name:  s.Name,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Email,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenMaker) Parse(tokenStr string) (Claims, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithTimeFunc(t.now))
	if err != nil || token == nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if c.Email == "" || !c.Role.Valid() {
		return Claims{}, errors.New("invalid claims")
	}

	return c, nil
}
