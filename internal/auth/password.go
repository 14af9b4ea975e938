package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashingPlain  = "plain"
	HashingBcrypt = "bcrypt"
)

// Passwords turns a password into its stored form and checks a candidate
// against it.
type Passwords interface {
	Encode(password string) (string, error)
	Matches(stored, candidate string) bool
}

func NewPasswords(mode string, bcryptCost int) (Passwords, error) {
	switch mode {
	case "", HashingPlain:
		return plainPasswords{}, nil
	case HashingBcrypt:
		if bcryptCost == 0 {
			bcryptCost = bcrypt.DefaultCost
		}
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
		return bcryptPasswords{cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing %q", mode)
	}
}

// plainPasswords stores the password as entered.
type plainPasswords struct{}

func (plainPasswords) Encode(p string) (string, error) { return p, nil }

func (plainPasswords) Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

type bcryptPasswords struct {
	cost int
}

func (b bcryptPasswords) Encode(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (bcryptPasswords) Matches(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}
