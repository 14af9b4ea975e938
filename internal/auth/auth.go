// Package auth owns the user directory and the single active session.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"DemoShop/internal/model"
	"DemoShop/internal/storage"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("email and password required")
	ErrInvalidRole        = errors.New("invalid role")
)

const (
	DemoEmail    = "demo@demo.com"
	DemoPassword = "password"
	DemoName     = "Demo User"

	defaultName = "Customer"
)

type Manager struct {
	records   *storage.Records
	passwords Passwords
	log       *zap.Logger
}

func NewManager(records *storage.Records, passwords Passwords, log *zap.Logger) *Manager {
	if passwords == nil {
		passwords = plainPasswords{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{records: records, passwords: passwords, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnsureDemoUser seeds the directory with the demo customer when the
// users record has never been written.
func (m *Manager) EnsureDemoUser(ctx context.Context) error {
	return m.records.Atomic(func() error {
		ok, err := m.records.Exists(ctx, storage.KeyUsers)
		if err != nil || ok {
			return err
		}

		pw, err := m.passwords.Encode(DemoPassword)
		if err != nil {
			return err
		}
		m.log.Info("seeding demo user", zap.String("email", DemoEmail))
		return m.records.SetUsers(ctx, []model.User{{
			Email:    DemoEmail,
			Password: pw,
			Name:     DemoName,
			Role:     model.RoleCustomer,
		}})
	})
}

// Signup registers a user and logs them in. Empty name and role default
// to "Customer" and customer.
func (m *Manager) Signup(ctx context.Context, email, password, name string, role model.Role) (model.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.Session{}, ErrMissingCredentials
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return model.Session{}, ErrInvalidRole
	}

	var sess model.Session
	err := m.records.Atomic(func() error {
		users, err := m.records.Users(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			if normalizeEmail(u.Email) == email {
				return ErrDuplicateEmail
			}
		}

		pw, err := m.passwords.Encode(password)
		if err != nil {
			return err
		}
		users = append(users, model.User{Email: email, Password: pw, Name: name, Role: role})
		if err := m.records.SetUsers(ctx, users); err != nil {
			return err
		}

		sess = model.Session{Email: email, Name: name, Role: role}
		return m.records.SetSession(ctx, sess)
	})
	if err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// Login starts a session for the user whose email and password match.
// Anything else, blank input included, is ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.Session{}, ErrInvalidCredentials
	}

	var sess model.Session
	err := m.records.Atomic(func() error {
		users, err := m.records.Users(ctx)
		if err != nil {
			return err
		}

		for _, u := range users {
			if normalizeEmail(u.Email) != email || !m.passwords.Matches(u.Password, password) {
				continue
			}
			sess = model.Session{Email: u.Email, Name: u.Name, Role: u.Role}
			if sess.Name == "" {
				sess.Name = u.Email
			}
			return m.records.SetSession(ctx, sess)
		}
		return ErrInvalidCredentials
	})
	if err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.records.Atomic(func() error {
		return m.records.ClearSession(ctx)
	})
}

// CurrentUser reports the active session, if any.
func (m *Manager) CurrentUser(ctx context.Context) (model.Session, bool, error) {
	s, err := m.records.Session(ctx)
	if err != nil || s == nil {
		return model.Session{}, false, err
	}
	return *s, true, nil
}
