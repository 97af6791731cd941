// Package auth verifies packer credentials against the users table.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/promodeagro/packer-cli/store"
)

// ErrBadCredentials is returned for an unknown email or a wrong password.
// The two cases are deliberately indistinguishable to the caller.
var ErrBadCredentials = errors.New("packer: invalid email or password")

// User is a decoded users-table record.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Raw          store.Record
}

// DisplayName returns the friendliest non-empty identifier.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// Service authenticates users and manages their password hashes.
type Service struct {
	store  store.Adapter
	config store.Config
}

// NewService creates an auth service over the given adapter.
func NewService(adapter store.Adapter, config store.Config) *Service {
	return &Service{
		store:  adapter,
		config: config,
	}
}

// Login verifies email and password, returning the matching user.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	u, err := s.ByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if u.PasswordHash == "" {
		return User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

// ByEmail looks a user up through the email index.
func (s *Service) ByEmail(ctx context.Context, email string) (User, error) {
	page, err := s.store.QueryByIndex(ctx, store.QueryInput{
		Table:    s.config.UsersTable,
		Index:    s.config.EmailIndex,
		KeyAttr:  "email",
		KeyValue: email,
		Limit:    1,
	})
	if err != nil {
		return User{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if len(page.Records) == 0 {
		return User{}, store.ErrNotFound
	}
	return decodeUser(page.Records[0]), nil
}

// SetPassword hashes password with bcrypt and stores it on the user
// record found by email. This is the admin path for provisioning packer
// credentials.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	u, err := s.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.ID == "" {
		return fmt.Errorf("packer: user %s record missing id", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, s.config.UsersTable, store.PK{"id": store.S(u.ID)}, store.Patch{
		Set: store.Record{"passwordHash": store.S(string(hash))},
	})
}

func decodeUser(rec store.Record) User {
	hash := rec.String("passwordHash")
	if hash == "" {
		// Older records used snake_case.
		hash = rec.String("password_hash")
	}
	return User{
		ID:           rec.String("id"),
		Email:        rec.String("email"),
		Username:     rec.String("username"),
		PasswordHash: hash,
		Raw:          rec,
	}
}
