package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTooShort   = errors.New("username must be at least 2 characters long")
	ErrUsernameTooLong    = errors.New("username is too long (max 50 chars)")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrAdminRequired      = errors.New("admin privileges required")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
)

const (
	MinUsernameLen = 2
	MaxUsernameLen = 50
	MinPasswordLen = 6
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, username string, isAdmin bool) (*User, error) {
	username = strings.TrimSpace(username)

	if utf8.RuneCountInString(username) < MinUsernameLen {
		return nil, ErrUsernameTooShort
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Username:  username,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}
