package user

import (
	"context"
	"strings"
	"time"

	"staybook/internal/domain/shared/fault"
)

var (
	ErrIDRequired          = fault.New(fault.KindValidation, "user: id is required")
	ErrEmailRequired       = fault.New(fault.KindValidation, "user: email is required")
	ErrPasswordHashMissing = fault.New(fault.KindValidation, "user: password hash is required")
	ErrNameRequired        = fault.New(fault.KindValidation, "user: name is required")
	ErrEmailAlreadyUsed    = fault.New(fault.KindConflict, "user: email already used")
	ErrNotFound            = fault.New(fault.KindNotFound, "user: not found")
)

type ID string

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
)

type User struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	Phone        string
	Address      string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	Phone        string
	Address      string
	Host         bool
	CreatedAt    time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	roles := []Role{RoleGuest}
	if params.Host {
		roles = append(roles, RoleHost)
	}

	return &User{
		ID:           ID(id),
		Email:        email,
		Name:         name,
		PasswordHash: params.PasswordHash,
		Phone:        strings.TrimSpace(params.Phone),
		Address:      strings.TrimSpace(params.Address),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsHost() bool { return u.HasRole(RoleHost) }

func (u *User) HasRole(role Role) bool {
	for _, current := range u.Roles {
		if current == role {
			return true
		}
	}
	return false
}

// BecomeHost grants the host role; publishing a first listing promotes a guest.
func (u *User) BecomeHost(now time.Time) {
	if u.HasRole(RoleHost) {
		return
	}
	u.Roles = append(u.Roles, RoleHost)
	u.touch(now)
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
