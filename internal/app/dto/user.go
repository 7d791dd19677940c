package dto

import (
	"time"

	domainuser "staybook/internal/domain/user"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone_number,omitempty"`
	Address   string    `json:"address,omitempty"`
	Host      bool      `json:"is_host"`
	CreatedAt time.Time `json:"created_at"`
}

func MapUser(u *domainuser.User) User {
	return User{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Host:      u.IsHost(),
		CreatedAt: u.CreatedAt,
	}
}
