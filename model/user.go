package model

import (
	"fmt"
	"strings"

	"github.com/s0up4200/tryfi/query"
)

// User is the account owner
type User struct {
	UserID      string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// NewUser maps the currentUser payload. The id negotiated at login wins over the
// payload id when both are set.
func NewUser(userID string, raw query.UserPayload) (*User, error) {
	if userID == "" {
		userID = raw.ID
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user has no id", ErrInvalidPayload)
	}

	return &User{
		UserID:      userID,
		Email:       raw.Email,
		FirstName:   raw.FirstName,
		LastName:    raw.LastName,
		PhoneNumber: raw.PhoneNumber,
	}, nil
}

// FullName joins the first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) String() string {
	return fmt.Sprintf("User ID: %s Name: %s Email: %s", u.UserID, u.FullName(), u.Email)
}
