package tryfi

import (
	"context"

	"github.com/s0up4200/tryfi/model"
	"github.com/s0up4200/tryfi/query"
)

// Session defines the authenticated transport the client runs on.
// *session.Session satisfies it.
type Session interface {
	// Login authenticates with the account credentials
	Login(ctx context.Context, username, password string) error

	// ApplyDefaultHeaders sets the headers sent with every query
	ApplyDefaultHeaders() error

	// UserID returns the user id negotiated at login
	UserID() string

	query.Querier
}

// Formatter defines the interface for console output
type Formatter interface {
	FormatPetList(pets []*model.Pet, options FormatOptions) string
	FormatBaseList(bases []*model.Base, options FormatOptions) string
	FormatPet(pet *model.Pet) string
	FormatBase(base *model.Base) string
	FormatSummary(user *model.User, pets []*model.Pet, bases []*model.Base) string
}

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
}
