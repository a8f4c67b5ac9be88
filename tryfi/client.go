package tryfi

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/tryfi/model"
	"github.com/s0up4200/tryfi/query"
	"github.com/s0up4200/tryfi/report"
	"github.com/s0up4200/tryfi/session"
)

// Client is an authenticated, populated view of a TryFi account.
// It is not safe for concurrent use.
type Client struct {
	session       Session
	reporter      report.Reporter
	logger        zerolog.Logger
	username      string
	strictRefresh bool

	user  *model.User
	pets  []*model.Pet
	bases []*model.Base
}

// New logs in and loads the user, the pets wearing a device and the bases.
// Any failure aborts construction.
func New(ctx context.Context, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sess := o.session
	if sess == nil {
		sessionOpts := append([]session.Option{session.WithReporter(o.reporter)}, o.sessionOpts...)
		s, err := session.New(logger, sessionOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		sess = s
	}

	c := &Client{
		session:       sess,
		reporter:      o.reporter,
		logger:        logger,
		username:      username,
		strictRefresh: o.strictRefresh,
	}

	// login failures are reported by the session
	if err := sess.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if err := sess.ApplyDefaultHeaders(); err != nil {
		return nil, fmt.Errorf("failed to apply default headers: %w", err)
	}

	if err := c.populate(ctx); err != nil {
		c.reporter.CaptureException(err)
		return nil, err
	}

	c.logger.Info().
		Str("user_id", c.user.UserID).
		Int("pets", len(c.pets)).
		Int("bases", len(c.bases)).
		Msg("TryFi client initialized")
	return c, nil
}

func (c *Client) populate(ctx context.Context) error {
	raw, err := query.GetCurrentUser(ctx, c.session)
	if err != nil {
		return err
	}
	user, err := model.NewUser(c.session.UserID(), *raw)
	if err != nil {
		return fmt.Errorf("failed to map current user: %w", err)
	}

	pets, err := c.fetchPets(ctx, true)
	if err != nil {
		return err
	}

	bases, err := c.fetchBases(ctx)
	if err != nil {
		return err
	}

	c.user = user
	c.pets = pets
	c.bases = bases
	return nil
}

// fetchPets builds every pet of every household in server order. Each pet gets its
// location, activity stats and rest stats fetched in that order before the next pet.
func (c *Client) fetchPets(ctx context.Context, requireDevice bool) ([]*model.Pet, error) {
	households, err := query.GetPetList(ctx, c.session)
	if err != nil {
		return nil, err
	}

	pets := make([]*model.Pet, 0)
	for _, household := range households {
		for _, raw := range household.Household.Pets {
			if requireDevice && !raw.Device.Present() {
				c.logger.Warn().
					Str("pet_id", raw.ID).
					Str("pet_name", raw.Name).
					Msg("Skipping pet without a device")
				continue
			}

			pet, err := c.buildPet(ctx, raw)
			if err != nil {
				return nil, err
			}
			pets = append(pets, pet)
		}
	}

	c.logger.Debug().Msgf("Retrieved %d pets from TryFi", len(pets))
	return pets, nil
}

func (c *Client) buildPet(ctx context.Context, raw query.PetPayload) (*model.Pet, error) {
	pet, err := model.NewPet(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to map pet: %w", err)
	}

	location, err := query.GetCurrentPetLocation(ctx, c.session, pet.PetID)
	if err != nil {
		return nil, err
	}
	pet.SetCurrentLocation(*location)

	stats, err := query.GetCurrentPetStats(ctx, c.session, pet.PetID)
	if err != nil {
		return nil, err
	}
	pet.SetStats(stats.DailyStat, stats.WeeklyStat, stats.MonthlyStat)

	rest, err := query.GetCurrentPetRestStats(ctx, c.session, pet.PetID)
	if err != nil {
		return nil, err
	}
	pet.SetRestStats(rest.DailyStat, rest.WeeklyStat, rest.MonthlyStat)

	return pet, nil
}

func (c *Client) fetchBases(ctx context.Context) ([]*model.Base, error) {
	households, err := query.GetBaseList(ctx, c.session)
	if err != nil {
		return nil, err
	}

	bases := make([]*model.Base, 0)
	for _, household := range households {
		for _, raw := range household.Household.Bases {
			base, err := model.NewBase(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to map base: %w", err)
			}
			bases = append(bases, base)
		}
	}

	c.logger.Debug().Msgf("Retrieved %d bases from TryFi", len(bases))
	return bases, nil
}

// UpdatePets rebuilds the pet collection. Pets without a device are kept unless the
// client was created WithStrictRefresh. The previous collection survives a failure.
func (c *Client) UpdatePets(ctx context.Context) error {
	pets, err := c.fetchPets(ctx, c.strictRefresh)
	if err != nil {
		c.reporter.CaptureException(err)
		return fmt.Errorf("failed to update pets: %w", err)
	}

	c.pets = pets
	return nil
}

// UpdateBases rebuilds the base collection. The previous collection survives a failure.
func (c *Client) UpdateBases(ctx context.Context) error {
	bases, err := c.fetchBases(ctx)
	if err != nil {
		c.reporter.CaptureException(err)
		return fmt.Errorf("failed to update bases: %w", err)
	}

	c.bases = bases
	return nil
}

// Update refreshes the bases, then the pets.
func (c *Client) Update(ctx context.Context) error {
	if err := c.UpdateBases(ctx); err != nil {
		return err
	}
	return c.UpdatePets(ctx)
}

// UpdatePetObject replaces the pet with the same id in place. It reports whether a
// pet was replaced; an unknown pet leaves the collection unchanged.
func (c *Client) UpdatePetObject(pet *model.Pet) bool {
	if pet == nil {
		return false
	}

	for i, p := range c.pets {
		if p.PetID == pet.PetID {
			c.pets[i] = pet
			return true
		}
	}
	return false
}

// GetPet returns the pet with the given id, or nil.
func (c *Client) GetPet(petID string) *model.Pet {
	for _, p := range c.pets {
		if p.PetID == petID {
			return p
		}
	}

	c.logger.Error().Str("pet_id", petID).Msg("Pet not found")
	return nil
}

// GetBase returns the base with the given id, or nil.
func (c *Client) GetBase(baseID string) *model.Base {
	for _, b := range c.bases {
		if b.BaseID == baseID {
			return b
		}
	}

	c.logger.Error().Str("base_id", baseID).Msg("Base not found")
	return nil
}

// CurrentUser returns the logged-in user
func (c *Client) CurrentUser() *model.User {
	return c.user
}

// Pets returns the pets in server order
func (c *Client) Pets() []*model.Pet {
	return append([]*model.Pet(nil), c.pets...)
}

// Bases returns the bases in server order
func (c *Client) Bases() []*model.Base {
	return append([]*model.Base(nil), c.bases...)
}

// Username returns the login of the account
func (c *Client) Username() string {
	return c.username
}

func (c *Client) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TryFi Instance - Username: %s Pets: %d Bases: %d", c.username, len(c.pets), len(c.bases))
	if c.user != nil {
		fmt.Fprintf(&sb, "\n%s", c.user)
	}
	for _, p := range c.pets {
		fmt.Fprintf(&sb, "\n%s", p)
	}
	for _, b := range c.bases {
		fmt.Fprintf(&sb, "\n%s", b)
	}
	return sb.String()
}
