package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/tryfi/query"
)

// Pet is a tracked pet with its collar, current location and stat snapshots
type Pet struct {
	PetID         string
	Name          string
	HomeCityState string
	YearOfBirth   int
	MonthOfBirth  int
	DayOfBirth    int
	Gender        string
	Breed         string
	Weight        float64
	PhotoLink     string

	// Device is nil for a pet without a collar
	Device          *Device
	CurrentLocation *Location
	ActivityStats   ActivityStats
	RestStats       RestStats

	// LastUpdated is the last report time of the current location
	LastUpdated time.Time
}

// NewPet maps a pet profile. A pet without a collar maps with a nil Device;
// whether to keep it is up to the caller.
func NewPet(raw query.PetPayload) (*Pet, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("%w: pet %q has no id", ErrInvalidPayload, raw.Name)
	}

	p := &Pet{
		PetID:         raw.ID,
		Name:          raw.Name,
		HomeCityState: raw.HomeCityState,
		YearOfBirth:   raw.YearOfBirth,
		MonthOfBirth:  raw.MonthOfBirth,
		DayOfBirth:    raw.DayOfBirth,
		Gender:        raw.Gender,
		Weight:        raw.Weight,
	}
	if raw.Breed != nil {
		p.Breed = raw.Breed.Name
	}
	if raw.Photos != nil && raw.Photos.First != nil {
		p.PhotoLink = raw.Photos.First.Image.FullSize
	}

	if raw.Device.Present() {
		device, err := NewDevice(*raw.Device.Device)
		if err != nil {
			return nil, fmt.Errorf("pet %s: %w", raw.ID, err)
		}
		p.Device = device
	}

	return p, nil
}

// HasDevice reports whether the pet wears a collar
func (p *Pet) HasDevice() bool {
	return p.Device != nil
}

// BatteryPercent returns the collar battery level, 0 without a collar
func (p *Pet) BatteryPercent() float64 {
	if p.Device == nil {
		return 0
	}
	return p.Device.BatteryPercent
}

// IsCharging reports whether the collar sits on a base
func (p *Pet) IsCharging() bool {
	return p.Device != nil && p.Device.IsCharging
}

// SetCurrentLocation replaces the current location with the ongoing activity
func (p *Pet) SetCurrentLocation(raw query.LocationPayload) {
	p.CurrentLocation = NewLocation(raw)
	p.LastUpdated = p.CurrentLocation.LastReport
	if p.LastUpdated.IsZero() {
		p.LastUpdated = p.CurrentLocation.StartTime
	}
}

// SetStats replaces the activity snapshots
func (p *Pet) SetStats(daily, weekly, monthly query.ActivitySummary) {
	p.ActivityStats = ActivityStats{
		Daily:   newActivitySnapshot(daily),
		Weekly:  newActivitySnapshot(weekly),
		Monthly: newActivitySnapshot(monthly),
	}
}

// SetRestStats replaces the rest snapshots
func (p *Pet) SetRestStats(daily, weekly, monthly query.RestSummaryFeed) {
	p.RestStats = RestStats{
		Daily:   newRestSnapshot(daily),
		Weekly:  newRestSnapshot(weekly),
		Monthly: newRestSnapshot(monthly),
	}
}

func (p *Pet) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pet ID: %s Name: %s", p.PetID, p.Name)
	if p.Device != nil {
		fmt.Fprintf(&sb, " Device: %s Battery: %.0f%%", p.Device.DeviceID, p.Device.BatteryPercent)
	} else {
		sb.WriteString(" Device: none")
	}
	if p.CurrentLocation != nil {
		fmt.Fprintf(&sb, " Location: %s", p.CurrentLocation)
	}
	fmt.Fprintf(&sb, " Steps today: %d/%d", p.ActivityStats.Daily.Steps, p.ActivityStats.Daily.StepGoal)
	return sb.String()
}

// ActivityType is the kind of the ongoing activity of a pet
type ActivityType string

const (
	ActivityRest ActivityType = "Rest"
	ActivityWalk ActivityType = "Walk"
)

// Location is where a pet is and what it is doing
type Location struct {
	ActivityType ActivityType
	AreaName     string
	Latitude     float64
	Longitude    float64
	StartTime    time.Time
	LastReport   time.Time
	PlaceName    string
	PlaceAddress string
}

// NewLocation maps the ongoing activity of a pet. A rest carries its position and
// place; a walk is located at its last reported position.
func NewLocation(raw query.LocationPayload) *Location {
	loc := &Location{
		ActivityType: activityType(raw.Typename),
		AreaName:     raw.AreaName,
	}
	if raw.Start != nil {
		loc.StartTime = *raw.Start
	}
	if raw.LastReportTimestamp != nil {
		loc.LastReport = *raw.LastReportTimestamp
	}

	switch loc.ActivityType {
	case ActivityWalk:
		if n := len(raw.Positions); n > 0 {
			last := raw.Positions[n-1]
			loc.Latitude = last.Position.Latitude
			loc.Longitude = last.Position.Longitude
		}
	default:
		if raw.Position != nil {
			loc.Latitude = raw.Position.Latitude
			loc.Longitude = raw.Position.Longitude
		}
		if raw.Place != nil {
			loc.PlaceName = raw.Place.Name
			loc.PlaceAddress = raw.Place.Address
		}
	}

	return loc
}

func activityType(typename string) ActivityType {
	switch typename {
	case "OngoingRest", "Rest":
		return ActivityRest
	case "OngoingWalk", "Walk":
		return ActivityWalk
	default:
		return ActivityType(strings.TrimPrefix(typename, "Ongoing"))
	}
}

// IsResting reports whether the pet is resting
func (l *Location) IsResting() bool {
	return l.ActivityType == ActivityRest
}

func (l *Location) String() string {
	where := l.AreaName
	if l.PlaceName != "" {
		where = l.PlaceName
	}
	return fmt.Sprintf("%s at %s (%.5f, %.5f)", l.ActivityType, where, l.Latitude, l.Longitude)
}

// ActivityStats are the step snapshots of a pet
type ActivityStats struct {
	Daily   ActivitySnapshot
	Weekly  ActivitySnapshot
	Monthly ActivitySnapshot
}

// ActivitySnapshot aggregates steps over one period
type ActivitySnapshot struct {
	Steps    int
	StepGoal int
	// Distance in meters
	Distance float64
}

func newActivitySnapshot(raw query.ActivitySummary) ActivitySnapshot {
	return ActivitySnapshot{
		Steps:    raw.TotalSteps,
		StepGoal: raw.StepGoal,
		Distance: raw.TotalDistance,
	}
}

// GoalReached reports whether the step goal of the period is met
func (s ActivitySnapshot) GoalReached() bool {
	return s.StepGoal > 0 && s.Steps >= s.StepGoal
}

// RestStats are the sleep snapshots of a pet
type RestStats struct {
	Daily   RestSnapshot
	Weekly  RestSnapshot
	Monthly RestSnapshot
}

// RestSnapshot aggregates sleep over one period
type RestSnapshot struct {
	Sleep time.Duration
	Nap   time.Duration
}

func newRestSnapshot(raw query.RestSummaryFeed) RestSnapshot {
	var snap RestSnapshot
	if len(raw.RestSummaries) == 0 {
		return snap
	}

	for _, amount := range raw.RestSummaries[0].Data.SleepAmounts {
		d := time.Duration(amount.Duration) * time.Second
		if strings.EqualFold(amount.Type, "SLEEP") {
			snap.Sleep = d
		} else {
			snap.Nap = d
		}
	}
	return snap
}

// Total returns sleep plus naps
func (s RestSnapshot) Total() time.Duration {
	return s.Sleep + s.Nap
}
