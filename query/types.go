package query

import (
	"bytes"
	"encoding/json"
	"time"
)

// UserPayload is the currentUser object
type UserPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// HouseholdEntry is one element of currentUser.userHouseholds
type HouseholdEntry struct {
	Household Household `json:"household"`
}

// Household owns the pets and bases of an account
type Household struct {
	Pets  []PetPayload  `json:"pets"`
	Bases []BasePayload `json:"bases"`
}

// PetPayload is a pet profile
type PetPayload struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	HomeCityState string         `json:"homeCityState"`
	YearOfBirth   int            `json:"yearOfBirth"`
	MonthOfBirth  int            `json:"monthOfBirth"`
	DayOfBirth    int            `json:"dayOfBirth"`
	Gender        string         `json:"gender"`
	Weight        float64        `json:"weight"`
	Breed         *Breed         `json:"breed"`
	Photos        *Photos        `json:"photos"`
	Device        OptionalDevice `json:"device"`
}

// Breed of a pet
type Breed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Photos of a pet; only the first one is used
type Photos struct {
	First *Photo `json:"first"`
}

// Photo references an uploaded image
type Photo struct {
	ID    string `json:"id"`
	Image struct {
		FullSize string `json:"fullSize"`
	} `json:"image"`
}

// OptionalDevice decodes the device field of a pet. The API reports a pet without a
// collar as null or as the string "None"; any other string is a bare device id.
type OptionalDevice struct {
	Device *DevicePayload
}

// Present reports whether the pet wears a collar
func (o OptionalDevice) Present() bool {
	return o.Device != nil
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalDevice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		o.Device = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == "None" {
			o.Device = nil
			return nil
		}
		o.Device = &DevicePayload{ID: s}
		return nil
	}

	var device DevicePayload
	if err := json.Unmarshal(data, &device); err != nil {
		return err
	}
	o.Device = &device
	return nil
}

// MarshalJSON implements json.Marshaler
func (o OptionalDevice) MarshalJSON() ([]byte, error) {
	if o.Device == nil {
		return []byte(`"None"`), nil
	}
	return json.Marshal(o.Device)
}

// DevicePayload is a collar
type DevicePayload struct {
	ID                           string           `json:"id"`
	ModuleID                     string           `json:"moduleId"`
	Info                         DeviceInfo       `json:"info"`
	OperationParams              *OperationParams `json:"operationParams"`
	LedColor                     *LedColor        `json:"ledColor"`
	LastConnectionState          *ConnectionState `json:"lastConnectionState"`
	NextLocationUpdateExpectedBy *time.Time       `json:"nextLocationUpdateExpectedBy"`
	AvailableLedColors           []LedColor       `json:"availableLedColors"`
}

// DeviceInfo is the free-form info object of a collar
type DeviceInfo struct {
	BuildID        string  `json:"buildId"`
	BatteryPercent float64 `json:"batteryPercent"`
	IsCharging     bool    `json:"isCharging"`
}

// OperationParams are the collar settings
type OperationParams struct {
	Mode       string     `json:"mode"`
	LedEnabled bool       `json:"ledEnabled"`
	LedOffAt   *time.Time `json:"ledOffAt"`
}

// LedColor of a collar
type LedColor struct {
	LedColorCode int    `json:"ledColorCode"`
	HexCode      string `json:"hexCode"`
	Name         string `json:"name"`
}

// ConnectionState describes how the collar last reported in
type ConnectionState struct {
	Typename              string     `json:"__typename"`
	Date                  *time.Time `json:"date"`
	SignalStrengthPercent *int       `json:"signalStrengthPercent,omitempty"`
}

// BasePayload is a base station
type BasePayload struct {
	BaseID          string         `json:"baseId"`
	Name            string         `json:"name"`
	Online          bool           `json:"online"`
	OnlineQuality   *OnlineQuality `json:"onlineQuality"`
	InfoLastUpdated *time.Time     `json:"infoLastUpdated"`
	NetworkName     string         `json:"networkName"`
	Position        *Position      `json:"position"`
}

// OnlineQuality of a base
type OnlineQuality struct {
	ChargingBase string `json:"chargingBase"`
}

// Position is a coordinate pair
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationPayload is the ongoing activity of a pet: a Rest at a place or a Walk
type LocationPayload struct {
	Typename            string           `json:"__typename"`
	AreaName            string           `json:"areaName"`
	Start               *time.Time       `json:"start"`
	LastReportTimestamp *time.Time       `json:"lastReportTimestamp"`
	Position            *Position        `json:"position"`
	Place               *Place           `json:"place"`
	Positions           []PositionReport `json:"positions"`
}

// Place is a named location
type Place struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PositionReport is one point of a walk
type PositionReport struct {
	Date     *time.Time `json:"date"`
	Position Position   `json:"position"`
}

// ActivityStatsPayload holds the activity summaries of a pet
type ActivityStatsPayload struct {
	DailyStat   ActivitySummary `json:"dailyStat"`
	WeeklyStat  ActivitySummary `json:"weeklyStat"`
	MonthlyStat ActivitySummary `json:"monthlyStat"`
}

// ActivitySummary aggregates steps over a period
type ActivitySummary struct {
	Start         *time.Time `json:"start"`
	End           *time.Time `json:"end"`
	TotalSteps    int        `json:"totalSteps"`
	StepGoal      int        `json:"stepGoal"`
	TotalDistance float64    `json:"totalDistance"`
}

// RestStatsPayload holds the rest summaries of a pet
type RestStatsPayload struct {
	DailyStat   RestSummaryFeed `json:"dailyStat"`
	WeeklyStat  RestSummaryFeed `json:"weeklyStat"`
	MonthlyStat RestSummaryFeed `json:"monthlyStat"`
}

// RestSummaryFeed is a page of rest summaries; the first entry is the current period
type RestSummaryFeed struct {
	Cursor        string        `json:"cursor"`
	RestSummaries []RestSummary `json:"restSummaries"`
}

// RestSummary aggregates sleep over a period
type RestSummary struct {
	Start *time.Time      `json:"start"`
	End   *time.Time      `json:"end"`
	Data  RestSummaryData `json:"data"`
}

// RestSummaryData lists the sleep amounts by type
type RestSummaryData struct {
	SleepAmounts []SleepAmount `json:"sleepAmounts"`
}

// SleepAmount is the duration in seconds of one sleep type (SLEEP or NAP)
type SleepAmount struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}
