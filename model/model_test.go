package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tryfi/query"
)

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNewUser(t *testing.T) {
	raw := query.UserPayload{ID: "payload-id", Email: "a@b.c", FirstName: "Ada", LastName: "Lovelace"}

	tests := []struct {
		name    string
		userID  string
		raw     query.UserPayload
		wantID  string
		wantErr bool
	}{
		{"login id wins", "login-id", raw, "login-id", false},
		{"falls back to payload id", "", raw, "payload-id", false},
		{"no id", "", query.UserPayload{Email: "a@b.c"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.userID, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, u.UserID)
			assert.Equal(t, "Ada Lovelace", u.FullName())
			assert.Contains(t, u.String(), "a@b.c")
		})
	}
}

func TestNewPet(t *testing.T) {
	t.Run("with device", func(t *testing.T) {
		raw := decode[query.PetPayload](t, `{"id":"p1","name":"Rex","gender":"MALE","weight":12.5,
			"breed":{"id":"b","name":"Beagle"},
			"photos":{"first":{"id":"ph","image":{"fullSize":"https://img/rex.jpg"}}},
			"device":{"id":"d1","moduleId":"m1","info":{"buildId":"1.2","batteryPercent":64,"isCharging":true},
				"operationParams":{"mode":"NORMAL","ledEnabled":true},
				"ledColor":{"ledColorCode":3,"hexCode":"#00ff00","name":"GREEN"},
				"lastConnectionState":{"__typename":"ConnectedToCellular","date":"2024-05-01T10:00:00Z","signalStrengthPercent":70},
				"availableLedColors":[{"name":"GREEN"},{"name":"BLUE"}]}}`)

		pet, err := NewPet(raw)
		require.NoError(t, err)
		assert.Equal(t, "p1", pet.PetID)
		assert.Equal(t, "Beagle", pet.Breed)
		assert.Equal(t, "https://img/rex.jpg", pet.PhotoLink)
		require.True(t, pet.HasDevice())
		assert.Equal(t, 64.0, pet.BatteryPercent())
		assert.True(t, pet.IsCharging())
		assert.Equal(t, "NORMAL", pet.Device.Mode)
		assert.Equal(t, "GREEN", pet.Device.LedColor)
		assert.Equal(t, "ConnectedToCellular", pet.Device.ConnectionState)
		assert.Equal(t, 70, pet.Device.SignalStrength)
		assert.Equal(t, []string{"GREEN", "BLUE"}, pet.Device.AvailableLedColors)
		assert.Contains(t, pet.String(), "Battery: 64%")
	})

	t.Run("without device", func(t *testing.T) {
		raw := decode[query.PetPayload](t, `{"id":"p2","name":"Mia","device":"None"}`)

		pet, err := NewPet(raw)
		require.NoError(t, err)
		assert.False(t, pet.HasDevice())
		assert.Zero(t, pet.BatteryPercent())
		assert.False(t, pet.IsCharging())
		assert.Contains(t, pet.String(), "Device: none")
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NewPet(query.PetPayload{Name: "Ghost"})
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("device without id", func(t *testing.T) {
		raw := decode[query.PetPayload](t, `{"id":"p3","device":{"moduleId":"m"}}`)
		_, err := NewPet(raw)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestSetCurrentLocation(t *testing.T) {
	pet := &Pet{PetID: "p1"}

	t.Run("rest", func(t *testing.T) {
		raw := decode[query.LocationPayload](t, `{"__typename":"OngoingRest","areaName":"Home",
			"start":"2024-05-01T10:00:00Z","position":{"latitude":1.5,"longitude":2.5},
			"place":{"id":"pl","name":"Home","address":"1 Main St"}}`)

		pet.SetCurrentLocation(raw)
		loc := pet.CurrentLocation
		require.NotNil(t, loc)
		assert.Equal(t, ActivityRest, loc.ActivityType)
		assert.True(t, loc.IsResting())
		assert.Equal(t, 1.5, loc.Latitude)
		assert.Equal(t, 2.5, loc.Longitude)
		assert.Equal(t, "1 Main St", loc.PlaceAddress)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), loc.StartTime.UTC())
	})

	t.Run("walk uses last position", func(t *testing.T) {
		raw := decode[query.LocationPayload](t, `{"__typename":"OngoingWalk","areaName":"Park",
			"positions":[{"position":{"latitude":1,"longitude":1}},{"position":{"latitude":3,"longitude":4}}]}`)

		pet.SetCurrentLocation(raw)
		loc := pet.CurrentLocation
		assert.Equal(t, ActivityWalk, loc.ActivityType)
		assert.False(t, loc.IsResting())
		assert.Equal(t, 3.0, loc.Latitude)
		assert.Equal(t, 4.0, loc.Longitude)
		assert.Empty(t, loc.PlaceName)
		assert.Contains(t, loc.String(), "Walk at Park")
	})

	t.Run("walk without positions", func(t *testing.T) {
		pet.SetCurrentLocation(query.LocationPayload{Typename: "OngoingWalk"})
		assert.Zero(t, pet.CurrentLocation.Latitude)
	})
}

func TestSetStats(t *testing.T) {
	pet := &Pet{PetID: "p1"}
	pet.SetStats(
		query.ActivitySummary{TotalSteps: 6000, StepGoal: 5000, TotalDistance: 4200},
		query.ActivitySummary{TotalSteps: 20000, StepGoal: 35000},
		query.ActivitySummary{TotalSteps: 90000, StepGoal: 150000},
	)

	assert.Equal(t, 6000, pet.ActivityStats.Daily.Steps)
	assert.Equal(t, 4200.0, pet.ActivityStats.Daily.Distance)
	assert.True(t, pet.ActivityStats.Daily.GoalReached())
	assert.False(t, pet.ActivityStats.Weekly.GoalReached())
	assert.Equal(t, 150000, pet.ActivityStats.Monthly.StepGoal)
}

func TestSetRestStats(t *testing.T) {
	daily := decode[query.RestSummaryFeed](t, `{"restSummaries":[
		{"data":{"sleepAmounts":[{"type":"SLEEP","duration":3600},{"type":"NAP","duration":600}]}},
		{"data":{"sleepAmounts":[{"type":"SLEEP","duration":99999}]}}]}`)
	weekly := decode[query.RestSummaryFeed](t, `{"restSummaries":[{"data":{"sleepAmounts":[{"type":"NAP","duration":120}]}}]}`)

	pet := &Pet{PetID: "p1"}
	pet.SetRestStats(daily, weekly, query.RestSummaryFeed{})

	assert.Equal(t, time.Hour, pet.RestStats.Daily.Sleep)
	assert.Equal(t, 10*time.Minute, pet.RestStats.Daily.Nap)
	assert.Equal(t, 70*time.Minute, pet.RestStats.Daily.Total())
	assert.Zero(t, pet.RestStats.Weekly.Sleep)
	assert.Equal(t, 2*time.Minute, pet.RestStats.Weekly.Nap)
	assert.Equal(t, RestSnapshot{}, pet.RestStats.Monthly)
}

func TestNewBase(t *testing.T) {
	raw := decode[query.BasePayload](t, `{"baseId":"b1","name":"Kitchen","online":true,
		"onlineQuality":{"chargingBase":"GOOD"},"networkName":"home-wifi",
		"position":{"latitude":1,"longitude":2},"infoLastUpdated":"2024-05-01T10:00:00Z"}`)

	base, err := NewBase(raw)
	require.NoError(t, err)
	assert.Equal(t, "b1", base.BaseID)
	assert.True(t, base.Online)
	assert.Equal(t, "GOOD", base.OnlineQuality)
	assert.Equal(t, "home-wifi", base.NetworkName)
	assert.Equal(t, 2.0, base.Longitude)
	assert.False(t, base.LastUpdated.IsZero())
	assert.Contains(t, base.String(), "Kitchen")

	_, err = NewBase(query.BasePayload{Name: "nameless"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
