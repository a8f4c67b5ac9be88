package model

import (
	"fmt"
	"time"

	"github.com/s0up4200/tryfi/query"
)

// Device is the collar worn by a pet
type Device struct {
	DeviceID       string
	ModuleID       string
	BuildID        string
	BatteryPercent float64
	IsCharging     bool
	Mode           string
	LedEnabled     bool
	LedColor       string
	LedColorHex    string

	// ConnectionState is the typename of the last connection, e.g. ConnectedToCellular
	ConnectionState    string
	ConnectionDate     time.Time
	SignalStrength     int
	NextLocationUpdate time.Time
	AvailableLedColors []string
}

// NewDevice maps a collar payload
func NewDevice(raw query.DevicePayload) (*Device, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("%w: device has no id", ErrInvalidPayload)
	}

	d := &Device{
		DeviceID:       raw.ID,
		ModuleID:       raw.ModuleID,
		BuildID:        raw.Info.BuildID,
		BatteryPercent: raw.Info.BatteryPercent,
		IsCharging:     raw.Info.IsCharging,
	}
	if raw.OperationParams != nil {
		d.Mode = raw.OperationParams.Mode
		d.LedEnabled = raw.OperationParams.LedEnabled
	}
	if raw.LedColor != nil {
		d.LedColor = raw.LedColor.Name
		d.LedColorHex = raw.LedColor.HexCode
	}
	if state := raw.LastConnectionState; state != nil {
		d.ConnectionState = state.Typename
		if state.Date != nil {
			d.ConnectionDate = *state.Date
		}
		if state.SignalStrengthPercent != nil {
			d.SignalStrength = *state.SignalStrengthPercent
		}
	}
	if raw.NextLocationUpdateExpectedBy != nil {
		d.NextLocationUpdate = *raw.NextLocationUpdateExpectedBy
	}
	for _, c := range raw.AvailableLedColors {
		d.AvailableLedColors = append(d.AvailableLedColors, c.Name)
	}

	return d, nil
}

func (d *Device) String() string {
	return fmt.Sprintf("Device ID: %s Battery: %.0f%% Charging: %t Mode: %s", d.DeviceID, d.BatteryPercent, d.IsCharging, d.Mode)
}
