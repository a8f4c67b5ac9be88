package model

import (
	"fmt"
	"time"

	"github.com/s0up4200/tryfi/query"
)

// Base is a charging base station
type Base struct {
	BaseID        string
	Name          string
	Online        bool
	OnlineQuality string
	NetworkName   string
	Latitude      float64
	Longitude     float64
	LastUpdated   time.Time
}

// NewBase maps a base payload
func NewBase(raw query.BasePayload) (*Base, error) {
	if raw.BaseID == "" {
		return nil, fmt.Errorf("%w: base %q has no id", ErrInvalidPayload, raw.Name)
	}

	b := &Base{
		BaseID:      raw.BaseID,
		Name:        raw.Name,
		Online:      raw.Online,
		NetworkName: raw.NetworkName,
	}
	if raw.OnlineQuality != nil {
		b.OnlineQuality = raw.OnlineQuality.ChargingBase
	}
	if raw.Position != nil {
		b.Latitude = raw.Position.Latitude
		b.Longitude = raw.Position.Longitude
	}
	if raw.InfoLastUpdated != nil {
		b.LastUpdated = *raw.InfoLastUpdated
	}

	return b, nil
}

func (b *Base) String() string {
	return fmt.Sprintf("Base ID: %s Name: %s Online: %t Quality: %s", b.BaseID, b.Name, b.Online, b.OnlineQuality)
}
