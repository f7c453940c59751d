package domain

import (
	"time"
)

// Reading is one telemetry sample reported by the iris controller.
// The JSON tags are the device's wire format; ID and Timestamp are
// service bookkeeping and never travel on the wire.
type Reading struct {
	ID        int64     `json:"-"`
	Timestamp time.Time `json:"-"`

	Lux                  float64 `json:"lux"`
	SmoothedLux          float64 `json:"smoothedLux"`
	LuxChange            float64 `json:"luxChange"`
	AdjustedSpeed        float64 `json:"adjustedSpeed"`
	AdjustedAcceleration float64 `json:"adjustedAcceleration"`
	TargetPosition       int     `json:"targetPosition"`
	CurrentPosition      int     `json:"currentPosition"`
}

// NewReading stamps a copy of r with the current time.
func NewReading(r Reading) *Reading {
	r.ID = 0
	r.Timestamp = time.Now()
	return &r
}

// Validate rejects readings no controller could have produced.
// Fetched readings are never validated; this guards manual input.
func (r Reading) Validate() error {
	if r.Lux < 0 || r.SmoothedLux < 0 {
		return ErrInvalidReading
	}
	if r.TargetPosition < 0 || r.CurrentPosition < 0 {
		return ErrInvalidReading
	}
	return nil
}

// IsLowLight returns true below 200 lux
func (r Reading) IsLowLight() bool {
	return r.Lux < 200
}

// IsMediumLight returns true for 200-2500 lux
func (r Reading) IsMediumLight() bool {
	return r.Lux >= 200 && r.Lux < 2500
}

// IsHighLight returns true at or above 2500 lux
func (r Reading) IsHighLight() bool {
	return r.Lux >= 2500
}

// LightCategory returns human-readable category
func (r Reading) LightCategory() string {
	if r.IsLowLight() {
		return "Low Light"
	} else if r.IsMediumLight() {
		return "Medium Light"
	}
	return "High Light"
}

// IsMoving reports whether the iris has not yet reached its target.
func (r Reading) IsMoving() bool {
	return r.TargetPosition != r.CurrentPosition
}
