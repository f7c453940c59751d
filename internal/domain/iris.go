package domain

import (
	"math"
	"time"
)

// Iris geometry and control limits of the 28BYJ-48 driven iris.
const (
	StepsPerRevolution = 4096
	MinIrisPosition    = 0
	MaxIrisPosition    = StepsPerRevolution / 4

	LuxThresholdClose = 1.0
	LuxThresholdOpen  = 10000.0

	alphaMin = 0.5
	alphaMax = 1.0

	MinSpeed        = 200.0
	MaxSpeed        = 500.0
	MinAcceleration = 100.0
	MaxAcceleration = 200.0

	minHysteresis = 5.0
	maxHysteresis = 50.0
)

// IrisController derives smoothing, motor and position values from raw
// lux samples, the same way the device firmware does.
// Not safe for concurrent use.
type IrisController struct {
	seeded   bool
	lux      float64
	smoothed float64
	change   float64
	speed    float64
	accel    float64
	target   int
	position float64
}

// NewIrisController returns a controller with the iris fully closed.
func NewIrisController() *IrisController {
	return &IrisController{
		speed:  MaxSpeed,
		accel:  MaxAcceleration,
		target: MinIrisPosition,
	}
}

// Update feeds one lux sample and recomputes the target position.
// The first sample seeds the smoothed value.
func (c *IrisController) Update(lux float64) {
	if !c.seeded {
		c.smoothed = lux
		c.seeded = true
	}
	c.lux = lux

	c.change = math.Abs(lux - c.smoothed)
	alpha := clamp(mapFloat(c.change, 0, LuxThresholdOpen, alphaMin, alphaMax), alphaMin, alphaMax)
	c.smoothed = alpha*lux + (1-alpha)*c.smoothed

	c.speed = clamp(mapFloat(c.change, 0, LuxThresholdOpen, MinSpeed, MaxSpeed), MinSpeed, MaxSpeed)
	c.accel = clamp(mapFloat(c.change, 0, LuxThresholdOpen, MinAcceleration, MaxAcceleration), MinAcceleration, MaxAcceleration)

	hysteresis := clamp(mapFloat(c.smoothed, LuxThresholdClose, LuxThresholdOpen, minHysteresis, maxHysteresis), minHysteresis, maxHysteresis)
	switch {
	case c.smoothed < LuxThresholdClose-hysteresis:
		c.target = MinIrisPosition
	case c.smoothed > LuxThresholdOpen+hysteresis:
		c.target = MaxIrisPosition
	default:
		c.target = LogPosition(c.smoothed)
	}
}

// Advance moves the iris toward its target at the current speed.
func (c *IrisController) Advance(dt time.Duration) {
	step := c.speed * dt.Seconds()
	target := float64(c.target)
	switch {
	case c.position < target:
		c.position = math.Min(c.position+step, target)
	case c.position > target:
		c.position = math.Max(c.position-step, target)
	}
}

// Reading snapshots the controller state.
func (c *IrisController) Reading() Reading {
	return Reading{
		Lux:                  c.lux,
		SmoothedLux:          c.smoothed,
		LuxChange:            c.change,
		AdjustedSpeed:        c.speed,
		AdjustedAcceleration: c.accel,
		TargetPosition:       c.target,
		CurrentPosition:      int(c.position),
	}
}

// LogPosition maps lux onto the iris travel on a log10 scale.
func LogPosition(lux float64) int {
	lo, hi := math.Log10(LuxThresholdClose), math.Log10(LuxThresholdOpen)
	logLux := clamp(math.Log10(lux), lo, hi)
	return int(mapFloat(logLux, lo, hi, MinIrisPosition, MaxIrisPosition))
}

func mapFloat(x, inMin, inMax, outMin, outMax float64) float64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
