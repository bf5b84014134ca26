package category

import (
	"errors"
	"math"
)

// Tone is the severity used to style a category banner
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

// ErrUndefinedAQI is returned when the AQI is NaN and no band can hold it
var ErrUndefinedAQI = errors.New("aqi is not a number")

// Category is one AQI severity band. Lower bound is exclusive, upper inclusive.
type Category struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Tone    Tone    `json:"tone"`
	Lower   float64 `json:"-"`
	Upper   float64 `json:"-"`
	Emoji   string  `json:"emoji"`
	Message string  `json:"message"`
}

// Bounds returns the band limits in a JSON-safe form; nil means unbounded
func (c Category) Bounds() (lower, upper *float64) {
	if !math.IsInf(c.Lower, -1) {
		l := c.Lower
		lower = &l
	}
	if !math.IsInf(c.Upper, 1) {
		u := c.Upper
		upper = &u
	}
	return lower, upper
}

var bands = []Category{
	{
		Name:    "Good",
		Label:   "Good - Air quality is satisfactory",
		Tone:    ToneInfo,
		Lower:   math.Inf(-1),
		Upper:   50,
		Emoji:   "✅",
		Message: "Air quality is satisfactory",
	},
	{
		Name:    "Moderate",
		Label:   "Moderate - Acceptable for most people",
		Tone:    ToneWarning,
		Lower:   50,
		Upper:   100,
		Emoji:   "⚠️",
		Message: "Acceptable for most people",
	},
	{
		Name:  "Unhealthy for Sensitive Groups",
		Label: "Unhealthy for Sensitive Groups",
		Tone:  ToneWarning,
		Lower: 100,
		Upper: 150,
		Emoji: "⚠️",
	},
	{
		Name:    "Unhealthy",
		Label:   "Unhealthy - Everyone may experience health effects",
		Tone:    ToneError,
		Lower:   150,
		Upper:   200,
		Emoji:   "🔴",
		Message: "Everyone may experience health effects",
	},
	{
		Name:    "Very Unhealthy",
		Label:   "Very Unhealthy - Health alert",
		Tone:    ToneError,
		Lower:   200,
		Upper:   300,
		Emoji:   "🔴",
		Message: "Health alert",
	},
	{
		Name:    "Hazardous",
		Label:   "Hazardous - Health warning of emergency conditions",
		Tone:    ToneError,
		Lower:   300,
		Upper:   math.Inf(1),
		Emoji:   "🔴",
		Message: "Health warning of emergency conditions",
	},
}

// Bands returns the six categories in ascending threshold order
func Bands() []Category {
	out := make([]Category, len(bands))
	copy(out, bands)
	return out
}

// Classify maps an AQI value to its band. The first band (ascending)
// whose upper bound is >= aqi wins, so boundary values fall in the lower band.
func Classify(aqi float64) (Category, error) {
	if math.IsNaN(aqi) {
		return Category{}, ErrUndefinedAQI
	}

	for _, b := range bands {
		if aqi <= b.Upper {
			return b, nil
		}
	}

	// unreachable: the last band is unbounded
	return bands[len(bands)-1], nil
}
