package models

import (
	"fmt"
	"math"
)

type TideType string

const (
	TideTypeRising  TideType = "RISING"
	TideTypeFalling TideType = "FALLING"
	TideTypeHigh    TideType = "HIGH"
	TideTypeLow     TideType = "LOW"
)

// Valid reports whether t is one of the known tide types.
func (t TideType) Valid() bool {
	switch t {
	case TideTypeRising, TideTypeFalling, TideTypeHigh, TideTypeLow:
		return true
	}
	return false
}

// RawExtreme is a single hi/lo prediction exactly as NOAA encodes it.
type RawExtreme struct {
	Time   string `json:"t" dynamodbav:"t"`       // "2006-01-02 15:04", station wall clock
	Height string `json:"v" dynamodbav:"v"`       // height as text
	Type   string `json:"type" dynamodbav:"type"` // "H" or "L"
}

type NoaaResponse struct {
	Predictions []RawExtreme `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extreme is a parsed high or low tide.
type Extreme struct {
	T    LocalTime `json:"t"`
	H    float64   `json:"h"`
	Type TideType  `json:"type"`
}

// SamplePoint is one point on the reconstructed tide curve.
type SamplePoint struct {
	T LocalTime `json:"t"`
	H float64   `json:"h"`
}

// Point drops the tide type.
func (e Extreme) Point() SamplePoint {
	return SamplePoint{T: e.T, H: e.H}
}

// SignificantExtreme is a displayed low tide with its annotations.
type SignificantExtreme struct {
	Extreme
	IsDaytime bool `json:"isDaytime"`
	IsBestLow bool `json:"isBestLow"`
}

// Validate checks an extreme before it is handed to rendering code.
func (e *Extreme) Validate() error {
	if e.Type != TideTypeHigh && e.Type != TideTypeLow {
		return fmt.Errorf("invalid tide type: %s", e.Type)
	}
	if math.IsNaN(e.H) || math.IsInf(e.H, 0) {
		return fmt.Errorf("invalid height: %v", e.H)
	}
	return nil
}
