package service

import (
	"math"
	"strconv"
	"strings"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/platform/clock"
	"exlog/internal/platform/id"
)

// RejectMessage is shown to the user when a submission fails validation.
const RejectMessage = "Check your inputs again! Inputs have to be positive numbers."

type IntakeService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewIntakeService(clock clock.Clock, idGen id.Generator) *IntakeService {
	return &IntakeService{clock: clock, idGen: idGen}
}

// Build turns raw form fields into a record. Running requires a positive
// cadence; swimming only requires a finite rest time.
func (s *IntakeService) Build(kindText string, coords domain.Coordinates, distanceText, durationText, extraText string) (*domain.Record, error) {
	kind, err := domain.ParseKind(kindText)
	if err != nil {
		return nil, err
	}
	distance := ParseNumber(distanceText)
	duration := ParseNumber(durationText)
	extra := ParseNumber(extraText)

	var details domain.Details
	switch kind {
	case domain.KindRunning:
		details = domain.Running{CadenceSpm: extra}
	case domain.KindSwimming:
		details = domain.Swimming{RestTimeMin: extra}
	}
	return domain.NewRecord(s.idGen.New(), s.clock.Now(), coords, distance, duration, details)
}

// ParseNumber reads a form field. Blank is zero and anything unparseable is
// NaN, so both fail the finite or positive checks downstream.
func ParseNumber(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
