package service

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/platform/clock"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newService() *IntakeService {
	return NewIntakeService(clock.Fixed{At: time.Date(2024, time.September, 5, 8, 0, 0, 0, time.UTC)}, &seqID{})
}

func TestBuildRunning(t *testing.T) {
	t.Parallel()
	r, err := newService().Build("running", domain.Coordinates{Lat: 1, Lng: 2}, "5", "30", "180")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.ID() != "id-1" || r.SpeedKmH() != 10 || r.Label() != "RUNNING on Sept 5" {
		t.Fatalf("unexpected record %+v", r)
	}
	if d, ok := r.Details().(domain.Running); !ok || d.CadenceSpm != 180 {
		t.Fatalf("unexpected details %#v", r.Details())
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	cases := map[string][4]string{
		"zero distance":     {"running", "0", "30", "180"},
		"text duration":     {"running", "5", "half an hour", "180"},
		"blank cadence":     {"running", "5", "30", ""},
		"negative cadence":  {"running", "5", "30", "-1"},
		"swim zero dur":     {"swimming", "1", "0", "2"},
		"swim nan rest":     {"swimming", "1", "30", "NaN"},
		"unknown type":      {"cycling", "1", "30", "2"},
		"infinite distance": {"swimming", "Inf", "30", "2"},
	}
	for name, in := range cases {
		_, err := newService().Build(in[0], domain.Coordinates{}, in[1], in[2], in[3])
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestBuildSwimmingAcceptsZeroAndNegativeRest(t *testing.T) {
	t.Parallel()
	for _, rest := range []string{"0", "", "-2"} {
		r, err := newService().Build("swimming", domain.Coordinates{}, "1.5", "45", rest)
		if err != nil {
			t.Fatalf("rest %q: %v", rest, err)
		}
		if r.Kind() != domain.KindSwimming {
			t.Fatalf("unexpected kind %s", r.Kind())
		}
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()
	if ParseNumber(" 4.5 ") != 4.5 || ParseNumber("") != 0 {
		t.Fatalf("unexpected parse results")
	}
	if !math.IsNaN(ParseNumber("abc")) {
		t.Fatalf("expected NaN for text")
	}
}
