package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "exlog/internal/platform/errors"
)

type Kind string

const (
	KindRunning  Kind = "running"
	KindSwimming Kind = "swimming"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindRunning:
		return KindRunning, nil
	case KindSwimming:
		return KindSwimming, nil
	default:
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown exercise type %q", raw)}
	}
}

type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// Details is the variant-specific part of a record. The set is closed:
// only Running and Swimming implement it.
type Details interface {
	Kind() Kind
	details()
}

type Running struct {
	CadenceSpm float64
}

func (Running) Kind() Kind { return KindRunning }
func (Running) details()   {}

type Swimming struct {
	RestTimeMin float64
}

func (Swimming) Kind() Kind { return KindSwimming }
func (Swimming) details()   {}

// Record is one logged exercise. Everything except the selection counter is
// fixed at construction.
type Record struct {
	id          string
	createdAt   time.Time
	coords      Coordinates
	distanceKm  float64
	durationMin float64
	details     Details
	speedKmH    float64
	label       string
	selectCount int
}

// NewRecord validates the inputs and derives speed and label once.
func NewRecord(id string, createdAt time.Time, coords Coordinates, distanceKm, durationMin float64, details Details) (*Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Reason: "is required"}
	}
	if details == nil {
		return nil, &ValidationError{Field: "type", Reason: "is required"}
	}
	if !finite(coords.Lat) || !finite(coords.Lng) {
		return nil, &ValidationError{Field: "coords", Reason: "must be finite"}
	}
	if err := positive("distance", distanceKm); err != nil {
		return nil, err
	}
	if err := positive("duration", durationMin); err != nil {
		return nil, err
	}
	switch d := details.(type) {
	case Running:
		if err := positive("cadence", d.CadenceSpm); err != nil {
			return nil, err
		}
	case Swimming:
		if !finite(d.RestTimeMin) {
			return nil, &ValidationError{Field: "rest_time", Reason: "must be a finite number"}
		}
	}
	return &Record{
		id:          id,
		createdAt:   createdAt,
		coords:      coords,
		distanceKm:  distanceKm,
		durationMin: durationMin,
		details:     details,
		speedKmH:    distanceKm / (durationMin / 60),
		label:       Label(details.Kind(), createdAt),
	}, nil
}

func (r *Record) ID() string               { return r.id }
func (r *Record) CreatedAt() time.Time     { return r.createdAt }
func (r *Record) Coordinates() Coordinates { return r.coords }
func (r *Record) DistanceKm() float64      { return r.distanceKm }
func (r *Record) DurationMin() float64     { return r.durationMin }
func (r *Record) Kind() Kind               { return r.details.Kind() }
func (r *Record) Details() Details         { return r.details }
func (r *Record) SpeedKmH() float64        { return r.speedKmH }
func (r *Record) Label() string            { return r.label }
func (r *Record) SelectCount() int         { return r.selectCount }

// MarkSelected counts one interactive selection.
func (r *Record) MarkSelected() {
	r.selectCount++
}

// Equal compares every field. Instants are compared with time.Time.Equal.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.id == o.id &&
		r.createdAt.Equal(o.createdAt) &&
		r.coords == o.coords &&
		r.distanceKm == o.distanceKm &&
		r.durationMin == o.durationMin &&
		r.details == o.details &&
		r.speedKmH == o.speedKmH &&
		r.label == o.label &&
		r.selectCount == o.selectCount
}

var months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sept", "Oct", "Nov", "Dec"}

// Label renders "RUNNING on Sept 5".
func Label(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", strings.ToUpper(string(kind)), months[at.Month()-1], at.Day())
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(field string, v float64) error {
	if !finite(v) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: "must be positive"}
	}
	return nil
}
