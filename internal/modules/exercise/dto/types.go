package dto

import (
	"time"

	"exlog/internal/modules/exercise/domain"
)

type RecordOutput struct {
	ID          string
	Kind        string
	Label       string
	CreatedAt   time.Time
	Lat         float64
	Lng         float64
	DistanceKm  float64
	DurationMin float64
	SpeedKmH    float64
	CadenceSpm  float64
	RestTimeMin float64
	SelectCount int
}

// FromRecord is the single mapping from a domain record to its output shape.
func FromRecord(r *domain.Record) RecordOutput {
	out := RecordOutput{
		ID:          r.ID(),
		Kind:        string(r.Kind()),
		Label:       r.Label(),
		CreatedAt:   r.CreatedAt(),
		Lat:         r.Coordinates().Lat,
		Lng:         r.Coordinates().Lng,
		DistanceKm:  r.DistanceKm(),
		DurationMin: r.DurationMin(),
		SpeedKmH:    r.SpeedKmH(),
		SelectCount: r.SelectCount(),
	}
	switch d := r.Details().(type) {
	case domain.Running:
		out.CadenceSpm = d.CadenceSpm
	case domain.Swimming:
		out.RestTimeMin = d.RestTimeMin
	}
	return out
}

type RestoreOutput struct {
	Count   int
	Corrupt bool
}

type LocationInput struct {
	Lat float64
	Lng float64
}

type LocationOutput struct {
	Lat  float64
	Lng  float64
	Zoom int
}

// SubmitInput is raw form text, parsed during validation.
type SubmitInput struct {
	Type         string
	DistanceText string
	DurationText string
	ExtraText    string
}

type SubmitOutput struct {
	Committed bool
	Record    RecordOutput
	Message   string
	Field     string
}

type SelectOutput struct {
	Found  bool
	Record RecordOutput
	Zoom   int
}

type StateOutput struct {
	State       string
	Last        string
	HasLocation bool
	Lat         float64
	Lng         float64
	Records     int
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Paths []string
}

type EventKind string

const (
	EventListEntry EventKind = "list_entry"
	EventMarker    EventKind = "marker"
	EventClearForm EventKind = "clear_form"
	EventFocus     EventKind = "focus"
	EventReload    EventKind = "reload"
	EventAlert     EventKind = "alert"
)

// Event is one presentation effect emitted while a usecase call runs.
type Event struct {
	Kind    EventKind
	Record  RecordOutput
	Lat     float64
	Lng     float64
	Zoom    int
	Message string
}
