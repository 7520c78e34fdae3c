package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "exlog/internal/platform/errors"
)

// storedRecord is the persisted shape of a record. Field names match the
// snapshots written by the original browser app so old data still loads.
type storedRecord struct {
	Date        *time.Time `json:"date"`
	ID          string     `json:"id"`
	Clicks      int        `json:"clicks"`
	Coords      []float64  `json:"coords"`
	Distance    float64    `json:"distance"`
	Duration    float64    `json:"duration"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Speed       *float64   `json:"speed"`
	Cadence     *float64   `json:"cadence,omitempty"`
	RestTime    *float64   `json:"resttime,omitempty"`
}

// EncodeSnapshot serializes the whole ordered list. The type field carries
// the variant.
func EncodeSnapshot(records []*Record) ([]byte, error) {
	stored := make([]storedRecord, 0, len(records))
	for _, r := range records {
		createdAt := r.createdAt
		speed := r.speedKmH
		item := storedRecord{
			Date:        &createdAt,
			ID:          r.id,
			Clicks:      r.selectCount,
			Coords:      []float64{r.coords.Lat, r.coords.Lng},
			Distance:    r.distanceKm,
			Duration:    r.durationMin,
			Type:        string(r.Kind()),
			Description: r.label,
			Speed:       &speed,
		}
		switch d := r.details.(type) {
		case Running:
			cadence := d.CadenceSpm
			item.Cadence = &cadence
		case Swimming:
			rest := d.RestTimeMin
			item.RestTime = &rest
		}
		stored = append(stored, item)
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// DecodeSnapshot restores records from a snapshot. Absent data yields an empty
// list. Speed and label come from the stored values, not from recomputation.
func DecodeSnapshot(raw []byte) ([]*Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []*Record{}, nil
	}
	var stored []*storedRecord
	if err := json.Unmarshal(trimmed, &stored); err != nil {
		return nil, &CorruptDataError{Err: err}
	}
	out := make([]*Record, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, item := range stored {
		r, err := item.toRecord()
		if err != nil {
			return nil, &CorruptDataError{Err: fmt.Errorf("record %d: %w", i, err)}
		}
		if _, dup := seen[r.id]; dup {
			return nil, &CorruptDataError{Err: fmt.Errorf("record %d: duplicate id %q", i, r.id)}
		}
		seen[r.id] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func (s *storedRecord) toRecord() (*Record, error) {
	if s == nil {
		return nil, errors.New("null entry")
	}
	if s.ID == "" {
		return nil, errors.New("missing id")
	}
	if s.Date == nil {
		return nil, errors.New("missing date")
	}
	if len(s.Coords) != 2 {
		return nil, fmt.Errorf("coords must have 2 values, got %d", len(s.Coords))
	}
	if s.Description == "" {
		return nil, errors.New("missing description")
	}
	if s.Speed == nil {
		return nil, errors.New("missing speed")
	}
	if s.Clicks < 0 {
		return nil, errors.New("negative clicks")
	}
	if !finite(s.Distance) || s.Distance <= 0 || !finite(s.Duration) || s.Duration <= 0 {
		return nil, errors.New("distance and duration must be positive")
	}

	var details Details
	switch Kind(s.Type) {
	case KindRunning:
		if s.Cadence == nil {
			return nil, errors.New("running entry without cadence")
		}
		if !finite(*s.Cadence) || *s.Cadence <= 0 {
			return nil, errors.New("cadence must be positive")
		}
		details = Running{CadenceSpm: *s.Cadence}
	case KindSwimming:
		if s.RestTime == nil {
			return nil, errors.New("swimming entry without resttime")
		}
		if !finite(*s.RestTime) {
			return nil, errors.New("resttime must be finite")
		}
		details = Swimming{RestTimeMin: *s.RestTime}
	default:
		return nil, fmt.Errorf("unknown type %q", s.Type)
	}

	return &Record{
		id:          s.ID,
		createdAt:   *s.Date,
		coords:      Coordinates{Lat: s.Coords[0], Lng: s.Coords[1]},
		distanceKm:  s.Distance,
		durationMin: s.Duration,
		details:     details,
		speedKmH:    *s.Speed,
		label:       s.Description,
		selectCount: s.Clicks,
	}, nil
}

// CorruptDataError means a snapshot was present but could not be read back.
type CorruptDataError struct {
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt snapshot: %v", e.Err)
}

func (e *CorruptDataError) Unwrap() []error {
	return []error{apperrors.ErrCorruptData, e.Err}
}
