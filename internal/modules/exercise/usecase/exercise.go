package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"exlog/internal/modules/exercise/domain"
	exercisedto "exlog/internal/modules/exercise/dto"
	exercisein "exlog/internal/modules/exercise/port/in"
	exerciseout "exlog/internal/modules/exercise/port/out"
	"exlog/internal/modules/exercise/service"
	apperrors "exlog/internal/platform/errors"
	"exlog/internal/platform/logging"
	"exlog/internal/platform/observability"
)

const (
	DefaultSnapshotKey = "exercises"
	DefaultZoom        = 12

	LocationUnavailableMessage = "Cannot access to your location!"
)

// Ports groups the collaborators the interactor drives. Renderer and
// Notifier may be nil; Location and Exporter are optional features.
type Ports struct {
	Store    exerciseout.KVStore
	Renderer exerciseout.Renderer
	Notifier exerciseout.Notifier
	Location exerciseout.LocationProvider
	Exporter exerciseout.JournalExporter
}

type Option func(*Interactor)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interactor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func WithSnapshotKey(key string) Option {
	return func(i *Interactor) {
		if key != "" {
			i.key = key
		}
	}
}

func WithZoom(zoom int) Option {
	return func(i *Interactor) {
		if zoom > 0 {
			i.zoom = zoom
		}
	}
}

// Interactor is the session controller. It owns the collection and handles
// one interaction at a time.
type Interactor struct {
	mu       sync.Mutex
	svc      *service.IntakeService
	store    exerciseout.KVStore
	renderer exerciseout.Renderer
	notifier exerciseout.Notifier
	location exerciseout.LocationProvider
	exporter exerciseout.JournalExporter
	logger   *slog.Logger
	key      string
	zoom     int

	records *domain.Collection
	intake  *domain.Intake
}

func NewInteractor(svc *service.IntakeService, ports Ports, opts ...Option) exercisein.Usecase {
	return newInteractor(svc, ports, opts...)
}

func newInteractor(svc *service.IntakeService, ports Ports, opts ...Option) *Interactor {
	i := &Interactor{
		svc:      svc,
		store:    ports.Store,
		renderer: ports.Renderer,
		notifier: ports.Notifier,
		location: ports.Location,
		exporter: ports.Exporter,
		logger:   logging.Discard(),
		key:      DefaultSnapshotKey,
		zoom:     DefaultZoom,
		records:  domain.NewCollection(),
		intake:   domain.NewIntake(),
	}
	if i.renderer == nil {
		i.renderer = nopRenderer{}
	}
	if i.notifier == nil {
		i.notifier = nopNotifier{}
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Restore loads the snapshot and renders every record. A corrupt snapshot is
// logged and treated as no prior data.
func (i *Interactor) Restore(ctx context.Context) (exercisedto.RestoreOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.records.ResetAll()
	i.intake.Cancel()

	raw, err := i.store.Get(ctx, i.key)
	if errors.Is(err, apperrors.ErrNotFound) {
		observability.Restores.WithLabelValues(observability.OutcomeEmpty).Inc()
		return exercisedto.RestoreOutput{}, nil
	}
	if err != nil {
		return exercisedto.RestoreOutput{}, fmt.Errorf("load snapshot: %w", err)
	}

	records, err := domain.DecodeSnapshot(raw)
	if err != nil {
		var corrupt *domain.CorruptDataError
		if !errors.As(err, &corrupt) {
			return exercisedto.RestoreOutput{}, err
		}
		i.logger.Warn("snapshot skipped", "key", i.key, "bytes", len(raw), "err", err)
		observability.Restores.WithLabelValues(observability.OutcomeCorrupt).Inc()
		return exercisedto.RestoreOutput{Corrupt: true}, nil
	}

	for _, r := range records {
		i.records.Append(r)
		i.renderer.RenderRecord(r)
		i.renderer.PlaceMarker(r)
	}
	observability.Restores.WithLabelValues(observability.OutcomeRestored).Inc()
	i.logger.Info("snapshot restored", "key", i.key, "records", len(records))
	return exercisedto.RestoreOutput{Count: len(records)}, nil
}

// Locate centres the view on the current position.
func (i *Interactor) Locate(ctx context.Context) (exercisedto.LocationOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.location == nil {
		i.notifier.Alert(LocationUnavailableMessage)
		return exercisedto.LocationOutput{}, apperrors.ErrLocationUnavailable
	}
	coords, err := i.location.CurrentPosition(ctx)
	if err != nil {
		i.notifier.Alert(LocationUnavailableMessage)
		i.logger.Debug("location unavailable", "err", err)
		return exercisedto.LocationOutput{}, fmt.Errorf("current position: %w", err)
	}
	i.renderer.FocusOn(coords, i.zoom)
	return exercisedto.LocationOutput{Lat: coords.Lat, Lng: coords.Lng, Zoom: i.zoom}, nil
}

func (i *Interactor) PickLocation(_ context.Context, input exercisedto.LocationInput) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.intake.Pick(domain.Coordinates{Lat: input.Lat, Lng: input.Lng})
}

func (i *Interactor) CancelForm(_ context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.intake.Cancel()
}

// Submit validates the form against the picked location. Validation failures
// are reported in the output, not as an error. A record enters the collection
// only after its snapshot is stored.
func (i *Interactor) Submit(ctx context.Context, input exercisedto.SubmitInput) (exercisedto.SubmitOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	coords, err := i.intake.Begin()
	if err != nil {
		return exercisedto.SubmitOutput{}, err
	}

	record, err := i.svc.Build(input.Type, coords, input.DistanceText, input.DurationText, input.ExtraText)
	if err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			i.intake.Abort()
			return exercisedto.SubmitOutput{}, err
		}
		i.intake.Reject()
		observability.IntakeRejected.WithLabelValues(kindLabel(input.Type)).Inc()
		i.logger.Info("submission rejected", "type", input.Type, "field", verr.Field, "reason", verr.Reason)
		i.notifier.Alert(service.RejectMessage)
		return exercisedto.SubmitOutput{Message: service.RejectMessage, Field: verr.Field}, nil
	}

	raw, err := domain.EncodeSnapshot(append(i.records.All(), record))
	if err != nil {
		i.intake.Abort()
		return exercisedto.SubmitOutput{}, err
	}
	if err := i.store.Put(ctx, i.key, raw); err != nil {
		i.intake.Abort()
		return exercisedto.SubmitOutput{}, fmt.Errorf("persist snapshot: %w", err)
	}
	observability.SnapshotBytes.Set(float64(len(raw)))

	i.records.Append(record)
	i.intake.Commit()
	i.renderer.RenderRecord(record)
	i.renderer.PlaceMarker(record)
	i.renderer.ClearForm()

	observability.IntakeCommitted.WithLabelValues(string(record.Kind())).Inc()
	i.logger.Info("exercise committed", "id", record.ID(), "type", record.Kind(), "records", i.records.Len())
	return exercisedto.SubmitOutput{Committed: true, Record: exercisedto.FromRecord(record)}, nil
}

// Select focuses the view on a record. An unknown id is a no-op.
func (i *Interactor) Select(_ context.Context, id string) (exercisedto.SelectOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	record, ok := i.records.FindByID(id)
	if !ok {
		i.logger.Debug("selection ignored", "id", id)
		return exercisedto.SelectOutput{}, nil
	}
	record.MarkSelected()
	i.renderer.FocusOn(record.Coordinates(), i.zoom)
	observability.Selections.Inc()
	i.logger.Debug("exercise selected", "id", id, "count", record.SelectCount())
	return exercisedto.SelectOutput{Found: true, Record: exercisedto.FromRecord(record), Zoom: i.zoom}, nil
}

func (i *Interactor) List(_ context.Context) ([]exercisedto.RecordOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	all := i.records.All()
	out := make([]exercisedto.RecordOutput, 0, len(all))
	for _, r := range all {
		out = append(out, exercisedto.FromRecord(r))
	}
	return out, nil
}

func (i *Interactor) Get(_ context.Context, id string) (exercisedto.RecordOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	record, ok := i.records.FindByID(id)
	if !ok {
		return exercisedto.RecordOutput{}, fmt.Errorf("exercise %s: %w", id, apperrors.ErrNotFound)
	}
	return exercisedto.FromRecord(record), nil
}

// Reset removes the snapshot and every record, then asks the presentation to
// reload from scratch.
func (i *Interactor) Reset(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.store.Delete(ctx, i.key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	i.records.ResetAll()
	i.intake.Cancel()
	observability.SnapshotBytes.Set(0)
	i.logger.Info("exercises reset", "key", i.key)
	i.renderer.Reload()
	return nil
}

func (i *Interactor) Export(ctx context.Context, input exercisedto.ExportInput) (exercisedto.ExportOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.exporter == nil {
		return exercisedto.ExportOutput{}, fmt.Errorf("journal exporter is not configured")
	}
	if strings.TrimSpace(input.Dir) == "" {
		return exercisedto.ExportOutput{}, fmt.Errorf("export dir is required: %w", apperrors.ErrInvalidInput)
	}
	paths, err := i.exporter.Export(ctx, input.Dir, i.records.All())
	if err != nil {
		return exercisedto.ExportOutput{}, err
	}
	i.logger.Info("journal exported", "dir", input.Dir, "notes", len(paths))
	return exercisedto.ExportOutput{Paths: paths}, nil
}

func (i *Interactor) State(_ context.Context) exercisedto.StateOutput {
	i.mu.Lock()
	defer i.mu.Unlock()

	coords, ok := i.intake.Location()
	return exercisedto.StateOutput{
		State:       string(i.intake.State()),
		Last:        string(i.intake.Last()),
		HasLocation: ok,
		Lat:         coords.Lat,
		Lng:         coords.Lng,
		Records:     i.records.Len(),
	}
}


func kindLabel(raw string) string {
	kind, err := domain.ParseKind(raw)
	if err != nil {
		return "unknown"
	}
	return string(kind)
}

type nopRenderer struct{}

func (nopRenderer) RenderRecord(*domain.Record)     {}
func (nopRenderer) PlaceMarker(*domain.Record)      {}
func (nopRenderer) ClearForm()                      {}
func (nopRenderer) FocusOn(domain.Coordinates, int) {}
func (nopRenderer) Reload()                         {}

type nopNotifier struct{}

func (nopNotifier) Alert(string) {}
