package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/modules/exercise/service"
	"exlog/internal/platform/clock"
	apperrors "exlog/internal/platform/errors"
)

type memStore struct {
	values  map[string][]byte
	putErr  error
	puts    int
	deletes int
}

func newMemStore() *memStore {
	return &memStore{values: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Put(_ context.Context, key string, value []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.deletes++
	delete(m.values, key)
	return nil
}

type focus struct {
	coords domain.Coordinates
	zoom   int
}

type recordingRenderer struct {
	listed  []string
	markers []string
	cleared int
	focused []focus
	reloads int
}

func (r *recordingRenderer) RenderRecord(record *domain.Record) {
	r.listed = append(r.listed, record.ID())
}

func (r *recordingRenderer) PlaceMarker(record *domain.Record) {
	r.markers = append(r.markers, record.ID())
}

func (r *recordingRenderer) ClearForm() { r.cleared++ }

func (r *recordingRenderer) FocusOn(coords domain.Coordinates, zoom int) {
	r.focused = append(r.focused, focus{coords: coords, zoom: zoom})
}

func (r *recordingRenderer) Reload() { r.reloads++ }

type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) Alert(message string) {
	n.alerts = append(n.alerts, message)
}

type fakeLocation struct {
	coords domain.Coordinates
	err    error
}

func (f fakeLocation) CurrentPosition(context.Context) (domain.Coordinates, error) {
	return f.coords, f.err
}

type fakeExporter struct {
	dir     string
	records []*domain.Record
}

func (f *fakeExporter) Export(_ context.Context, dir string, records []*domain.Record) ([]string, error) {
	f.dir = dir
	f.records = records
	paths := make([]string, 0, len(records))
	for _, r := range records {
		paths = append(paths, dir+"/"+r.ID()+".md")
	}
	return paths, nil
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("ex-%d", s.n)
}

var errDiskFull = errors.New("disk full")

var fixedNow = time.Date(2024, time.September, 5, 7, 45, 0, 0, time.UTC)

type harness struct {
	store    *memStore
	renderer *recordingRenderer
	notifier *recordingNotifier
	exporter *fakeExporter
	it       *Interactor
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		store:    newMemStore(),
		renderer: &recordingRenderer{},
		notifier: &recordingNotifier{},
		exporter: &fakeExporter{},
	}
	svc := service.NewIntakeService(clock.Fixed{At: fixedNow}, &seqID{})
	h.it = newInteractor(svc, Ports{
		Store:    h.store,
		Renderer: h.renderer,
		Notifier: h.notifier,
		Location: fakeLocation{coords: domain.Coordinates{Lat: 38.72, Lng: -9.14}},
		Exporter: h.exporter,
	}, opts...)
	return h
}
