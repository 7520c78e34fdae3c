package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"exlog/internal/modules/exercise/domain"
	exercisedto "exlog/internal/modules/exercise/dto"
	"exlog/internal/modules/exercise/service"
	apperrors "exlog/internal/platform/errors"
)

func pinAndSubmit(t *testing.T, h *harness, input exercisedto.SubmitInput) exercisedto.SubmitOutput {
	t.Helper()
	ctx := context.Background()
	if err := h.it.PickLocation(ctx, exercisedto.LocationInput{Lat: 38.7, Lng: -9.1}); err != nil {
		t.Fatalf("pick location: %v", err)
	}
	out, err := h.it.Submit(ctx, input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return out
}

func TestSubmitRunningCommits(t *testing.T) {
	t.Parallel()
	h := newHarness()
	out := pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	if !out.Committed {
		t.Fatalf("expected commit, got %+v", out)
	}
	if out.Record.SpeedKmH != 10 || out.Record.CadenceSpm != 180 || out.Record.Kind != "running" {
		t.Fatalf("unexpected record %+v", out.Record)
	}
	if out.Record.Label != "RUNNING on Sept 5" || out.Record.ID != "ex-1" {
		t.Fatalf("unexpected label or id %+v", out.Record)
	}

	if len(h.renderer.listed) != 1 || len(h.renderer.markers) != 1 || h.renderer.cleared != 1 {
		t.Fatalf("expected one list entry, marker and form clear: %+v", h.renderer)
	}
	if h.store.puts != 1 {
		t.Fatalf("expected one snapshot write, got %d", h.store.puts)
	}
	stored, err := domain.DecodeSnapshot(h.store.values[DefaultSnapshotKey])
	if err != nil || len(stored) != 1 || stored[0].ID() != "ex-1" {
		t.Fatalf("snapshot does not contain the record: %v %+v", err, stored)
	}

	state := h.it.State(context.Background())
	if state.State != string(domain.StateAwaitingLocation) || state.Last != string(domain.StateCommitted) || state.HasLocation {
		t.Fatalf("unexpected state after commit %+v", state)
	}
}

func TestSubmitRejectsZeroDistance(t *testing.T) {
	t.Parallel()
	h := newHarness()
	out := pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "running", DistanceText: "0", DurationText: "30", ExtraText: "180"})
	if out.Committed {
		t.Fatalf("zero distance must be rejected")
	}
	if out.Message != service.RejectMessage || out.Field != "distance" {
		t.Fatalf("unexpected rejection %+v", out)
	}
	if len(h.notifier.alerts) != 1 || h.notifier.alerts[0] != service.RejectMessage {
		t.Fatalf("expected one alert, got %v", h.notifier.alerts)
	}
	list, _ := h.it.List(context.Background())
	if len(list) != 0 || h.store.puts != 0 {
		t.Fatalf("rejected submission must not append or persist")
	}
	if h.renderer.cleared != 0 {
		t.Fatalf("form must not be cleared on rejection")
	}

	state := h.it.State(context.Background())
	if state.State != string(domain.StateAwaitingFormInput) || !state.HasLocation || state.Lat != 38.7 {
		t.Fatalf("rejection must keep the pin: %+v", state)
	}

	out, err := h.it.Submit(context.Background(), exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	if err != nil || !out.Committed {
		t.Fatalf("resubmit with retained pin should commit: %+v %v", out, err)
	}
}

func TestSubmitSwimmingAcceptsZeroRest(t *testing.T) {
	t.Parallel()
	h := newHarness()
	out := pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "swimming", DistanceText: "1.5", DurationText: "45", ExtraText: "0"})
	if !out.Committed || out.Record.RestTimeMin != 0 || out.Record.SpeedKmH != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestSubmitWithoutLocation(t *testing.T) {
	t.Parallel()
	h := newHarness()
	_, err := h.it.Submit(context.Background(), exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	if !errors.Is(err, apperrors.ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}
}

func TestSubmitPersistFailureLeavesCollectionUnchanged(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.store.putErr = errDiskFull
	if err := h.it.PickLocation(context.Background(), exercisedto.LocationInput{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("pick: %v", err)
	}
	_, err := h.it.Submit(context.Background(), exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}
	list, _ := h.it.List(context.Background())
	if len(list) != 0 || len(h.renderer.listed) != 0 || len(h.renderer.markers) != 0 {
		t.Fatalf("failed persistence must not append or render")
	}
	if state := h.it.State(context.Background()); state.State != string(domain.StateAwaitingFormInput) {
		t.Fatalf("expected form input after failed write, got %s", state.State)
	}
}

func TestSelectFocusesAndCounts(t *testing.T) {
	t.Parallel()
	h := newHarness(WithZoom(14))
	out := pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sel, err := h.it.Select(ctx, out.Record.ID)
		if err != nil || !sel.Found {
			t.Fatalf("select: %+v %v", sel, err)
		}
	}
	got, err := h.it.Get(ctx, out.Record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SelectCount != 2 || got.SpeedKmH != 10 || got.Label != out.Record.Label {
		t.Fatalf("unexpected record after selection %+v", got)
	}
	if len(h.renderer.focused) != 2 || h.renderer.focused[0].zoom != 14 || h.renderer.focused[0].coords.Lat != 38.7 {
		t.Fatalf("unexpected focus calls %+v", h.renderer.focused)
	}
	if h.store.puts != 1 {
		t.Fatalf("selection must not write the snapshot")
	}
}

func TestSelectUnknownIsNoop(t *testing.T) {
	t.Parallel()
	h := newHarness()
	sel, err := h.it.Select(context.Background(), "nonexistent")
	if err != nil || sel.Found {
		t.Fatalf("expected silent miss, got %+v %v", sel, err)
	}
	if len(h.renderer.focused) != 0 {
		t.Fatalf("miss must not move the view")
	}
	if _, err := h.it.Get(context.Background(), "nonexistent"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
}

func TestRestoreRendersStoredRecords(t *testing.T) {
	t.Parallel()
	first := newHarness()
	pinAndSubmit(t, first, exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	pinAndSubmit(t, first, exercisedto.SubmitInput{Type: "swimming", DistanceText: "1", DurationText: "20", ExtraText: "3"})

	second := newHarness()
	second.store = first.store
	second.it.store = first.store
	out, err := second.it.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if out.Count != 2 || out.Corrupt {
		t.Fatalf("unexpected restore output %+v", out)
	}
	if strings.Join(second.renderer.listed, ",") != "ex-1,ex-2" || strings.Join(second.renderer.markers, ",") != "ex-1,ex-2" {
		t.Fatalf("restore must render in order: %v %v", second.renderer.listed, second.renderer.markers)
	}
	list, _ := second.it.List(context.Background())
	if list[1].Kind != "swimming" || list[1].RestTimeMin != 3 {
		t.Fatalf("unexpected restored record %+v", list[1])
	}
}

func TestRestoreAbsentSnapshot(t *testing.T) {
	t.Parallel()
	h := newHarness()
	out, err := h.it.Restore(context.Background())
	if err != nil || out.Count != 0 || out.Corrupt {
		t.Fatalf("absent snapshot should restore empty: %+v %v", out, err)
	}
}

func TestRestoreCorruptSnapshotStartsEmpty(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	h := newHarness(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	h.store.values[DefaultSnapshotKey] = []byte("not valid data")

	out, err := h.it.Restore(context.Background())
	if err != nil {
		t.Fatalf("corrupt snapshot must not surface: %v", err)
	}
	if !out.Corrupt || out.Count != 0 {
		t.Fatalf("unexpected restore output %+v", out)
	}
	list, _ := h.it.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("collection must stay empty")
	}
	if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "snapshot skipped") {
		t.Fatalf("expected warning log, got %q", logs.String())
	}

	// The app keeps working and the next commit replaces the bad snapshot.
	pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})
	if _, err := domain.DecodeSnapshot(h.store.values[DefaultSnapshotKey]); err != nil {
		t.Fatalf("snapshot should be valid after commit: %v", err)
	}
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()
	h := newHarness()
	pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})

	if err := h.it.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	list, _ := h.it.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected empty list after reset")
	}
	if _, ok := h.store.values[DefaultSnapshotKey]; ok {
		t.Fatalf("snapshot key must be absent after reset")
	}
	if h.renderer.reloads != 1 {
		t.Fatalf("reset must trigger a reload")
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()
	h := newHarness()
	loc, err := h.it.Locate(context.Background())
	if err != nil || loc.Lat != 38.72 || loc.Zoom != DefaultZoom {
		t.Fatalf("unexpected locate result %+v %v", loc, err)
	}
	if len(h.renderer.focused) != 1 {
		t.Fatalf("locate must focus the view")
	}

	h.it.location = fakeLocation{err: apperrors.ErrLocationUnavailable}
	if _, err := h.it.Locate(context.Background()); !errors.Is(err, apperrors.ErrLocationUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(h.notifier.alerts) != 1 || h.notifier.alerts[0] != LocationUnavailableMessage {
		t.Fatalf("expected location alert, got %v", h.notifier.alerts)
	}
}

func TestExportPassesRecords(t *testing.T) {
	t.Parallel()
	h := newHarness()
	pinAndSubmit(t, h, exercisedto.SubmitInput{Type: "running", DistanceText: "5", DurationText: "30", ExtraText: "180"})

	out, err := h.it.Export(context.Background(), exercisedto.ExportInput{Dir: "/journal"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(out.Paths) != 1 || h.exporter.dir != "/journal" || len(h.exporter.records) != 1 {
		t.Fatalf("unexpected export %+v", out)
	}
	if _, err := h.it.Export(context.Background(), exercisedto.ExportInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty dir, got %v", err)
	}
}
