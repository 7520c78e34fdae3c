package in

import (
	"context"

	exercisedto "exlog/internal/modules/exercise/dto"
	exercisein "exlog/internal/modules/exercise/port/in"
)

type CLIHandler struct {
	usecase exercisein.Usecase
}

func NewCLIHandler(usecase exercisein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Restore(ctx context.Context) (exercisedto.RestoreOutput, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Locate(ctx context.Context) (exercisedto.LocationOutput, error) {
	return h.usecase.Locate(ctx)
}

func (h CLIHandler) PickLocation(ctx context.Context, lat, lng float64) error {
	return h.usecase.PickLocation(ctx, exercisedto.LocationInput{Lat: lat, Lng: lng})
}

func (h CLIHandler) CancelForm(ctx context.Context) {
	h.usecase.CancelForm(ctx)
}

func (h CLIHandler) Submit(ctx context.Context, kind, distance, duration, extra string) (exercisedto.SubmitOutput, error) {
	return h.usecase.Submit(ctx, exercisedto.SubmitInput{
		Type:         kind,
		DistanceText: distance,
		DurationText: duration,
		ExtraText:    extra,
	})
}

func (h CLIHandler) Select(ctx context.Context, id string) (exercisedto.SelectOutput, error) {
	return h.usecase.Select(ctx, id)
}

func (h CLIHandler) List(ctx context.Context) ([]exercisedto.RecordOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (exercisedto.RecordOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (exercisedto.ExportOutput, error) {
	return h.usecase.Export(ctx, exercisedto.ExportInput{Dir: dir})
}

func (h CLIHandler) State(ctx context.Context) exercisedto.StateOutput {
	return h.usecase.State(ctx)
}
