package in

import (
	"context"

	"exlog/internal/modules/exercise/dto"
)

type Usecase interface {
	Restore(ctx context.Context) (dto.RestoreOutput, error)
	Locate(ctx context.Context) (dto.LocationOutput, error)
	PickLocation(ctx context.Context, input dto.LocationInput) error
	CancelForm(ctx context.Context)
	Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
	Select(ctx context.Context, id string) (dto.SelectOutput, error)
	List(ctx context.Context) ([]dto.RecordOutput, error)
	Get(ctx context.Context, id string) (dto.RecordOutput, error)
	Reset(ctx context.Context) error
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	State(ctx context.Context) dto.StateOutput
}
