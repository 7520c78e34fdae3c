package out

import (
	"context"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/platform/config"
	apperrors "exlog/internal/platform/errors"
)

// StaticLocationProvider reports the configured home position.
type StaticLocationProvider struct {
	cfg config.LocationConfig
}

func NewStaticLocationProvider(cfg config.LocationConfig) StaticLocationProvider {
	return StaticLocationProvider{cfg: cfg}
}

func (p StaticLocationProvider) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	if !p.cfg.Enabled {
		return domain.Coordinates{}, apperrors.ErrLocationUnavailable
	}
	return domain.Coordinates{Lat: p.cfg.Lat, Lng: p.cfg.Lng}, nil
}
