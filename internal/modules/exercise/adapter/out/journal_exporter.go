package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/platform/markdown"
	"exlog/internal/platform/slug"
)

const (
	summaryStart = "<!-- exlog:summary:start -->"
	summaryEnd   = "<!-- exlog:summary:end -->"
)

type noteMeta struct {
	ID          string    `yaml:"id"`
	Type        string    `yaml:"type"`
	Date        string    `yaml:"date"`
	Coords      []float64 `yaml:"coords,flow"`
	DistanceKm  float64   `yaml:"distance_km"`
	DurationMin float64   `yaml:"duration_min"`
	SpeedKmH    float64   `yaml:"speed_kmh"`
	CadenceSpm  *float64  `yaml:"cadence_spm,omitempty"`
	RestTimeMin *float64  `yaml:"rest_time_min,omitempty"`
	SelectCount int       `yaml:"select_count"`
}

// MarkdownJournalExporter writes one note per record. Re-exporting refreshes
// the frontmatter and the summary block and keeps anything else the user wrote.
type MarkdownJournalExporter struct{}

func NewMarkdownJournalExporter() MarkdownJournalExporter {
	return MarkdownJournalExporter{}
}

func (MarkdownJournalExporter) Export(ctx context.Context, dir string, records []*domain.Record) ([]string, error) {
	paths := make([]string, 0, len(records))
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path, err := writeNote(dir, r)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func NotePath(dir string, r *domain.Record) string {
	date := r.CreatedAt()
	short := r.ID()
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("%s-%s.md", slug.Make(r.Label()), slug.Make(short))
	return filepath.Join(dir, "exercises", date.Format("2006"), date.Format("01"), date.Format("02"), name)
}

func writeNote(dir string, r *domain.Record) (string, error) {
	path := NotePath(dir, r)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}

	body := "# " + r.Label() + "\n"
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		_, prev, splitErr := markdown.SplitFrontmatter(string(existing))
		if splitErr != nil {
			return "", fmt.Errorf("parse note %s: %w", path, splitErr)
		}
		body = markdown.ReplaceManagedBlock(prev, summaryStart, summaryEnd, summary(r))
	case errors.Is(err, fs.ErrNotExist):
		body = markdown.ReplaceManagedBlock(body, summaryStart, summaryEnd, summary(r)) + "\n## Notes\n"
	default:
		return "", fmt.Errorf("read note %s: %w", path, err)
	}

	rendered, err := markdown.RenderFrontmatter(meta(r), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return path, nil
}

func meta(r *domain.Record) noteMeta {
	c := r.Coordinates()
	m := noteMeta{
		ID:          r.ID(),
		Type:        string(r.Kind()),
		Date:        r.CreatedAt().Format(time.RFC3339),
		Coords:      []float64{c.Lat, c.Lng},
		DistanceKm:  r.DistanceKm(),
		DurationMin: r.DurationMin(),
		SpeedKmH:    r.SpeedKmH(),
		SelectCount: r.SelectCount(),
	}
	switch d := r.Details().(type) {
	case domain.Running:
		m.CadenceSpm = &d.CadenceSpm
	case domain.Swimming:
		m.RestTimeMin = &d.RestTimeMin
	}
	return m
}

func summary(r *domain.Record) string {
	lines := []string{
		fmt.Sprintf("- Distance: %s km", formatNumber(r.DistanceKm())),
		fmt.Sprintf("- Duration: %s min", formatNumber(r.DurationMin())),
		fmt.Sprintf("- Speed: %.1f km/h", r.SpeedKmH()),
	}
	switch d := r.Details().(type) {
	case domain.Running:
		lines = append(lines, fmt.Sprintf("- Cadence: %s spm", formatNumber(d.CadenceSpm)))
	case domain.Swimming:
		lines = append(lines, fmt.Sprintf("- Rest time: %s min", formatNumber(d.RestTimeMin)))
	}
	lines = append(lines, "- Location: "+r.Coordinates().String())
	return strings.Join(lines, "\n")
}
