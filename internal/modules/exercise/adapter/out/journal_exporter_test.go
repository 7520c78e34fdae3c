package out

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/platform/markdown"
)

func TestJournalExportWritesNotes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	run := sampleRecord(t, "0f1e2d3c-aaaa-bbbb-cccc-000000000000", domain.Running{CadenceSpm: 180})

	paths, err := NewMarkdownJournalExporter().Export(context.Background(), dir, []*domain.Record{run})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, filepath.Join(dir, "exercises", "2024", "09", "05", "running-on-sept-5-0f1e2d3c.md"), paths[0])

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	meta, body, err := markdown.SplitFrontmatter(string(raw))
	require.NoError(t, err)
	require.Equal(t, "running", meta["type"])
	require.Equal(t, 180, meta["cadence_spm"])
	require.NotContains(t, meta, "rest_time_min")
	require.Contains(t, body, "# RUNNING on Sept 5")
	require.Contains(t, body, "- Speed: 10.0 km/h")
	require.Contains(t, body, "## Notes")
}

func TestJournalExportKeepsUserText(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	run := sampleRecord(t, "abc", domain.Running{CadenceSpm: 180})
	exporter := NewMarkdownJournalExporter()

	paths, err := exporter.Export(context.Background(), dir, []*domain.Record{run})
	require.NoError(t, err)
	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(paths[0], []byte(string(raw)+"Legs felt heavy.\n"), 0o644))

	run.MarkSelected()
	_, err = exporter.Export(context.Background(), dir, []*domain.Record{run})
	require.NoError(t, err)

	raw, err = os.ReadFile(paths[0])
	require.NoError(t, err)
	content := string(raw)
	require.Contains(t, content, "select_count: 1")
	require.Contains(t, content, "Legs felt heavy.")
	require.Equal(t, 1, strings.Count(content, summaryStart))
}
