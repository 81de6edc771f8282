package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixlens/pixlens/internal/core"
	"github.com/pixlens/pixlens/internal/core/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestTextPlan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plan.txt", "4\n5\n1\n1\nff0000\n")
	path := writeFile(t, dir, "job.yaml", "text: plan.txt\nfix: true\norder: row-major\n")

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.True(t, m.Fix)
	require.Equal(t, engine.RowMajor, m.ScanOrder())

	// Source path resolves against the manifest directory, and the text
	// header's origin wins.
	p, err := m.Plan()
	require.NoError(t, err)
	require.Equal(t, 4, p.X)
	require.Equal(t, 5, p.Y)
	require.Equal(t, core.Pixel{Red: 0xff}, p.CellAt(4, 5).Colour)
}

func TestLoadManifestRequiresSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "job.yaml", "x: 1\ny: 2\n")

	_, err := LoadManifest(path)
	require.ErrorContains(t, err, "one of image or text is required")
}

func TestLoadManifestRejectsBothSources(t *testing.T) {
	path := writeFile(t, t.TempDir(), "job.yaml", "image: a.png\ntext: b.txt\n")

	_, err := LoadManifest(path)
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestLoadManifestRejectsUnknownOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "job.yaml", "text: plan.txt\norder: diagonal\n")

	_, err := LoadManifest(path)
	require.Error(t, err)
}

func TestLoadManifestDefaultOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plan.txt", "0\n0\n1\n1\n000000\n")
	path := writeFile(t, dir, "job.yaml", "text: plan.txt\n")

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Equal(t, engine.ColumnMajor, m.ScanOrder())
}
