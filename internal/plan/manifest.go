package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pixlens/pixlens/internal/core"
	"github.com/pixlens/pixlens/internal/core/engine"
)

// Manifest describes a draw job in YAML form: the plan source plus its
// placement and drawing mode. Relative source paths resolve against the
// manifest's directory.
type Manifest struct {
	Image string  `yaml:"image"`
	Text  string  `yaml:"text"`
	X     int     `yaml:"x"`
	Y     int     `yaml:"y"`
	Scale float64 `yaml:"scale"`
	Fix   bool    `yaml:"fix"`
	// Forever keeps re-asserting the image after convergence; implies Fix.
	Forever bool   `yaml:"forever"`
	Order   string `yaml:"order"`

	dir string
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Image == "" && m.Text == "" {
		return errors.New("one of image or text is required")
	}
	if m.Image != "" && m.Text != "" {
		return errors.New("image and text are mutually exclusive")
	}
	if m.Scale < 0 {
		return errors.New("scale must be positive")
	}
	if _, err := engine.ParseScanOrder(m.Order); err != nil {
		return err
	}
	return nil
}

// ScanOrder returns the traversal order the manifest asks for.
func (m *Manifest) ScanOrder() engine.ScanOrder {
	order, _ := engine.ParseScanOrder(m.Order)
	return order
}

// Plan builds the draw plan the manifest describes. Text plans carry their
// own origin in the file header, which wins over the manifest's X and Y.
func (m *Manifest) Plan() (*core.DrawPlan, error) {
	if m.Image != "" {
		return FromImageFile(m.resolve(m.Image), m.X, m.Y, m.Scale)
	}
	return FromTextFile(m.resolve(m.Text))
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}
