package gconfig

import (
	"os"

	"github.com/chwjbn/vector-hub/glib"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type RenderMeta struct {
	WindowTitle  string `yaml:"window_title"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	VSync        bool   `yaml:"vsync"`

	Samples    int        `yaml:"samples"`
	ClearColor [4]float32 `yaml:"clear_color,flow"`
	FillColor  [4]float32 `yaml:"fill_color,flow"`

	// Stencil left unset means: only when an overlay is configured.
	Stencil *bool `yaml:"stencil"`

	OverlayPath   string     `yaml:"overlay_path"`
	OverlayOffset [2]float32 `yaml:"overlay_offset,flow"`
	OverlayWidth  int        `yaml:"overlay_width"`
	OverlayHeight int        `yaml:"overlay_height"`

	EllipseRadiusX float32    `yaml:"ellipse_radius_x"`
	EllipseRadiusY float32    `yaml:"ellipse_radius_y"`
	EllipseOffset  [2]float32 `yaml:"ellipse_offset,flow"`
	MinSegments    int        `yaml:"min_segments"`
	SegmentLength  float32    `yaml:"segment_length"`

	ShaderDir string `yaml:"shader_dir"`

	// DebugChecks left unset follows the build. Only gldebug builds can turn
	// them on.
	DebugChecks   *bool `yaml:"debug_checks"`
	StatsInterval int   `yaml:"stats_interval"`
}

// DefaultConfigPath is where GetRenderMeta looks when no path is given.
func DefaultConfigPath() string {
	return glib.AppDataPath("config.yaml")
}

func DefaultRenderMeta() RenderMeta {

	var meta RenderMeta

	meta.WindowTitle = "Vector"
	meta.WindowWidth = 500
	meta.WindowHeight = 500
	meta.VSync = true

	meta.Samples = 8
	meta.ClearColor = [4]float32{0.2, 0.15, 0.4, 1.0}
	meta.FillColor = [4]float32{0.8, 0.5, 0.7, 1.0}

	meta.EllipseRadiusX = 40
	meta.EllipseRadiusY = 40
	meta.MinSegments = 16
	meta.SegmentLength = 6

	meta.ShaderDir = glib.AppDataPath("shader")
	meta.StatsInterval = 600

	return meta
}

// GetRenderMeta returns the defaults overlaid with the YAML file at
// configPath. A missing file is not an error.
func GetRenderMeta(configPath string) (RenderMeta, error) {

	meta := DefaultRenderMeta()

	if len(configPath) < 1 {
		configPath = DefaultConfigPath()
	}

	if !glib.FileExists(configPath) {
		return meta, meta.Validate()
	}

	data, xErr := os.ReadFile(configPath)
	if xErr != nil {
		return meta, errors.Wrapf(xErr, "read config file=[%s]", configPath)
	}

	if xErr = yaml.Unmarshal(data, &meta); xErr != nil {
		return meta, errors.Wrapf(xErr, "parse config file=[%s]", configPath)
	}

	return meta, meta.Validate()
}

func (meta RenderMeta) Validate() error {

	if meta.WindowWidth < 1 || meta.WindowHeight < 1 {
		return errors.Newf("invalid window size=[%dx%d]", meta.WindowWidth, meta.WindowHeight)
	}

	if meta.Samples < 1 {
		return errors.Newf("invalid samples=[%d]", meta.Samples)
	}

	if meta.MinSegments < 3 {
		return errors.Newf("invalid min_segments=[%d], need at least 3", meta.MinSegments)
	}

	if meta.SegmentLength <= 0 {
		return errors.Newf("invalid segment_length=[%v]", meta.SegmentLength)
	}

	if (meta.OverlayWidth > 0) != (meta.OverlayHeight > 0) {
		return errors.New("overlay_width and overlay_height must be set together")
	}

	return nil
}
