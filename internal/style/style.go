// Package style defines the render style sheet: colors, card metrics and
// connector strokes. A built-in default ships embedded as YAML; a user
// file can override individual values.
package style

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/measure"
)

// Sheet is the full render style.
type Sheet struct {
	Page struct {
		Background string `yaml:"background"` // page background (hex color)
		Text       string `yaml:"text"`       // base text color
		Subtle     string `yaml:"subtle"`     // secondary text color
	} `yaml:"page"`

	Card struct {
		Width            float64 `yaml:"width"`             // card box width in pixels
		WidthNarrow      float64 `yaml:"width_narrow"`      // card width under the narrow breakpoint
		NarrowBreakpoint float64 `yaml:"narrow_breakpoint"` // container width below which cards shrink
		BaseHeight       float64 `yaml:"base_height"`       // date row, title row, padding
		LineHeight       float64 `yaml:"line_height"`       // one wrapped description line
		FontSize         float64 `yaml:"font_size"`
		Background       string  `yaml:"background"`
	} `yaml:"card"`

	// Categories maps each column to its accent color.
	Categories map[string]string `yaml:"categories"`

	// Borders maps the cosmetic border tags to colors.
	Borders map[string]string `yaml:"borders"`

	Connector struct {
		StrokeWidth float64 `yaml:"stroke_width"`
	} `yaml:"connector"`

	Axis struct {
		Line string `yaml:"line"` // vertical timeline line
		Tick string `yaml:"tick"` // year/month tick labels
	} `yaml:"axis"`
}

// Default returns the built-in style.
func Default() *Sheet {
	s := &Sheet{}
	s.Page.Background = "#0d1117"
	s.Page.Text = "#c9d1d9"
	s.Page.Subtle = "#8b949e"
	s.Card.Width = 240
	s.Card.WidthNarrow = 180
	s.Card.NarrowBreakpoint = 520
	s.Card.BaseHeight = 64
	s.Card.LineHeight = 18
	s.Card.FontSize = 13
	s.Card.Background = "#161b22"
	s.Categories = map[string]string{
		string(document.CategoryTechnique): "#e05252",
		string(document.CategoryAuthor):    "#528fe0",
		string(document.CategoryOther):     "#52b788",
	}
	s.Borders = map[string]string{
		document.BorderDefault: "#30363d",
		document.BorderRed:     "#e05252",
		document.BorderBlue:    "#528fe0",
	}
	s.Connector.StrokeWidth = 2
	s.Axis.Line = "#30363d"
	s.Axis.Tick = "#8b949e"
	return s
}

// LoadFS reads the embedded base style, overlaying it on the built-in
// defaults so a partial file still yields a complete sheet.
func LoadFS(fsys fs.FS, name string) (*Sheet, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return overlay(data)
}

// LoadFile applies a user override file on top of the defaults.
func LoadFile(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return overlay(data)
}

func overlay(data []byte) (*Sheet, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("style sheet: %w", err)
	}
	return s, nil
}

// CardWidth picks the card width for a measured container, shrinking the
// cards on narrow viewports.
func (s *Sheet) CardWidth(containerWidth float64) float64 {
	if containerWidth > 0 && containerWidth < s.Card.NarrowBreakpoint {
		return s.Card.WidthNarrow
	}
	return s.Card.Width
}

// Accent returns a category's column color.
func (s *Sheet) Accent(cat document.Category) string {
	if c, ok := s.Categories[string(cat)]; ok {
		return c
	}
	return s.Page.Subtle
}

// BorderColor resolves a border tag to its color, falling back to the
// default tag for unknown values from hand-edited imports.
func (s *Sheet) BorderColor(tag string) string {
	if c, ok := s.Borders[tag]; ok {
		return c
	}
	return s.Borders[document.BorderDefault]
}

// Metrics derives the height-estimation constants for a container width.
func (s *Sheet) Metrics(containerWidth float64) measure.Metrics {
	return measure.Metrics{
		CardWidth:   s.CardWidth(containerWidth),
		BaseHeight:  s.Card.BaseHeight,
		LineHeight:  s.Card.LineHeight,
		FontSize:    s.Card.FontSize,
		GlyphFactor: 0.6,
	}
}
