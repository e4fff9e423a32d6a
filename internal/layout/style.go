package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RGB is a 0-255 color triple.
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Style holds the colors, margins, and fonts the renderer draws with.
// It is passed into the Renderer by value and never mutated.
type Style struct {
	Primary    RGB     `yaml:"primary"`   // frame, title, table header text
	Highlight  RGB     `yaml:"highlight"` // info and summary box fill
	Muted      RGB     `yaml:"muted"`     // box strokes, grid, bank heading
	Ink        RGB     `yaml:"ink"`       // secondary text
	Margin     float64 `yaml:"margin"`    // page margin in points
	FontFamily string  `yaml:"font_family"`
}

// DefaultStyle returns the stock invoice appearance.
func DefaultStyle() Style {
	return Style{
		Primary:    RGB{R: 33, G: 150, B: 243},  // #2196f3
		Highlight:  RGB{R: 227, G: 242, B: 253}, // #e3f2fd
		Muted:      RGB{R: 176, G: 190, B: 197}, // #b0bec5
		Ink:        RGB{R: 68, G: 68, B: 68},    // #444444
		Margin:     30,
		FontFamily: "Helvetica",
	}
}

// LoadStyle reads optional YAML overrides on top of the default style.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	data, err := os.ReadFile(path)
	if err != nil {
		return style, fmt.Errorf("reading style: %w", err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return style, fmt.Errorf("parsing style: %w", err)
	}
	return style, nil
}
