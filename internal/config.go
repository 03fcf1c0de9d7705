package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// DefaultTagsHeader is the breadcrumb header of the tag-hierarchy index.
const DefaultTagsHeader = "---\n" +
	"BC-list-note-field: down\n" +
	"BC-list-note-exclude-index: true\n" +
	"BC-list-note-neighbour-field: next-tags\n" +
	"---"

// DefaultChronoHeader is the breadcrumb header of the creation-time index.
const DefaultChronoHeader = "---\n" +
	"BC-list-note-field: down\n" +
	"BC-list-note-exclude-index: true\n" +
	"BC-list-note-neighbour-field: next\n" +
	"---"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Tags    TagsConfig        `yaml:"tags"`
	Chrono  ChronoConfig      `yaml:"chrono"`
	Canvas  CanvasConfig      `yaml:"canvas"`
	Diagram DiagramConfig     `yaml:"diagram"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Canvas.Validate(); err != nil {
		return err
	}
	if err := c.Diagram.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.Required, validation.In(LogFormatJSON, LogFormatText)),
	)
}

// VaultConfig locates the vault and the notes folder inside it.
type VaultConfig struct {
	Path      string `yaml:"path"`
	NotesDir  string `yaml:"notes_dir"`
	Recursive bool   `yaml:"recursive"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// TagsConfig configures the tag-hierarchy index. An empty Output disables it.
type TagsConfig struct {
	Output          string   `yaml:"output"`
	Header          string   `yaml:"header"`
	ExcludePrefixes []string `yaml:"exclude_prefixes"`
	IncludeInline   bool     `yaml:"include_inline"`
}

// ChronoConfig configures the creation-time index.
type ChronoConfig struct {
	Output string `yaml:"output"`
	Header string `yaml:"header"`
}

// CanvasConfig configures the lineage canvas.
type CanvasConfig struct {
	Output        string `yaml:"output"`
	CardWidth     int    `yaml:"card_width"`
	CardHeight    int    `yaml:"card_height"`
	HorizontalGap int    `yaml:"horizontal_gap"`
	VerticalGap   int    `yaml:"vertical_gap"`
}

// Validate validates the canvas configuration.
func (c *CanvasConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CardWidth, validation.Required, validation.Min(1)),
		validation.Field(&c.CardHeight, validation.Required, validation.Min(1)),
		validation.Field(&c.HorizontalGap, validation.Min(0)),
		validation.Field(&c.VerticalGap, validation.Min(0)),
	)
}

// DiagramConfig configures the Mermaid diagram and its optional renderer.
type DiagramConfig struct {
	Output        string   `yaml:"output"`
	Direction     string   `yaml:"direction"`
	RenderCommand []string `yaml:"render_command"`
	RenderOutput  string   `yaml:"render_output"`
}

// Validate validates the diagram configuration.
func (c *DiagramConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Direction, validation.Required, validation.In("LR", "RL", "TB", "TD", "BT")),
		validation.Field(&c.RenderOutput, validation.When(len(c.RenderCommand) > 0, validation.Required)),
	)
}

// CatalogConfig holds the SQLite catalog location. An empty Path disables it.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Vault: VaultConfig{
			Path:     ".",
			NotesDir: "Thoughts",
		},
		Tags: TagsConfig{
			Output: "Thought Index Tags.md",
			Header: DefaultTagsHeader,
		},
		Chrono: ChronoConfig{
			Output: "Thought Index Creation Time.md",
			Header: DefaultChronoHeader,
		},
		Canvas: CanvasConfig{
			Output:        "Thoughts Canvas.canvas",
			CardWidth:     400,
			CardHeight:    400,
			HorizontalGap: 100,
			VerticalGap:   100,
		},
		Diagram: DiagramConfig{
			Output:    "Thoughts Diagram.mmd",
			Direction: "LR",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}
