package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/notionsite/internal/content"
	"github.com/starford/notionsite/internal/notion"
	"github.com/starford/notionsite/internal/splice"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app" json:"app"`
	Notion  NotionConfig      `yaml:"notion" json:"notion"`
	Site    SiteConfig        `yaml:"site" json:"site"`
	Preview PreviewConfig     `yaml:"preview" json:"preview"`
}

// Validate validates the configuration. Field errors are reported under
// their YAML keys; the json tags exist only for ozzo-validation's error names.
func (c *Config) Validate() error {
	if err := c.Notion.Validate(); err != nil {
		return fmt.Errorf("notion: %w", err)
	}
	return c.ValidateLocal()
}

// ValidateLocal validates every section except notion, for runs that never
// query the service.
func (c *Config) ValidateLocal() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Preview.Validate(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level" json:"log_level"`
	LogFormat string     `yaml:"log_format" json:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.Required, validation.In(LogFormatJSON, LogFormatText)),
	)
}

// NotionConfig holds the credential, the database and the query shape.
type NotionConfig struct {
	Token          string        `yaml:"token" json:"token"`
	DatabaseID     string        `yaml:"database_id" json:"database_id"`
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	Version        string        `yaml:"version" json:"version"`
	TitleProperty  string        `yaml:"title_property" json:"title_property"`
	StatusProperty string        `yaml:"status_property" json:"status_property"`
	StatusValue    string        `yaml:"status_value" json:"status_value"`
	DateProperty   string        `yaml:"date_property" json:"date_property"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"` // 0 keeps the transport default
}

// Validate validates the Notion configuration.
func (c *NotionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.DatabaseID, validation.Required),
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.TitleProperty, validation.Required),
		validation.Field(&c.StatusProperty, validation.Required),
		validation.Field(&c.StatusValue, validation.Required),
		validation.Field(&c.DateProperty, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// SiteConfig holds the template document and link settings.
type SiteConfig struct {
	Template    string `yaml:"template" json:"template"`
	StartMarker string `yaml:"start_marker" json:"start_marker"`
	EndMarker   string `yaml:"end_marker" json:"end_marker"`
	LinkBase    string `yaml:"link_base" json:"link_base"`
	LinkQuery   string `yaml:"link_query" json:"link_query"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Template, validation.Required),
		validation.Field(&c.StartMarker, validation.Required),
		validation.Field(&c.EndMarker, validation.Required,
			validation.NotIn(c.StartMarker).Error("must differ from start_marker")),
		validation.Field(&c.LinkBase, validation.Required, is.URL),
	)
}

// Markers returns the configured marker pair.
func (c *SiteConfig) Markers() splice.Markers {
	return splice.Markers{Start: c.StartMarker, End: c.EndMarker}
}

// PreviewConfig holds the local preview server configuration.
type PreviewConfig struct {
	Port int    `yaml:"port" json:"port"`
	Root string `yaml:"root" json:"root"`
}

// Address returns the preview server address.
func (c *PreviewConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the preview configuration.
func (c *PreviewConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Root, validation.Required),
	)
}

// contentOptions assembles the fetcher options from the Notion and site sections.
func (c *Config) contentOptions() content.Options {
	return content.Options{
		DatabaseID:     c.Notion.DatabaseID,
		TitleProperty:  c.Notion.TitleProperty,
		StatusProperty: c.Notion.StatusProperty,
		StatusValue:    c.Notion.StatusValue,
		DateProperty:   c.Notion.DateProperty,
		Link: content.LinkOptions{
			Base:  c.Site.LinkBase,
			Query: c.Site.LinkQuery,
		},
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
// Token and DatabaseID have no default.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
		},
		Notion: NotionConfig{
			BaseURL:        notion.DefaultBaseURL,
			Version:        notion.DefaultVersion,
			TitleProperty:  content.DefaultTitleProperty,
			StatusProperty: "State",
			StatusValue:    "Published",
			DateProperty:   "Date",
		},
		Site: SiteConfig{
			Template:    "index.html",
			StartMarker: splice.DefaultMarkers.Start,
			EndMarker:   splice.DefaultMarkers.End,
			LinkBase:    content.DefaultLinkBase,
			LinkQuery:   content.DefaultLinkQuery,
		},
		Preview: PreviewConfig{
			Port: 8080,
			Root: ".",
		},
	}
}
