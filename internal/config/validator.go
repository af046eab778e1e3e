package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "zoom.default_level")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidScrollStrategies returns the list of valid scroll strategies
func ValidScrollStrategies() []string {
	return []string{"vertical", "horizontal"}
}

// Panel width bounds in columns.
const (
	MinPanelWidth = 16
	MaxPanelWidth = 80
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateDocument()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateZoom()...)
	errors = append(errors, c.validateLayout()...)
	errors = append(errors, c.validateMetrics()...)

	return errors
}

func (c *Config) validateDocument() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Document.URL) == "" {
		errors = append(errors, ValidationError{
			Field:   "document.url",
			Value:   c.Document.URL,
			Message: "must not be empty",
		})
		return errors
	}
	if u, err := url.Parse(c.Document.URL); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file" {
			errors = append(errors, ValidationError{
				Field:   "document.url",
				Value:   c.Document.URL,
				Message: "scheme must be http, https or file",
			})
		}
	}
	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	// theme_file registers its theme at startup, so any name is accepted with it
	if c.TUI.ThemeFile == "" && c.TUI.Theme != "" && !styles.IsValidTheme(c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(styles.ValidThemes(), ", ")),
		})
	}

	for field, width := range map[string]int{
		"tui.sidebar_width": c.TUI.SidebarWidth,
		"tui.panel_width":   c.TUI.PanelWidth,
	} {
		// 0 means use the default
		if width == 0 {
			continue
		}
		if width < MinPanelWidth {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   width,
				Message: fmt.Sprintf("must be at least %d columns", MinPanelWidth),
			})
		}
		if width > MaxPanelWidth {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   width,
				Message: fmt.Sprintf("exceeds maximum of %d columns", MaxPanelWidth),
			})
		}
	}
	slices.SortFunc(errors, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateZoom() []ValidationError {
	var errors []ValidationError

	switch lvl := c.Zoom.DefaultLevel; lvl {
	case "", plugin.ZoomModeFitPage, plugin.ZoomModeFitWidth:
	default:
		if f, err := strconv.ParseFloat(lvl, 64); err != nil || f <= 0 {
			errors = append(errors, ValidationError{
				Field:   "zoom.default_level",
				Value:   lvl,
				Message: "must be fit-page, fit-width or a positive number",
			})
		}
	}

	for i, l := range c.Zoom.Levels {
		if l <= 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("zoom.levels[%d]", i),
				Value:   l,
				Message: "must be positive",
			})
		}
	}
	if !slices.IsSorted(c.Zoom.Levels) {
		errors = append(errors, ValidationError{
			Field:   "zoom.levels",
			Value:   c.Zoom.Levels,
			Message: "must be in ascending order",
		})
	}

	return errors
}

func (c *Config) validateLayout() []ValidationError {
	var errors []ValidationError

	if c.Scroll.Strategy != "" && !slices.Contains(ValidScrollStrategies(), c.Scroll.Strategy) {
		errors = append(errors, ValidationError{
			Field:   "scroll.strategy",
			Value:   c.Scroll.Strategy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidScrollStrategies(), ", ")),
		})
	}
	if c.Thumbnail.Width < 0 {
		errors = append(errors, ValidationError{
			Field:   "thumbnail.width",
			Value:   c.Thumbnail.Width,
			Message: "must be non-negative",
		})
	}
	if c.Thumbnail.Gap < 0 {
		errors = append(errors, ValidationError{
			Field:   "thumbnail.gap",
			Value:   c.Thumbnail.Gap,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateMetrics() []ValidationError {
	var errors []ValidationError

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "metrics.addr",
			Value:   c.Metrics.Addr,
			Message: "is required when metrics are enabled",
		})
	}

	return errors
}
