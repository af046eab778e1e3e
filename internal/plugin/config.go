package plugin

// Config holds the plugin settings.
type Config struct {
	// DefaultZoom is "fit-page", "fit-width" or a numeric level such as "1.5".
	DefaultZoom string
	// ZoomLevels are the steps ZoomIn and ZoomOut move between.
	ZoomLevels     []float64
	ScrollStrategy string
	ThumbnailWidth int
	ThumbnailGap   int
	ExportDir      string
}

// DefaultZoomLevels are the zoom steps used when none are configured.
var DefaultZoomLevels = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3, 4}

// DefaultConfig returns the viewer's plugin defaults.
func DefaultConfig() Config {
	return Config{
		DefaultZoom:    ZoomModeFitPage,
		ZoomLevels:     DefaultZoomLevels,
		ScrollStrategy: "vertical",
		ThumbnailWidth: 150,
		ThumbnailGap:   10,
		ExportDir:      ".",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultZoom == "" {
		c.DefaultZoom = d.DefaultZoom
	}
	if len(c.ZoomLevels) == 0 {
		c.ZoomLevels = d.ZoomLevels
	}
	if c.ScrollStrategy == "" {
		c.ScrollStrategy = d.ScrollStrategy
	}
	if c.ThumbnailWidth <= 0 {
		c.ThumbnailWidth = d.ThumbnailWidth
	}
	if c.ThumbnailGap < 0 {
		c.ThumbnailGap = d.ThumbnailGap
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	return c
}
