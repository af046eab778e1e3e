package bridge

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/term"

	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
)

// TagName is the tag the viewer element is defined under.
const TagName = "pdf-container"

// DefaultURL is the document shown when no configuration is given.
const DefaultURL = "https://snippet.embedpdf.com/ebook.pdf"

// Config is the element configuration.
type Config struct {
	URL string `mapstructure:"url"`
}

// DefaultConfig returns the configuration used when none is assigned.
func DefaultConfig() Config {
	return Config{URL: DefaultURL}
}

// DecodeConfig converts a loosely typed configuration object into a Config.
// Unknown keys are rejected.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, errors.Wrap(err, "decode element config")
	}
	return cfg, nil
}

// Status is the element's load status.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Host is the page an element is attached to.
type Host interface {
	// Attached reports whether the host is live and can display elements.
	Attached() bool
}

// Invalidator is implemented by hosts that need to be told to redraw.
type Invalidator interface {
	Invalidate()
}

// Environment reports whether elements can run at all.
type Environment interface {
	SupportsElements() bool
}

// TerminalEnvironment supports elements when Out is a terminal.
type TerminalEnvironment struct {
	Out *os.File
}

// SupportsElements implements Environment.
func (e TerminalEnvironment) SupportsElements() bool {
	out := e.Out
	if out == nil {
		out = os.Stdout
	}
	return term.IsTerminal(int(out.Fd()))
}

// StaticEnvironment is an Environment with a fixed answer.
type StaticEnvironment bool

// SupportsElements implements Environment.
func (e StaticEnvironment) SupportsElements() bool { return bool(e) }

// Session is what a ready mount exposes to host callbacks.
type Session struct {
	Generation uint64
	Document   *engine.Document
	Runtime    *plugin.Runtime
	Commands   *command.Registry
	// Renderer is the element scope's isolated renderer.
	Renderer *lipgloss.Renderer
}

// Stats are the element's lifecycle counters.
type Stats struct {
	Mounts     int
	Unmounts   int
	Generation uint64
	// Subscriptions is the live subscription count of the current state
	// store, 0 when nothing is mounted.
	Subscriptions int
}
