package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Iron-Ham/pdfcontainer/internal/bridge"
	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/metrics"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
)

type host struct{}

func (host) Attached() bool { return true }
func (host) Invalidate()    {}

type memEngine struct{}

func (memEngine) Load(_ context.Context, source string) (*engine.Document, error) {
	if filepath.Base(source) == "broken.pdf" {
		return nil, errors.NewEngineError(source, "parse", errors.New("bad xref"))
	}
	return &engine.Document{
		Name: engine.DocumentName(source),
		Pages: []engine.Page{
			{Index: 0, Text: "Introduction"},
			{Index: 1, Text: "Results"},
			{Index: 2, Text: "Appendix"},
		},
	}, nil
}

// loop collects posted continuations and runs them on the test goroutine.
type loop chan func()

func (l loop) post(fn func()) { l <- fn }

// settle waits for posted work and runs it until none arrives for a short
// while.
func (l loop) settle(t *testing.T) {
	t.Helper()
	select {
	case fn := <-l:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for posted work")
	}
	l.drain()
}

// drain runs posted work until none arrives for a short while.
func (l loop) drain() {
	for {
		select {
		case fn := <-l:
			fn()
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

// recorder subscribes to every event on a bus.
type recorder struct {
	mu    sync.Mutex
	types []string
}

func (r *recorder) handle(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, ev.EventType())
}

func (r *recorder) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.types {
		if t == eventType {
			n++
		}
	}
	return n
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestElementLifecycleIntegration(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, `
document:
  url: /docs/report.pdf
zoom:
  default_level: "1.25"
`))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	bus := event.NewBus(logging.NopLogger())
	rec := &recorder{}
	unsubscribe := bus.SubscribeAll(rec.handle)
	defer unsubscribe()
	collectors := metrics.New()
	l := make(loop, 16)

	el := bridge.Init(cfg.Element(), host{},
		bridge.WithEngine(memEngine{}),
		bridge.WithScheduler(l.post),
		bridge.WithPluginConfig(cfg.Plugins()),
		bridge.WithEvents(bus),
		bridge.WithMetrics(collectors),
		bridge.WithEnvironment(bridge.StaticEnvironment(true)),
		bridge.WithDefinitions(bridge.NewDefinitions()),
	)
	if el == nil {
		t.Fatal("Init() returned nil")
	}
	defer el.Disconnect()

	if _, err := el.Status(); err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if err := el.Trigger("zoomIn", command.Origin{}); !errors.Is(err, errors.ErrNotReady) {
		t.Errorf("Expected ErrNotReady before load, got %v", err)
	}

	l.settle(t)

	s, ok := el.Session()
	if !ok {
		t.Fatal("Expected a session after load")
	}
	if s.Document.PageCount() != 3 {
		t.Errorf("Expected 3 pages, got %d", s.Document.PageCount())
	}
	zoom, _ := plugin.Get[*plugin.Zoom](s.Runtime, store.ZoomPlugin)
	if got := zoom.State().CurrentZoomLevel; got != 1.25 {
		t.Errorf("Expected configured zoom 1.25, got %v", got)
	}

	if err := el.Trigger("zoomIn", command.Origin{}); err != nil {
		t.Fatalf("Trigger(zoomIn) error = %v", err)
	}
	l.drain()
	if got := zoom.State().CurrentZoomLevel; got != 1.5 {
		t.Errorf("Expected zoom 1.5 after zoomIn, got %v", got)
	}

	if rec.count(event.TypeElementMounted) != 1 || rec.count(event.TypeEngineReady) != 1 {
		t.Errorf("Expected one mount and one ready event, got %v", rec.types)
	}
	if rec.count(event.TypeCommandInvoked) != 1 {
		t.Errorf("Expected one command event, got %v", rec.types)
	}
	if got := testutil.ToFloat64(collectors.EngineLoads.WithLabelValues("success")); got != 1 {
		t.Errorf("Expected 1 successful load, got %v", got)
	}
	if got := testutil.ToFloat64(collectors.CommandsInvoked.WithLabelValues("zoomIn")); got != 1 {
		t.Errorf("Expected 1 zoomIn invocation, got %v", got)
	}
}

func TestElementReconfigureIntegration(t *testing.T) {
	bus := event.NewBus(logging.NopLogger())
	rec := &recorder{}
	defer bus.SubscribeAll(rec.handle)()
	l := make(loop, 16)

	el := bridge.Init(bridge.Config{URL: "/docs/report.pdf"}, host{},
		bridge.WithEngine(memEngine{}),
		bridge.WithScheduler(l.post),
		bridge.WithEvents(bus),
		bridge.WithEnvironment(bridge.StaticEnvironment(true)),
		bridge.WithDefinitions(bridge.NewDefinitions()),
	)
	if el == nil {
		t.Fatal("Init() returned nil")
	}
	defer el.Disconnect()
	l.settle(t)

	el.Reconfigure(bridge.Config{URL: "/docs/broken.pdf"})
	l.settle(t)

	if _, err := el.Status(); err == nil {
		t.Error("Expected load error after reconfiguring to a broken document")
	}
	if _, ok := el.Session(); ok {
		t.Error("Expected no session for a failed load")
	}
	if rec.count(event.TypeElementUnmounted) != 1 || rec.count(event.TypeEngineFailed) != 1 {
		t.Errorf("Expected unmount and failure events, got %v", rec.types)
	}
	if stats := el.Stats(); stats.Generation != 2 || stats.Mounts != 2 {
		t.Errorf("Expected generation 2 with 2 mounts, got %+v", stats)
	}
}
