package bridge

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
)

// Constructor creates an unconnected element.
type Constructor func(opts ...Option) *Element

// Definitions maps tag names to element constructors.
type Definitions struct {
	mu   sync.RWMutex
	defs map[string]Constructor
}

// DefaultDefinitions is the process-wide registry.
var DefaultDefinitions = NewDefinitions()

// NewDefinitions creates an empty registry.
func NewDefinitions() *Definitions {
	return &Definitions{defs: make(map[string]Constructor)}
}

// Define registers c under tag. Defining a tag that already exists is a
// no-op and reports false.
func (d *Definitions) Define(tag string, c Constructor) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.defs[tag]; ok {
		return false
	}
	d.defs[tag] = c
	return true
}

// Get returns the constructor for tag.
func (d *Definitions) Get(tag string) (Constructor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.defs[tag]
	return c, ok
}

// Tags returns the defined tags in sorted order.
func (d *Definitions) Tags() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	tags := make([]string, 0, len(d.defs))
	for t := range d.defs {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// Create constructs an element for tag.
func (d *Definitions) Create(tag string, opts ...Option) (*Element, error) {
	c, ok := d.Get(tag)
	if !ok {
		return nil, fmt.Errorf("%w: element %q is not defined", errors.ErrUnknownComponent, tag)
	}
	return c(opts...), nil
}

// DefineContainer defines the viewer element under TagName. It is safe to
// call any number of times; only the first call registers.
func DefineContainer(d *Definitions) bool {
	return d.Define(TagName, NewElement)
}
