// Package viewer declares the PDF viewer's commands and component tree: the
// header toolbar, the side panels, the floating page controls and selection
// menus, and the command menu.
package viewer

import (
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// RenderKeys are the renderer-dispatch keys the viewer's nodes use.
var RenderKeys = []string{
	"groupedItems",
	"iconButton",
	"header",
	"panel",
	"search",
	"zoom",
	"pageControlsContainer",
	"pageControls",
	"commandMenu",
	"thumbnails",
	"selectButton",
	"textSelectionMenu",
	"leftPanelMain",
	"outline",
	"annotationMenu",
}

// Blueprint is a validated command and component registry pair.
type Blueprint struct {
	Commands   *command.Registry
	Components *component.Registry
}

// New validates the viewer declarations.
func New(logger *logging.Logger) (*Blueprint, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	cmds, err := command.NewRegistry(Commands(), command.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrap(err, "viewer commands")
	}
	comps, err := component.NewRegistry(Components(cmds),
		component.WithLogger(logger),
		component.WithRenderKeys(RenderKeys...),
	)
	if err != nil {
		return nil, errors.Wrap(err, "viewer components")
	}
	return &Blueprint{Commands: cmds, Components: comps}, nil
}
