// Package renderer draws the viewer's component nodes for the terminal. It
// supplies one component.Renderer per render key; the host registers them
// with the ui capability once a mount has booted.
//
// Renderers are pure: they read the frame they are given, plus the session
// the renderers were built for, and return a string. Interactive state that
// lives in the host (the search input, the menu cursor) is read through the
// callbacks in Options.
package renderer
