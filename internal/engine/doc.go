// Package engine loads PDF documents for the viewer. It fetches the source
// (an http(s) URL or a local path), parses it with pdfkit and extracts the
// page text, metadata, annotations and outline the plugins work from.
//
// Loads of the same source that overlap in time share one fetch and parse.
package engine
