package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// newEngine returns the engine the text command loads documents with.
// Replaced in tests.
var newEngine = func(logger *logging.Logger) engine.Engine {
	return engine.NewPDFKit(engine.WithEngineLogger(logger))
}

var textCmd = &cobra.Command{
	Use:   "text [url]",
	Short: "Print the text of a document",
	Long: `Print the extracted text of a document without starting the viewer.

Examples:
  # Print every page
  pdfcontainer text report.pdf

  # Print page 3 only
  pdfcontainer text report.pdf --page 3

  # Print the outline
  pdfcontainer text report.pdf --outline

  # List search hits
  pdfcontainer text report.pdf --search "revenue" --match-case`,
	Args: cobra.MaximumNArgs(1),
	RunE: runText,
}

var (
	textPage      int
	textOutline   bool
	textSearch    string
	textMatchCase bool
	textWholeWord bool
	textWildcard  bool
)

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().IntVarP(&textPage, "page", "p", 0, "Print only this page (1-based)")
	textCmd.Flags().BoolVar(&textOutline, "outline", false, "Print the document outline instead of text")
	textCmd.Flags().StringVarP(&textSearch, "search", "s", "", "Print search hits for this query instead of text")
	textCmd.Flags().BoolVar(&textMatchCase, "match-case", false, "Match case when searching")
	textCmd.Flags().BoolVar(&textWholeWord, "whole-word", false, "Match whole words when searching")
	textCmd.Flags().BoolVar(&textWildcard, "wildcard", false, "Treat the query as a glob matched against words")
}

func runText(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	source := cfg.Document.URL
	if len(args) == 1 {
		source = ResolveSource(args[0])
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := engine.NewLoader(newEngine(logger), logger).Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load %s: %w", source, err)
	}

	out := cmd.OutOrStdout()
	switch {
	case textOutline:
		if len(doc.Outline) == 0 {
			fmt.Fprintln(out, "No outline.")
			return nil
		}
		printOutline(out, doc.Outline, 0)
		return nil
	case textSearch != "":
		var flags []store.SearchFlag
		if textMatchCase {
			flags = append(flags, store.SearchMatchCase)
		}
		if textWholeWord {
			flags = append(flags, store.SearchWholeWord)
		}
		if textWildcard {
			flags = append(flags, store.SearchWildcard)
		}
		return printSearch(out, doc, textSearch, flags)
	}

	if textPage != 0 {
		if textPage < 1 || textPage > doc.PageCount() {
			return fmt.Errorf("page %d out of range (document has %d pages)", textPage, doc.PageCount())
		}
		fmt.Fprintln(out, doc.Text(textPage-1))
		return nil
	}
	for i := range doc.Pages {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "--- Page %s ---\n", doc.Label(i))
		fmt.Fprintln(out, doc.Text(i))
	}
	return nil
}

func printOutline(w io.Writer, entries []engine.Outline, depth int) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s  (p. %d)\n", strings.Repeat("  ", depth), e.Title, e.Page+1)
		printOutline(w, e.Children, depth+1)
	}
}

func printSearch(w io.Writer, doc *engine.Document, query string, flags []store.SearchFlag) error {
	var total int
	for i := range doc.Pages {
		for _, r := range plugin.FindAll(doc.Text(i), i, query, flags) {
			fmt.Fprintf(w, "p. %s  %s\n", doc.Label(r.PageIndex), r.Excerpt)
			total++
		}
	}
	if total == 0 {
		return fmt.Errorf("no results for %q", query)
	}
	fmt.Fprintf(w, "\n%d result(s)\n", total)
	return nil
}
