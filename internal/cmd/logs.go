package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View viewer debug logs",
	Long: `View and filter the viewer's debug log.

Logging is enabled with logging.enabled; entries are written as JSON lines
to debug.log in logging.dir.

Examples:
  # Show the last 50 entries
  pdfcontainer logs

  # Show everything
  pdfcontainer logs -n 0

  # Follow the log while the viewer runs
  pdfcontainer logs -f

  # Only warnings and errors from the projector
  pdfcontainer logs --level warn --component projector

  # Entries from the last 10 minutes matching a pattern
  pdfcontainer logs --since 10m --grep "slot|render"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsComponent string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only show entries from this component")
}

// logEntry is one parsed JSON log line.
type logEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Msg        string         `json:"msg"`
	Component  string         `json:"component,omitempty"`
	NodeID     string         `json:"node_id,omitempty"`
	Element    string         `json:"element,omitempty"`
	Generation uint64         `json:"generation,omitempty"`
	Extra      map[string]any `json:"-"`
}

// UnmarshalJSON captures fields without a struct field in Extra.
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type alias logEntry
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "component", "node_id", "element", "generation"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter holds the parsed filter flags.
type logFilter struct {
	minLevel  int
	since     time.Time
	grep      *regexp.Regexp
	component string
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// logStyles colors log output. Colors are dropped when the output is not a
// terminal.
type logStyles struct {
	dim   lipgloss.Style
	field lipgloss.Style
	level map[string]lipgloss.Style
}

func newLogStyles(w io.Writer) logStyles {
	r := lipgloss.NewRenderer(w)
	return logStyles{
		dim:   r.NewStyle().Foreground(lipgloss.Color("8")),
		field: r.NewStyle().Foreground(lipgloss.Color("6")),
		level: map[string]lipgloss.Style{
			logging.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("8")),
			logging.LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("4")),
			logging.LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			logging.LevelError: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// format renders an entry as one line.
func (s logStyles) format(entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(s.dim.Render("[" + entry.Time.Format("15:04:05.000") + "]"))
	level := strings.ToUpper(entry.Level)
	sb.WriteString(" ")
	sb.WriteString(s.level[level].Render("[" + level + "]"))
	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(s.field.Render(entry.Component + ":"))
	}
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	if entry.Element != "" {
		sb.WriteString(" ")
		sb.WriteString(s.field.Render("element="))
		fmt.Fprintf(&sb, "%s#%d", entry.Element, entry.Generation)
	}
	if entry.NodeID != "" {
		sb.WriteString(" ")
		sb.WriteString(s.field.Render("node="))
		sb.WriteString(entry.NodeID)
	}

	keys := make([]string, 0, len(entry.Extra))
	for k := range entry.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(s.field.Render(k + "="))
		fmt.Fprintf(&sb, "%v", entry.Extra[k])
	}

	return sb.String()
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	logPath := filepath.Join(LogDir(cfg.Logging), logging.LogFileName)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		if !cfg.Logging.Enabled {
			fmt.Fprintln(out, "Enable them with: pdfcontainer config set logging.enabled true")
		}
		return nil
	}

	filter := logFilter{minLevel: -1, component: logsComponent}
	if logsLevel != "" {
		filter.minLevel = levelPriority(logging.ParseLevel(logsLevel))
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.since = time.Now().Add(-duration)
	}
	if logsGrep != "" {
		filter.grep, err = regexp.Compile(logsGrep)
		if err != nil {
			return fmt.Errorf("invalid grep pattern: %w", err)
		}
	}

	styles := newLogStyles(out)
	if logsFollow {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return followLogs(ctx, out, logPath, filter, styles)
	}
	return displayLogs(out, logPath, logsTail, filter, styles)
}

// displayLogs prints the filtered entries of the log file, keeping the
// last tail of them when tail is positive.
func displayLogs(w io.Writer, logPath string, tail int, filter logFilter, styles logStyles) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if line, ok := filterLine(scanner.Text(), filter, styles); ok {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	if len(lines) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
	}
	return nil
}

// followLogs implements tail -f behavior until ctx is done.
func followLogs(ctx context.Context, w io.Writer, logPath string, filter logFilter, styles logStyles) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Fprintf(w, "Following logs... (Ctrl+C to stop)\n\n")

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading log file: %w", err)
		}
		if out, ok := filterLine(line, filter, styles); ok {
			fmt.Fprintln(w, out)
		}
	}
}

// filterLine parses and formats one raw line. Lines that are not JSON pass
// through unchanged.
func filterLine(raw string, filter logFilter, styles logStyles) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return raw, true
	}
	if !filter.passes(&entry) {
		return "", false
	}
	return styles.format(&entry), true
}

// passes reports whether an entry passes all filter criteria.
func (f logFilter) passes(entry *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}
	if f.component != "" && entry.Component != f.component {
		return false
	}
	if f.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}
