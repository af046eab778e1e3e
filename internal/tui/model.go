package tui

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/pdfcontainer/internal/bridge"
	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/keymap"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/renderer"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
	"github.com/Iron-Ham/pdfcontainer/internal/viewer"
)

// viewerCommands maps key commands onto the viewer command they trigger.
var viewerCommands = map[keymap.Command]string{
	keymap.CmdNextPage:           "nextPage",
	keymap.CmdPrevPage:           "previousPage",
	keymap.CmdZoomIn:             "zoomIn",
	keymap.CmdZoomOut:            "zoomOut",
	keymap.CmdSidebar:            "sidebar",
	keymap.CmdHighlightTool:      "highlight",
	keymap.CmdHighlightSelection: "highlightSelection",
	keymap.CmdDeleteAnnotation:   "deleteAnnotation",
	keymap.CmdUndo:               "undo",
	keymap.CmdRedo:               "redo",
}

// Model is the bubbletea model hosting one viewer element.
type Model struct {
	el      *bridge.Element
	keymap  *keymap.Keymap
	palette *styles.Palette
	styles  *styles.Styles
	doc     *DocumentView
	logger  *logging.Logger

	spinner spinner.Model
	input   textinput.Model
	help    help.Model
	ticking bool

	mode        keymap.Mode
	menuCursor  int
	menuCommand string
	// anchor and cursor are the ends of a keyboard selection.
	anchor plugin.Position
	cursor plugin.Position

	sidebarWidth int
	panelWidth   int

	flash    string
	flashErr bool
	flashID  int

	width    int
	height   int
	showHelp bool
	quitting bool
}

// NewModel creates a model for the given TUI settings. The element is
// attached with SetElement once it has been created with ElementOptions.
func NewModel(cfg config.TUIConfig, palette *styles.Palette, logger *logging.Logger) *Model {
	if palette == nil {
		palette = styles.DefaultPalette()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	st := styles.New(nil, palette)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Spinner

	in := textinput.New()
	in.Placeholder = "Search"
	in.Prompt = "/ "
	in.CharLimit = 256

	doc := NewDocumentView()
	doc.SetStyles(st)

	return &Model{
		keymap:       keymap.Default(),
		palette:      palette,
		styles:       st,
		doc:          doc,
		logger:       logger.WithComponent("tui"),
		spinner:      sp,
		input:        in,
		help:         help.New(),
		mode:         keymap.ModeNormal,
		sidebarWidth: cfg.SidebarWidth,
		panelWidth:   cfg.PanelWidth,
	}
}

// ElementOptions returns the element options that route its renderers and
// document area through m.
func (m *Model) ElementOptions() []bridge.Option {
	return []bridge.Option{
		bridge.WithOnInitialized(m.onInitialized),
		bridge.WithDocumentView(m.doc.Render),
	}
}

// SetElement attaches the element m drives.
func (m *Model) SetElement(el *bridge.Element) { m.el = el }

// Mode returns the current input mode.
func (m *Model) Mode() keymap.Mode { return m.mode }

// onInitialized runs once per mount, before the element reports ready.
func (m *Model) onInitialized(s bridge.Session) {
	m.styles = styles.New(s.Renderer, m.palette)
	m.doc.SetStyles(m.styles)
	m.doc.Reset()
	m.mode = keymap.ModeNormal
	m.menuCursor, m.menuCommand = 0, ""
	m.input.SetValue("")
	m.input.Blur()

	ui, ok := plugin.Get[*plugin.UI](s.Runtime, store.UIPlugin)
	if !ok {
		m.logger.Warn("ui capability missing, renderers not registered")
		return
	}
	renderer.Register(ui, renderer.Options{
		Session:      s,
		Styles:       m.styles,
		SidebarWidth: m.sidebarWidth,
		PanelWidth:   m.panelWidth,
		SearchInput:  func() string { return m.input.View() },
		MenuCursor:   func() int { return m.menuCursor },
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.ticking = true
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case runMsg:
		msg.fn()
		m.syncMode()
		return m, nil

	case invalidateMsg:
		m.syncMode()
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case configChangedMsg:
		return m, m.reconfigure(msg.cfg)

	case flashMsg:
		return m, m.setFlash(msg.text, msg.isErr)

	case clearFlashMsg:
		if msg.id == m.flashID {
			m.flash, m.flashErr = "", false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.width == 0 || m.el == nil {
		return ""
	}
	body := m.el.Render(m.width, m.elementHeight())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m *Model) loading() bool {
	if m.el == nil {
		return true
	}
	status, _ := m.el.Status()
	return status == bridge.StatusLoading || status == bridge.StatusIdle
}

func (m *Model) resize() {
	if m.el != nil && m.width > 0 {
		m.el.Resize(m.width, m.elementHeight())
	}
}

func (m *Model) elementHeight() int {
	return max(m.height-lipgloss.Height(m.footer()), 1)
}

func (m *Model) startSpinner() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}

func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flashID++
	m.flash, m.flashErr = text, isErr
	return clearFlashAfter(m.flashID)
}

func (m *Model) reconfigure(cfg *config.Config) tea.Cmd {
	if cfg == nil || m.el == nil {
		return nil
	}
	if cfg.TUI.ThemeFile == "" {
		m.palette = styles.GetPalette(styles.ThemeName(cfg.TUI.Theme))
	}
	m.sidebarWidth, m.panelWidth = cfg.TUI.SidebarWidth, cfg.TUI.PanelWidth
	m.styles = styles.New(nil, m.palette)
	m.spinner.Style = m.styles.Spinner

	if m.el.Config() == cfg.Element() {
		return m.setFlash("Configuration reloaded", false)
	}
	m.logger.Info("reloading document", "url", cfg.Document.URL)
	m.el.Reconfigure(cfg.Element())
	m.resize()
	return tea.Batch(m.startSpinner(), m.setFlash("Loading "+cfg.Document.URL, false))
}

// syncMode follows the command menu state: the menu mode is entered when a
// menu opens and left when it closes.
func (m *Model) syncMode() {
	s, ok := m.session()
	if !ok {
		if m.mode == keymap.ModeMenu {
			m.mode = keymap.ModeNormal
		}
		return
	}
	cm := uiState(s).CommandMenu(command.DefaultMenuID)
	switch {
	case cm.Open && m.mode == keymap.ModeNormal:
		m.mode = keymap.ModeMenu
		m.menuCursor, m.menuCommand = 0, cm.ActiveCommand
	case cm.Open && m.mode == keymap.ModeMenu && cm.ActiveCommand != m.menuCommand:
		m.menuCursor, m.menuCommand = 0, cm.ActiveCommand
	case !cm.Open && m.mode == keymap.ModeMenu:
		m.mode = keymap.ModeNormal
		m.menuCommand = ""
	}
}

func (m *Model) session() (bridge.Session, bool) {
	if m.el == nil {
		return bridge.Session{}, false
	}
	return m.el.Session()
}

func (m *Model) trigger(id string, origin command.Origin) tea.Cmd {
	err := m.el.Trigger(id, origin)
	m.syncMode()
	if err != nil {
		if errors.IsNotReady(err) {
			return nil
		}
		m.logger.Warn("command failed", "command", id, "error", err)
		return m.setFlash(err.Error(), true)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keymap.Lookup(m.mode, msg)
	if !ok {
		if m.mode == keymap.ModeSearch {
			return m, m.updateQuery(msg)
		}
		return m, nil
	}
	if cmd == keymap.CmdQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if cmd == keymap.CmdToggleHelp {
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil
	}

	s, ready := m.session()
	if !ready {
		return m, nil
	}
	switch m.mode {
	case keymap.ModeSearch:
		return m, m.searchKey(s, cmd)
	case keymap.ModeSelect:
		return m, m.selectKey(s, cmd)
	case keymap.ModeMenu:
		return m, m.menuKey(s, cmd)
	default:
		return m, m.normalKey(s, cmd)
	}
}

func (m *Model) normalKey(s bridge.Session, cmd keymap.Command) tea.Cmd {
	if id, ok := viewerCommands[cmd]; ok {
		return m.trigger(id, command.Origin{})
	}

	switch cmd {
	case keymap.CmdScrollDown:
		m.doc.ScrollBy(1)
	case keymap.CmdScrollUp:
		m.doc.ScrollBy(-1)
	case keymap.CmdFirstPage:
		if sc, ok := plugin.Get[*plugin.Scroll](s.Runtime, store.ScrollPlugin); ok {
			sc.ScrollToPage(1)
		}
	case keymap.CmdLastPage:
		if sc, ok := plugin.Get[*plugin.Scroll](s.Runtime, store.ScrollPlugin); ok {
			sc.ScrollToPage(s.Document.PageCount())
		}
	case keymap.CmdZoomMenu:
		return m.trigger("zoom", command.Origin{Trigger: "zoomButton", Position: "bottom"})
	case keymap.CmdThumbnails:
		return m.showTab(s, "thumbnailsTab")
	case keymap.CmdOutline:
		return m.showTab(s, "outlineTab")
	case keymap.CmdSearch:
		return m.beginSearch(s)
	case keymap.CmdNextResult:
		if sp, ok := plugin.Get[*plugin.Search](s.Runtime, store.SearchPlugin); ok {
			sp.NextResult()
		}
	case keymap.CmdPrevResult:
		if sp, ok := plugin.Get[*plugin.Search](s.Runtime, store.SearchPlugin); ok {
			sp.PreviousResult()
		}
	case keymap.CmdBeginSelect:
		m.beginSelect(s)
	case keymap.CmdCopy:
		sel, _ := store.Slice[store.SelectionState](s.Runtime.Store().Snapshot(), store.SelectionPlugin)
		if !sel.Active {
			return m.setFlash("Nothing selected", false)
		}
		if cmd := m.trigger("copy", command.Origin{}); cmd != nil {
			return cmd
		}
		sel, _ = store.Slice[store.SelectionState](s.Runtime.Store().Snapshot(), store.SelectionPlugin)
		if sel.CopyError != "" {
			return m.setFlash("Copy failed: "+sel.CopyError, true)
		}
		return m.setFlash("Copied selection", false)
	case keymap.CmdNextAnnotation:
		return m.nextAnnotation(s)
	case keymap.CmdDownload:
		if cmd := m.trigger("download", command.Origin{}); cmd != nil {
			return cmd
		}
		ex, _ := store.Slice[store.ExportState](s.Runtime.Store().Snapshot(), store.ExportPlugin)
		if ex.LastError != "" {
			return m.setFlash("Download failed: "+ex.LastError, true)
		}
		return m.setFlash("Saved to "+ex.LastPath, false)
	case keymap.CmdClear:
		m.clear(s)
	}
	return nil
}

// showTab opens the sidebar on one of its tabs.
func (m *Model) showTab(s bridge.Session, tabCommand string) tea.Cmd {
	if p := uiState(s).Panel(viewer.LeftPanelID); !p.Open || p.VisibleChild != viewer.LeftPanelMainID {
		if cmd := m.trigger("sidebar", command.Origin{}); cmd != nil {
			return cmd
		}
	}
	return m.trigger(tabCommand, command.Origin{})
}

func (m *Model) clear(s bridge.Session) {
	if sel, ok := plugin.Get[*plugin.Selection](s.Runtime, store.SelectionPlugin); ok {
		sel.Clear()
	}
	if ann, ok := plugin.Get[*plugin.Annotation](s.Runtime, store.AnnotationPlugin); ok {
		ann.DeselectAnnotation()
	}
}

// Search

func (m *Model) beginSearch(s bridge.Session) tea.Cmd {
	sp, ok := plugin.Get[*plugin.Search](s.Runtime, store.SearchPlugin)
	if !ok {
		return nil
	}
	if p := uiState(s).Panel(viewer.RightPanelID); !p.Open || p.VisibleChild != viewer.SearchID {
		if cmd := m.trigger("search", command.Origin{Trigger: "searchButton"}); cmd != nil {
			return cmd
		}
	}
	sp.StartSearch()
	m.mode = keymap.ModeSearch
	m.input.SetValue(sp.State().Query)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateQuery(msg tea.KeyMsg) tea.Cmd {
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != prev {
		if s, ok := m.session(); ok {
			if sp, ok := plugin.Get[*plugin.Search](s.Runtime, store.SearchPlugin); ok {
				sp.SearchAllPages(q)
			}
		}
	}
	return cmd
}

func (m *Model) searchKey(s bridge.Session, cmd keymap.Command) tea.Cmd {
	sp, ok := plugin.Get[*plugin.Search](s.Runtime, store.SearchPlugin)
	if !ok {
		return nil
	}
	switch cmd {
	case keymap.CmdSubmit:
		if q := m.input.Value(); q != sp.State().Query {
			sp.SearchAllPages(q)
		}
		m.input.Blur()
		m.mode = keymap.ModeNormal
		if st := sp.State(); st.Query != "" && st.Total == 0 {
			return m.setFlash(fmt.Sprintf("No results for %q", st.Query), false)
		}
	case keymap.CmdNextResult:
		sp.NextResult()
	case keymap.CmdPrevResult:
		sp.PreviousResult()
	case keymap.CmdToggleCase:
		sp.ToggleFlag(store.SearchMatchCase)
	case keymap.CmdToggleWord:
		sp.ToggleFlag(store.SearchWholeWord)
	case keymap.CmdToggleGlob:
		sp.ToggleFlag(store.SearchWildcard)
	case keymap.CmdCancel:
		m.input.Blur()
		m.input.SetValue("")
		m.mode = keymap.ModeNormal
		sp.StopSearch()
		if p := uiState(s).Panel(viewer.RightPanelID); p.Open && p.VisibleChild == viewer.SearchID {
			return m.trigger("search", command.Origin{Trigger: "searchButton"})
		}
	}
	return nil
}

// Selection

func (m *Model) beginSelect(s bridge.Session) {
	sel, ok := plugin.Get[*plugin.Selection](s.Runtime, store.SelectionPlugin)
	if !ok {
		return
	}
	sc, _ := store.Slice[store.ScrollState](s.Runtime.Store().Snapshot(), store.ScrollPlugin)
	page := max(sc.CurrentPage-1, 0)
	text := []rune(s.Document.Text(page))
	if len(text) == 0 {
		return
	}

	start := 0
	for start < len(text) && unicode.IsSpace(text[start]) {
		start++
	}
	start = min(start, len(text)-1)

	m.anchor = plugin.Position{Page: page, Offset: start}
	m.cursor = m.anchor
	sel.Begin(m.anchor)
	sel.Update(plugin.Position{Page: page, Offset: start + 1})
	if im, ok := plugin.Get[*plugin.Interaction](s.Runtime, store.InteractionPlugin); ok {
		im.ActivateMode(plugin.ModeTextSelect)
	}
	m.doc.Cursor = start
	m.mode = keymap.ModeSelect
}

func (m *Model) selectKey(s bridge.Session, cmd keymap.Command) tea.Cmd {
	sel, ok := plugin.Get[*plugin.Selection](s.Runtime, store.SelectionPlugin)
	if !ok {
		return nil
	}
	text := []rune(s.Document.Text(m.cursor.Page))

	switch cmd {
	case keymap.CmdWordNext:
		m.cursor.Offset = NextWord(text, m.cursor.Offset)
	case keymap.CmdWordPrev:
		m.cursor.Offset = PrevWord(text, m.cursor.Offset)
	case keymap.CmdCursorNext:
		m.cursor.Offset = LineDown(text, m.cursor.Offset)
	case keymap.CmdCursorPrev:
		m.cursor.Offset = LineUp(text, m.cursor.Offset)
	case keymap.CmdSubmit:
		sel.End()
		m.endSelect(s)
		ann, _ := store.Slice[store.AnnotationState](s.Runtime.Store().Snapshot(), store.AnnotationPlugin)
		if ann.ActiveVariant != "" && sel.State().Active {
			return m.trigger("highlightSelection", command.Origin{})
		}
		return nil
	case keymap.CmdCancel:
		sel.End()
		sel.Clear()
		m.endSelect(s)
		return nil
	}

	end := m.cursor
	if m.cursor.Offset >= m.anchor.Offset {
		end.Offset++
	}
	sel.Update(end)
	m.doc.Cursor = m.cursor.Offset
	return nil
}

func (m *Model) endSelect(s bridge.Session) {
	if im, ok := plugin.Get[*plugin.Interaction](s.Runtime, store.InteractionPlugin); ok {
		im.ActivateMode(plugin.ModePointer)
	}
	m.doc.Cursor = -1
	m.mode = keymap.ModeNormal
}

// NextWord returns the offset of the start of the word after offset, or the
// last rune when there is none.
func NextWord(text []rune, offset int) int {
	if len(text) == 0 {
		return 0
	}
	i := offset
	for i < len(text) && !unicode.IsSpace(text[i]) {
		i++
	}
	for i < len(text) && unicode.IsSpace(text[i]) {
		i++
	}
	return min(i, len(text)-1)
}

// PrevWord returns the offset of the start of the word before offset.
func PrevWord(text []rune, offset int) int {
	i := min(offset, len(text)) - 1
	for i > 0 && unicode.IsSpace(text[i]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(text[i-1]) {
		i--
	}
	return max(i, 0)
}

// LineDown moves offset to the same column on the next line.
func LineDown(text []rune, offset int) int {
	start := lineStart(text, offset)
	col := offset - start
	next := slices.Index(text[min(offset, len(text)):], '\n')
	if next < 0 {
		return max(len(text)-1, 0)
	}
	nextStart := offset + next + 1
	nextEnd := lineEnd(text, nextStart)
	return min(nextStart+col, max(nextEnd-1, nextStart), max(len(text)-1, 0))
}

// LineUp moves offset to the same column on the previous line.
func LineUp(text []rune, offset int) int {
	start := lineStart(text, offset)
	if start == 0 {
		return 0
	}
	col := offset - start
	prevStart := lineStart(text, start-1)
	return min(prevStart+col, max(start-2, prevStart))
}

func lineStart(text []rune, offset int) int {
	offset = min(offset, len(text))
	for offset > 0 && text[offset-1] != '\n' {
		offset--
	}
	return offset
}

func lineEnd(text []rune, offset int) int {
	for offset < len(text) && text[offset] != '\n' {
		offset++
	}
	return offset
}

// Annotations

func (m *Model) nextAnnotation(s bridge.Session) tea.Cmd {
	ann, ok := plugin.Get[*plugin.Annotation](s.Runtime, store.AnnotationPlugin)
	if !ok {
		return nil
	}
	state := s.Runtime.Store().Snapshot()
	sc, _ := store.Slice[store.ScrollState](state, store.ScrollPlugin)
	page := max(sc.CurrentPage-1, 0)

	list := slices.Clone(ann.State().Pages[page])
	if len(list) == 0 {
		return m.setFlash("No annotations on this page", false)
	}
	slices.SortStableFunc(list, func(a, b store.Annotation) int { return a.Range.Start - b.Range.Start })

	next := 0
	if cur, ok := ann.Selected(); ok && cur.PageIndex == page {
		i := slices.IndexFunc(list, func(a store.Annotation) bool { return a.ID == cur.ID })
		next = (i + 1) % len(list)
	}
	ann.SelectAnnotation(page, list[next].ID)
	return nil
}

// Menu

func (m *Model) menuKey(s bridge.Session, cmd keymap.Command) tea.Cmd {
	state := s.Runtime.Store().Snapshot()
	cm := uiState(s).CommandMenu(command.DefaultMenuID)
	items := renderer.MenuItems(s.Commands, state, cm.ActiveCommand, cm.Flatten)

	switch cmd {
	case keymap.CmdCursorNext:
		if len(items) > 0 {
			m.menuCursor = (m.menuCursor + 1) % len(items)
		}
	case keymap.CmdCursorPrev:
		if len(items) > 0 {
			m.menuCursor = (m.menuCursor - 1 + len(items)) % len(items)
		}
	case keymap.CmdCancel:
		if ui, ok := plugin.Get[*plugin.UI](s.Runtime, store.UIPlugin); ok {
			ui.CloseCommandMenu(command.DefaultMenuID)
		}
		m.syncMode()
	case keymap.CmdSubmit:
		if m.menuCursor >= len(items) || items[m.menuCursor].Disabled {
			return nil
		}
		return m.trigger(items[m.menuCursor].ID, command.Origin{Trigger: cm.TriggerElement, Position: cm.Position})
	}
	return nil
}

func uiState(s bridge.Session) store.UIState {
	ui, _ := store.Slice[store.UIState](s.Runtime.Store().Snapshot(), store.UIPlugin)
	return ui
}

// Footer

var modeLabels = map[keymap.Mode]string{
	keymap.ModeNormal: "VIEW",
	keymap.ModeSearch: "SEARCH",
	keymap.ModeSelect: "SELECT",
	keymap.ModeMenu:   "MENU",
}

func (m *Model) footer() string {
	m.help.ShowAll = m.showHelp
	helpView := m.help.View(keymap.Help{Keymap: m.keymap, Mode: m.mode, Short: keymap.ShortHelp(m.mode)})

	badge := m.styles.StatusBar.Render(modeLabels[m.mode])
	var status string
	switch {
	case m.loading():
		status = m.spinner.View() + " " + m.styles.Muted.Render("Loading document…")
	case m.flash != "" && m.flashErr:
		status = m.styles.Error.Render(m.flash)
	case m.flash != "":
		status = m.styles.Primary.Render(m.flash)
	}

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, strings.TrimSpace(badge+" "+status), helpView)
	}
	line := badge + " " + status
	if status != "" {
		line += "  "
	}
	return line + helpView
}
