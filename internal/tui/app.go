package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RanjanLabs/RanjanLabs/internal/browser"
	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
	"github.com/RanjanLabs/RanjanLabs/internal/coordinator"
	"github.com/RanjanLabs/RanjanLabs/internal/logging"
	"github.com/RanjanLabs/RanjanLabs/internal/store"
	"github.com/RanjanLabs/RanjanLabs/internal/update"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeHelp
)

// domainState is the UI state kept per tab next to its coordinator.
type domainState struct {
	coord   *coordinator.Coordinator
	view    coordinator.View
	cursor  int
	scroll  int
	started bool
}

type App struct {
	ctx     context.Context
	domains []*domainState
	tabs    tabBar
	mode    mode

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	spinning    bool

	store         *store.Store
	theme         store.Theme
	updates       *update.Checker
	version       string
	updateVersion string
	permalink     string

	notice string
	err    error
	log    *slog.Logger
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Coordinators []*coordinator.Coordinator
	Store        *store.Store
	Theme        store.Theme
	Updates      *update.Checker
	Version      string
	Logger       *slog.Logger
	Start        int    // initially active domain
	Permalink    string // opened in the start domain instead of its listing
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	theme := opts.Theme
	if theme == "" {
		theme = store.ThemeDark
	}

	a := &App{
		ctx:         context.Background(),
		searchInput: ti,
		spinner:     sp,
		store:       opts.Store,
		theme:       theme,
		updates:     opts.Updates,
		version:     opts.Version,
		permalink:   opts.Permalink,
		log:         log,
	}
	var labels []string
	for _, c := range opts.Coordinators {
		a.domains = append(a.domains, &domainState{coord: c, view: c.Snapshot()})
		labels = append(labels, c.Domain().Label())
	}
	a.tabs = newTabBar(labels)
	a.tabs.jump(opts.Start)
	return a
}

// ApplyTheme points lipgloss' adaptive colors at the dark or light side.
func ApplyTheme(t store.Theme) {
	lipgloss.SetHasDarkBackground(t != store.ThemeLight)
}

func (a *App) Init() tea.Cmd {
	if len(a.domains) == 0 {
		return nil
	}
	var cmds []tea.Cmd
	if a.permalink != "" {
		cmds = append(cmds, a.permalinkCmd(a.tabs.active, a.permalink))
	} else {
		cmds = append(cmds, a.loadCmd(a.tabs.active))
	}
	cmds = append(cmds, a.startSpinner(), a.checkUpdateCmd())
	return tea.Batch(cmds...)
}

func (a *App) active() *domainState {
	if len(a.domains) == 0 {
		return nil
	}
	return a.domains[a.tabs.active]
}

// opCmd runs fn against domain i off the event loop and reports completion.
func (a *App) opCmd(i int, op string, fn func(ctx context.Context, c *coordinator.Coordinator) error) tea.Cmd {
	ctx := a.ctx
	c := a.domains[i].coord
	return func() tea.Msg {
		return opDoneMsg{domain: i, op: op, err: fn(ctx, c)}
	}
}

func (a *App) loadCmd(i int) tea.Cmd {
	a.domains[i].started = true
	return a.opCmd(i, "load", func(ctx context.Context, c *coordinator.Coordinator) error {
		return c.LoadIndex(ctx)
	})
}

func (a *App) reloadCmd(i int) tea.Cmd {
	a.domains[i].started = true
	return a.opCmd(i, "reload", func(ctx context.Context, c *coordinator.Coordinator) error {
		return c.Reload(ctx)
	})
}

func (a *App) selectCmd(i int, id string) tea.Cmd {
	return a.opCmd(i, "select", func(ctx context.Context, c *coordinator.Coordinator) error {
		_, err := c.SelectItem(ctx, id)
		return err
	})
}

func (a *App) navigateCmd(i int) tea.Cmd {
	return a.opCmd(i, "navigate", func(ctx context.Context, c *coordinator.Coordinator) error {
		return c.HandleHistoryNavigation(ctx)
	})
}

func (a *App) permalinkCmd(i int, rawURL string) tea.Cmd {
	a.domains[i].started = true
	return a.opCmd(i, "permalink", func(ctx context.Context, c *coordinator.Coordinator) error {
		return c.OpenPermalink(ctx, rawURL)
	})
}

func (a *App) saveThemeCmd() tea.Cmd {
	st := a.store
	t := a.theme
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		return themeSavedMsg{err: st.SetTheme(t)}
	}
}

func (a *App) checkUpdateCmd() tea.Cmd {
	if a.updates == nil {
		return nil
	}
	if a.store != nil && !update.Due(a.store.LastUpdateCheck(), time.Now()) {
		return nil
	}
	u, st, ctx, version := a.updates, a.store, a.ctx, a.version
	return func() tea.Msg {
		res := u.Check(ctx, version)
		if st != nil {
			st.SetLastUpdateCheck(time.Now())
		}
		if res == nil {
			return nil
		}
		return updateMsg{version: res.LatestVersion}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) busy() bool {
	ds := a.active()
	if ds == nil {
		return false
	}
	return ds.view.Listing.Loading || ds.view.Detail.Loading || (!ds.view.Listing.Loaded && ds.view.Listing.Err == nil)
}

// applyView stores v for domain i unless a newer snapshot is already held.
func (a *App) applyView(i int, v coordinator.View) {
	ds := a.domains[i]
	if v.Version < ds.view.Version {
		return
	}
	if v.State != ds.view.State || v.Detail.Entry.ID != ds.view.Detail.Entry.ID {
		ds.scroll = 0
	}
	ds.view = v
	if n := len(v.Listing.Entries); ds.cursor >= n {
		ds.cursor = max(0, n-1)
	}
}

func (a *App) refresh(i int) {
	a.applyView(i, a.domains[i].coord.Snapshot())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky messages on any keypress
		a.err = nil
		a.notice = ""
		return a.handleKey(msg)

	case viewChangedMsg:
		if msg.domain < len(a.domains) {
			a.applyView(msg.domain, msg.view)
		}
		return a, nil

	case opDoneMsg:
		a.refresh(msg.domain)
		if msg.err != nil {
			a.log.Debug("operation failed", slog.String("op", msg.op), slog.Any("err", msg.err))
		}
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case updateMsg:
		a.updateVersion = msg.version
		return a, nil

	case themeSavedMsg:
		if msg.err != nil {
			a.err = fmt.Errorf("saving theme: %w", msg.err)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	}

	ds := a.active()
	if ds == nil {
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	}
	i := a.tabs.active
	detail := ds.view.State == coordinator.Detail

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "tab":
		return a, a.switchTo((i + 1) % len(a.domains))
	case "shift+tab":
		return a, a.switchTo((i - 1 + len(a.domains)) % len(a.domains))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.domains) {
			return a, a.switchTo(idx)
		}
		return a, nil
	case "j", "down":
		if detail {
			ds.scroll++
		} else if ds.cursor < len(ds.view.Listing.Entries)-1 {
			ds.cursor++
		}
		return a, nil
	case "k", "up":
		if detail {
			if ds.scroll > 0 {
				ds.scroll--
			}
		} else if ds.cursor > 0 {
			ds.cursor--
		}
		return a, nil
	case "enter":
		if e, ok := a.cursorEntry(); ok && !detail {
			return a, tea.Batch(a.selectCmd(i, e.ID), a.startSpinner())
		}
		return a, nil
	case "m":
		if ds.coord.ShowMore() {
			a.refresh(i)
		}
		return a, nil
	case "/", "ctrl+k":
		a.mode = modeSearch
		a.searchInput.SetValue(ds.view.Listing.Query)
		a.searchInput.CursorEnd()
		a.searchInput.Focus()
		return a, textinput.Blink
	case "esc", "backspace":
		if detail {
			ds.coord.CloseDetail()
		} else if ds.view.Listing.Searching {
			a.searchInput.SetValue("")
			ds.coord.Search("")
			ds.cursor = 0
		}
		a.refresh(i)
		return a, nil
	case "o":
		e, ok := a.focusedEntry()
		if !ok {
			return a, nil
		}
		u, err := ds.coord.ContentURL(e)
		if err != nil {
			a.err = err
			return a, nil
		}
		return a, openBrowserCmd(u)
	case "y":
		if e, ok := a.focusedEntry(); ok {
			if link := ds.coord.Permalink(e); link != "" {
				a.notice = link
			} else {
				a.notice = "no permalinks in " + ds.coord.Domain().Label()
			}
		}
		return a, nil
	case "[", "]":
		h := ds.coord.History()
		if h == nil {
			return a, nil
		}
		move := h.Forward
		if msg.String() == "[" {
			move = h.Back
		}
		if !move() {
			return a, nil
		}
		return a, tea.Batch(a.navigateCmd(i), a.startSpinner())
	case "t":
		a.theme = a.theme.Toggle()
		ApplyTheme(a.theme)
		a.notice = string(a.theme) + " theme"
		return a, a.saveThemeCmd()
	case "r":
		return a, tea.Batch(a.reloadCmd(i), a.startSpinner())
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ds := a.active()
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		ds.coord.Search("")
		ds.cursor = 0
		a.refresh(a.tabs.active)
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	}

	prev := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-filter on actual value changes, not cursor moves etc.
	if a.searchInput.Value() != prev {
		ds.coord.Search(a.searchInput.Value())
		ds.cursor = 0
		a.refresh(a.tabs.active)
	}
	return a, cmd
}

// switchTo activates domain i, loading its index the first time it is shown.
func (a *App) switchTo(i int) tea.Cmd {
	if !a.tabs.jump(i) {
		return nil
	}
	ds := a.domains[i]
	a.searchInput.SetValue(ds.view.Listing.Query)
	if ds.started {
		return nil
	}
	return tea.Batch(a.loadCmd(i), a.startSpinner())
}

func (a *App) cursorEntry() (catalog.Entry, bool) {
	ds := a.active()
	if ds == nil || ds.cursor >= len(ds.view.Listing.Entries) {
		return catalog.Entry{}, false
	}
	return ds.view.Listing.Entries[ds.cursor], true
}

// focusedEntry is the open entry in the detail view, else the cursor entry.
func (a *App) focusedEntry() (catalog.Entry, bool) {
	ds := a.active()
	if ds != nil && ds.view.State == coordinator.Detail {
		return ds.view.Detail.Entry, true
	}
	return a.cursorEntry()
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  ranjanlabs")
	}
	if a.mode == modeHelp {
		return renderHelpScreen(a.width, a.height, a.updateVersion)
	}
	ds := a.active()
	if ds == nil {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			errorStyle.Render("No domains enabled. Check your config file."))
	}

	// Layout calculations
	headerHeight := 1
	tabsHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - tabsHeight - statusHeight - 4 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	listWidth := int(float64(a.width) * 0.38)
	detailWidth := a.width - listWidth - 1 // gap

	label := ds.coord.Domain().Label()
	headerLeft := headerStyle.Render("ranjanlabs")
	headerRight := headerInfoStyle.Render(fmt.Sprintf("%s · %s ", label, a.theme))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	tabs := a.tabs.render(a.width)
	if a.mode == modeSearch {
		tabs = a.searchInput.View()
	}

	v := ds.view
	detail := v.State == coordinator.Detail

	innerListW := listWidth - 4 // border + padding
	var listContent string
	switch {
	case v.Listing.Err != nil && !v.Listing.Loaded:
		listContent = lipglossCenter("Index unavailable · r to retry", innerListW, contentHeight)
	case !v.Listing.Loaded:
		listContent = lipglossCenter(a.spinner.View()+" Loading...", innerListW, contentHeight)
	default:
		empty := "No entries"
		if v.Listing.Searching {
			empty = "No matches"
		}
		listContent = renderList(v.Listing.Entries, ds.cursor, contentHeight, innerListW, empty)
	}

	listStyle, detailStyle := listPaneActiveStyle, detailPaneStyle
	if detail {
		listStyle, detailStyle = listPaneStyle, detailPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	innerDetailW := detailWidth - 4
	var detailContent string
	switch {
	case detail:
		detailContent = renderDetail(v.Detail, a.spinner.View(), innerDetailW, contentHeight, ds.scroll)
	case v.Listing.Err != nil && !v.Listing.Loaded:
		detailContent = errorStyle.Render("Index unavailable.") + "\n\n" +
			wrapText(v.Listing.Err.Error(), innerDetailW)
	default:
		var selected *catalog.Entry
		if e, ok := a.cursorEntry(); ok {
			selected = &e
		}
		detailContent = renderPreview(selected, innerDetailW, contentHeight)
	}
	detailPane := detailStyle.Width(detailWidth - 2).Height(contentHeight).Render(detailContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	status := renderStatusBar(statusInfo{
		domain:        label,
		view:          v,
		searching:     a.mode == modeSearch,
		updateVersion: a.updateVersion,
		notice:        a.notice,
		width:         a.width,
	})
	if a.err != nil {
		status = statusBarStyle.Width(a.width).Render(errorStyle.Render(a.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status)
}

// Run starts the TUI application. Coordinator snapshots reach the event loop
// through Program.Send.
func Run(opts RunOpts) error {
	ApplyTheme(opts.Theme)
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())

	for i, ds := range app.domains {
		cancel := ds.coord.Subscribe(func(v coordinator.View) {
			// Listeners may fire from inside Update; Send must not block it.
			go p.Send(viewChangedMsg{domain: i, view: v})
		})
		defer cancel()
	}

	_, err := p.Run()
	return err
}
