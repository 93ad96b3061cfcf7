package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tallysync/tallysync/internal/browser"
	"github.com/tallysync/tallysync/internal/fswatch"
	"github.com/tallysync/tallysync/internal/session"
)

type browseMode int

const (
	modeBrowse browseMode = iota
	modeFilter
	modeEditSource
	modeEditDestination
)

const (
	txtTitle        = "tallysync"
	txtSyncing      = "Syncing..."
	txtEmptyDir     = "(empty)"
	txtNoMatch      = "no entries match %q"
	txtFilterPrompt = "filter: "
	txtSourcePrompt = "source: "
	txtDestPrompt   = "destination: "

	minVisibleRows  = 5
	chromeHeight    = 9
	nameColumnWidth = 40
	sizeColumnWidth = 10
)

var (
	titleStyle    = cyan.Bold(true)
	labelStyle    = gray
	pathStyle     = lightGray
	dirStyle      = cyan
	cursorStyle   = green.Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	successStyle  = green
	errorStyle    = red
	spinnerStyle  = cyan
)

type browseKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Into       key.Binding
	Parent     key.Binding
	Filter     key.Binding
	Sync       key.Binding
	EditSource key.Binding
	EditDest   key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
	Accept     key.Binding
	Cancel     key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Into:       key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
		Parent:     key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("backspace", "parent")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Sync:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
		EditSource: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "set source")),
		EditDest:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "set destination")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Accept:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Into, k.Parent, k.Filter, k.Sync, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Into, k.Parent},
		{k.Filter, k.Refresh},
		{k.Sync, k.EditSource, k.EditDest},
		{k.Help, k.Quit},
	}
}

// --- Messages ---
type syncDoneMsg struct{ out session.Outcome }
type dirChangedMsg struct{}

type browseModel struct {
	ctx     context.Context
	sess    *session.Session
	watcher *fswatch.Watcher

	all     []browser.Entry
	entries []browser.Entry
	cursor  int
	offset  int

	mode      browseMode
	filter    textinput.Model
	pathInput textinput.Model
	spinner   spinner.Model
	keys      browseKeyMap
	help      help.Model

	syncing   bool
	status    string
	statusErr bool
	width     int
	height    int
}

func newBrowseModel(ctx context.Context, sess *session.Session, watcher *fswatch.Watcher) browseModel {
	filter := textinput.New()
	filter.Prompt = txtFilterPrompt
	filter.PromptStyle = labelStyle
	filter.CharLimit = 128

	pathInput := textinput.New()
	pathInput.CharLimit = 4096
	pathInput.Width = 64

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := browseModel{
		ctx:       ctx,
		sess:      sess,
		watcher:   watcher,
		filter:    filter,
		pathInput: pathInput,
		spinner:   s,
		keys:      newBrowseKeyMap(),
		help:      help.New(),
	}
	m.reload()
	return m
}

func (m browseModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case syncDoneMsg:
		m.syncing = false
		m.status = msg.out.Message
		m.statusErr = !msg.out.OK()
		// a sync into a child of the browsed directory changes the listing
		m.refresh()
		return m, nil

	case dirChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeEditSource, modeEditDestination:
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m browseModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampCursor()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		m.clampCursor()

	case key.Matches(msg, m.keys.Into):
		if e, ok := m.selected(); ok && e.Directory {
			m.sess.Into(e.Name)
			m.clearFilter()
			m.reload()
		}

	case key.Matches(msg, m.keys.Parent):
		m.sess.Up()
		m.clearFilter()
		m.reload()

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		cmd := m.filter.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()

	case key.Matches(msg, m.keys.Sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, syncCmd(m.ctx, m.sess))

	case key.Matches(msg, m.keys.EditSource):
		return m.startEdit(modeEditSource, txtSourcePrompt, m.sess.Path())

	case key.Matches(msg, m.keys.EditDest):
		return m.startEdit(modeEditDestination, txtDestPrompt, m.sess.Destination())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.clearFilter()
		m.applyFilter()
		return m, nil
	case key.Matches(msg, m.keys.Accept):
		m.mode = modeBrowse
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m browseModel) startEdit(mode browseMode, prompt, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.pathInput.Prompt = prompt
	m.pathInput.SetValue(value)
	m.pathInput.CursorEnd()
	cmd := m.pathInput.Focus()
	return m, cmd
}

func (m browseModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.pathInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		value := m.pathInput.Value()
		var err error
		if m.mode == modeEditSource {
			err = m.sess.SetSource(value)
		} else {
			err = m.sess.SetDestination(value)
		}
		if err != nil {
			// stay in the editor so the path can be fixed
			m.status = err.Error()
			m.statusErr = true
			return m, nil
		}

		if m.mode == modeEditSource {
			m.clearFilter()
			m.reload()
		}
		m.mode = modeBrowse
		m.pathInput.Blur()
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// reload lists the session path from scratch and moves the watcher there.
func (m *browseModel) reload() {
	m.cursor = 0
	m.offset = 0
	m.all = m.sess.Entries()
	m.applyFilter()
	if m.watcher != nil {
		if err := m.watcher.Watch(m.sess.Path()); err != nil {
			m.status = fmt.Sprintf("not watching %s: %v", m.sess.Path(), err)
			m.statusErr = true
		}
	}
}

// refresh re-lists the current directory, keeping the cursor on the same
// name when it still exists.
func (m *browseModel) refresh() {
	current, hadSelection := m.selected()
	m.all = m.sess.Entries()
	m.applyFilter()
	if !hadSelection {
		return
	}
	for i, e := range m.entries {
		if e.Name == current.Name {
			m.cursor = i
			break
		}
	}
	m.clampCursor()
}

func (m *browseModel) applyFilter() {
	m.entries = browser.Filter(m.all, m.filter.Value())
	m.clampCursor()
}

func (m *browseModel) clearFilter() {
	m.mode = modeBrowse
	m.filter.Reset()
	m.filter.Blur()
}

func (m browseModel) selected() (browser.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return browser.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *browseModel) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m browseModel) visibleRows() int {
	if m.height == 0 {
		return 20
	}
	return max(m.height-chromeHeight, minVisibleRows)
}

func (m browseModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return dirChangedMsg{}
	}
}

func syncCmd(ctx context.Context, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{out: sess.Sync(ctx)}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(txtTitle) + "\n")
	b.WriteString(labelStyle.Render("source:      ") + pathStyle.Render(m.sess.Path()) + "\n")
	b.WriteString(labelStyle.Render("destination: ") + pathStyle.Render(m.sess.Destination()) + "\n\n")

	b.WriteString(m.viewList())
	b.WriteString("\n")

	switch m.mode {
	case modeFilter:
		b.WriteString(m.filter.View() + "\n")
	case modeEditSource, modeEditDestination:
		b.WriteString(m.pathInput.View() + "\n")
	default:
		if q := m.filter.Value(); q != "" {
			b.WriteString(labelStyle.Render(txtFilterPrompt+q) + "\n")
		}
	}

	switch {
	case m.syncing:
		b.WriteString(m.spinner.View() + " " + txtSyncing + "\n")
	case m.status != "" && m.statusErr:
		b.WriteString(errorStyle.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m browseModel) viewList() string {
	if len(m.entries) == 0 {
		if len(m.all) > 0 {
			return labelStyle.Render(fmt.Sprintf(txtNoMatch, m.filter.Value())) + "\n"
		}
		return labelStyle.Render(txtEmptyDir) + "\n"
	}

	var b strings.Builder
	end := min(m.offset+m.visibleRows(), len(m.entries))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.viewRow(i, m.entries[i]) + "\n")
	}
	return b.String()
}

func (m browseModel) viewRow(i int, e browser.Entry) string {
	prefix := "  "
	if i == m.cursor {
		prefix = cursorStyle.Render("> ")
	}

	name := truncate(e.Name, nameColumnWidth)
	if e.Directory {
		name = dirStyle.Render(padRight(name+"/", nameColumnWidth))
	} else {
		name = padRight(name, nameColumnWidth)
	}
	if i == m.cursor {
		name = selectedStyle.Render(name)
	}

	size := padLeft(e.SizeString(), sizeColumnWidth)
	modified := ""
	if !e.ModTime.IsZero() {
		modified = labelStyle.Render(humanize.Time(e.ModTime))
	}
	return prefix + name + " " + size + "  " + modified
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
