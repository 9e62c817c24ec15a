package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/rewindify/rewindify/internal/tasks"
	"github.com/rewindify/rewindify/internal/tracklist"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	TrackListView
	NameView
	ConfirmView
	SubmitView
	ResultView
)

// Model represents the TUI application state.
//
// The workflow mirrors the page flow: fetch history for the range, curate
// the list, confirm a name, submit, then offer to open the playlist.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    *tasks.Engine
	dateRange models.DateRange
	editor    *tracklist.Editor
	width     int
	height    int
	trackList list.Model
	nameInput textinput.Model
	name      string
	result    *models.PlaylistResult
	err       error
	help      help.Model
	keys      keyMap
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

var _ list.Item = trackItem{}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := strings.Join(i.track.ArtistNames(), ", ")
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	if i.track.PlayedAt != nil {
		desc = fmt.Sprintf("%s • %s", desc, i.track.PlayedAt.Local().Format("Jan 2, 2006 3:04 PM"))
	}
	return desc
}

type historyFetchedMsg struct {
	tracks []models.Track
	err    error
}

type submitDoneMsg struct {
	result *models.PlaylistResult
	err    error
}

type browserOpenedMsg struct {
	err error
}

// NewModel creates a new TUI model for curating the given range.
func NewModel(ctx context.Context, engine *tasks.Engine, dateRange models.DateRange) *Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "Enter playlist name (optional)"
	nameInput.CharLimit = 100

	return &Model{
		ctx:       ctx,
		view:      LoadingView,
		engine:    engine,
		dateRange: dateRange,
		editor:    tracklist.NewEditor(nil),
		nameInput: nameInput,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching history for the range.
func (m *Model) Init() tea.Cmd {
	return m.fetchHistory()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The list does not exist until the fetch completes.
		if m.view != LoadingView {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case NameView:
			return m.handleNameKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case LoadingView, SubmitView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}
		return m, nil

	case historyFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.editor.SetTracks(msg.tracks)
		m.trackList = list.New(m.items(), list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("History %s", tracklist.DefaultName(m.dateRange))
		if m.width > 0 {
			m.trackList.SetSize(m.width-4, m.height-8)
		}
		m.view = TrackListView
		return m, nil

	case submitDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil
	}

	if m.view == TrackListView {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return styles.title.Render("Fetching listening history...")
	case TrackListView:
		return m.renderTrackList()
	case NameView:
		return m.renderNameInput()
	case ConfirmView:
		return m.renderConfirm()
	case SubmitView:
		return styles.title.Render("Creating playlist...")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// items builds list items from the chronological view of the collection.
// The stored order may differ after manual moves; rendering always re-sorts.
func (m *Model) items() []list.Item {
	tracks := m.editor.DisplayOrder()
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	return items
}

func (m *Model) refreshList(selected int) {
	m.trackList.SetItems(m.items())
	if selected >= 0 && selected < len(m.trackList.Items()) {
		m.trackList.Select(selected)
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.trackList.Index()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.moveUp):
		if idx > 0 {
			if err := m.editor.Reorder(idx, idx-1); err == nil {
				m.refreshList(idx - 1)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		if idx < m.editor.Len()-1 {
			if err := m.editor.Reorder(idx, idx+1); err == nil {
				m.refreshList(idx + 1)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.remove):
		if m.editor.Len() > 0 {
			if err := m.editor.Remove(idx); err == nil {
				m.refreshList(min(idx, m.editor.Len()-1))
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.rename):
		m.view = NameView
		m.nameInput.SetValue(m.name)
		m.nameInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.enter):
		if m.editor.Len() == 0 {
			return m, nil
		}
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.name = m.nameInput.Value()
		m.nameInput.Blur()
		m.view = TrackListView
		return m, nil
	case "esc":
		m.nameInput.Blur()
		m.view = TrackListView
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = SubmitView
		return m, m.submit()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "o":
		if m.result != nil && m.result.ExternalURLs.Spotify != "" {
			return m, m.openBrowser(m.result.ExternalURLs.Spotify)
		}
	}
	return m, nil
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.engine.Fetch(m.ctx, m.dateRange)
		return historyFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) submit() tea.Cmd {
	tracks := m.editor.Tracks()
	name := m.name
	return func() tea.Msg {
		result, err := m.engine.Submit(m.ctx, tracks, name, m.dateRange)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m *Model) openBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{err: shared.OpenBrowser(url)}
	}
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.moveUp, m.keys.moveDown, m.keys.remove, m.keys.rename, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderNameInput() string {
	title := styles.title.Render("Playlist Name")
	hint := styles.help.Render("enter to save, esc to cancel")
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.nameInput.View(), hint)
}

func (m *Model) renderConfirm() string {
	name := m.name
	if name == "" {
		name = tracklist.DefaultName(m.dateRange)
	}

	title := styles.title.Render(fmt.Sprintf("Create playlist '%s'?", name))
	info := fmt.Sprintf("\nTracks: %d (added oldest to newest)\n", m.editor.Len())

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Failed to create playlist: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf("\nName: %s\nID: %s\n", m.result.Name, m.result.ID)

	var open string
	if m.result.ExternalURLs.Spotify != "" {
		open = fmt.Sprintf("\n%s\n", m.result.ExternalURLs.Spotify)
	}

	helpKeys := []key.Binding{m.keys.open, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s%s\n%s", title, info, open, helpView)
}
