package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferndazed/chorus/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CandidateListView ViewState = iota
	ConfirmView
)

var _ list.Item = candidateItem{}

// candidateItem wraps [models.Track] to implement [list.Item].
type candidateItem struct {
	track models.Track
}

func (i candidateItem) FilterValue() string { return i.track.Title }
func (i candidateItem) Title() string       { return i.track.Title }
func (i candidateItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}

// Model is the candidate picker. It presents fuzzy-search candidates for a
// track that had no exact match on the target provider and asks the user to
// confirm one before anything opens.
type Model struct {
	view       ViewState
	query      string
	target     models.Provider
	candidates list.Model
	selection  *models.Track
	width      int
	height     int
	help       help.Model
	keys       keyMap
}

// NewModel creates a picker over the given candidates.
func NewModel(query string, target models.Provider, candidates []models.Track) *Model {
	items := make([]list.Item, len(candidates))
	for i, t := range candidates {
		items[i] = candidateItem{track: t}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Matches for '%s'", query)

	return &Model{
		view:       CandidateListView,
		query:      query,
		target:     target,
		candidates: l,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Selection returns the confirmed track, or nil when the user backed out.
func (m *Model) Selection() *models.Track {
	return m.selection
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.candidates.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CandidateListView:
			return m.handleCandidateKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.candidates, cmd = m.candidates.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CandidateListView:
		return m.renderCandidateList()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleCandidateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.selection = nil
		return m, tea.Quit
	case "enter":
		if selected := m.candidates.SelectedItem(); selected != nil {
			if c, ok := selected.(candidateItem); ok {
				track := c.track
				m.selection = &track
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.candidates, cmd = m.candidates.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m, tea.Quit
	case "n", "esc":
		m.selection = nil
		m.view = CandidateListView
		return m, nil
	case "q", "ctrl+c":
		m.selection = nil
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) renderCandidateList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.candidates.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Open on %s?", m.target))
	info := fmt.Sprintf("\n%s\n%s", styles.pick.Render(m.selection.Title), m.selection.Artist)
	if m.selection.Album != "" {
		info += fmt.Sprintf("\n%s", styles.help.Render(m.selection.Album))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}
