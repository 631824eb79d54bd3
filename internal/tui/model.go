package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
)

// Status is the display state of a vertex.
type Status string

// Vertex display states.
const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCached    Status = "cached"
	StatusFailed    Status = "failed"
)

// VertexState represents the current state of a step vertex.
type VertexState struct {
	ID     string
	Name   string
	Status Status
}

type styles struct {
	running   lipgloss.Style
	completed lipgloss.Style
	cached    lipgloss.Style
	failed    lipgloss.Style
}

func newStyles() styles {
	return styles{
		running:   lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")),
		completed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // Green
		cached:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // Gray
		failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")), // Red
	}
}

func (s styles) icon(status Status, running string) string {
	switch status {
	case StatusCompleted:
		return s.completed.Render("✓")
	case StatusCached:
		return s.cached.Render("↺")
	case StatusFailed:
		return s.failed.Render("✗")
	default:
		return s.running.Render(running)
	}
}

// tracker folds progrock updates into one state per vertex, in first-seen order.
type tracker struct {
	vertices []VertexState
	index    map[string]int
}

func newTracker() *tracker {
	return &tracker{index: make(map[string]int)}
}

// apply records update and returns the vertices whose status changed.
func (t *tracker) apply(update *progrock.StatusUpdate) []VertexState {
	var changed []VertexState
	for _, v := range update.Vertexes {
		status := statusOf(v)
		i, ok := t.index[v.Id]
		if !ok {
			t.index[v.Id] = len(t.vertices)
			t.vertices = append(t.vertices, VertexState{ID: v.Id, Name: v.Name, Status: status})
			changed = append(changed, t.vertices[len(t.vertices)-1])
			continue
		}
		if t.vertices[i].Status != status {
			t.vertices[i].Status = status
			changed = append(changed, t.vertices[i])
		}
	}
	return changed
}

func statusOf(v *progrock.Vertex) Status {
	switch {
	case v.Completed == nil:
		return StatusRunning
	case v.Error != nil:
		return StatusFailed
	case v.Cached:
		return StatusCached
	default:
		return StatusCompleted
	}
}

// Model is the Bubble Tea model showing one line per step.
type Model struct {
	tape    TapeSource
	tracker *tracker
	height  int
	spinner spinner.Model
	styles  styles

	interrupted bool
}

// NewModel creates a new TUI model with the given tape source.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))

	return &Model{
		tape:    tape,
		tracker: newTracker(),
		spinner: s,
		styles:  newStyles(),
	}
}

// Vertices returns the current vertex states.
func (m *Model) Vertices() []VertexState {
	return m.tracker.vertices
}

// Interrupted reports whether the user quit before the tape ended.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// Init initializes the model and starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForTape(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		m.tracker.apply(msg.Update)
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	var s strings.Builder

	vertices := m.tracker.vertices
	if m.height > 0 && len(vertices) > m.height {
		vertices = vertices[len(vertices)-m.height:]
	}

	for _, v := range vertices {
		fmt.Fprintf(&s, "%s %s\n", m.styles.icon(v.Status, m.spinner.View()), v.Name)
	}
	return s.String()
}
