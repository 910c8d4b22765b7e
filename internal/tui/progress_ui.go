package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	keyCtrlC = "ctrl+c"
	keyQuit  = "q"
)

const (
	stepStatusPending = "pending"
	stepStatusRunning = "running"
	stepStatusDone    = "done"
	stepStatusError   = "error"
)

// MergeStepItem represents a patch branch in the progress view
type MergeStepItem struct {
	Description string
	Status      string // "pending", "running", "done", "error"
	Error       error
}

// MergeProgressModel is the bubbletea model for merge progress
type MergeProgressModel struct {
	title    string
	steps    []MergeStepItem
	spinner  spinner.Model
	done     bool
	quitting bool
	styles   progressStyles
	updates  <-chan ProgressUpdate
}

type progressStyles struct {
	spinnerStyle lipgloss.Style
	doneStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	dimStyle     lipgloss.Style
}

// StepUpdateMsg is sent when a step status changes
type StepUpdateMsg struct {
	StepIndex int
	Status    string
	Error     error
}

// NewMergeProgressModel creates a progress model with one line per step
func NewMergeProgressModel(title string, stepDescriptions []string) MergeProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	steps := make([]MergeStepItem, len(stepDescriptions))
	for i, desc := range stepDescriptions {
		steps[i] = MergeStepItem{Description: desc, Status: stepStatusPending}
	}

	return MergeProgressModel{
		title:   title,
		steps:   steps,
		spinner: s,
		styles: progressStyles{
			spinnerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
			doneStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			dimStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

// Init initializes the bubbletea model
func (m MergeProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkForUpdates())
}

// checkForUpdates polls the update channel
func (m MergeProgressModel) checkForUpdates() tea.Cmd {
	if m.updates == nil {
		return nil
	}

	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		select {
		case update, ok := <-m.updates:
			if !ok {
				return tea.Quit()
			}
			return toStepUpdateMsg(update)
		default:
			return nil
		}
	})
}

func toStepUpdateMsg(update ProgressUpdate) tea.Msg {
	switch update.Type {
	case updateStarted:
		return StepUpdateMsg{StepIndex: update.StepIndex, Status: stepStatusRunning}
	case updateCompleted:
		return StepUpdateMsg{StepIndex: update.StepIndex, Status: stepStatusDone}
	case updateFailed:
		return StepUpdateMsg{StepIndex: update.StepIndex, Status: stepStatusError, Error: update.Error}
	default:
		return nil
	}
}

// Update handles message updates for the bubbletea model
func (m MergeProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == keyCtrlC || msg.String() == keyQuit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, tea.Batch(cmd, m.checkForUpdates())

	case StepUpdateMsg:
		if msg.StepIndex >= 0 && msg.StepIndex < len(m.steps) {
			step := &m.steps[msg.StepIndex]
			step.Status = msg.Status
			if msg.Error != nil {
				step.Error = msg.Error
			}
			if msg.Status == stepStatusError || (msg.Status == stepStatusDone && msg.StepIndex == len(m.steps)-1) {
				m.done = true
			}
		}
		return m, m.checkForUpdates()

	case tea.QuitMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View renders the progress view
func (m MergeProgressModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.title + "\n")
	b.WriteString("\n")

	for i, step := range m.steps {
		var icon, status string
		switch step.Status {
		case stepStatusPending:
			icon = m.styles.dimStyle.Render("○")
			status = m.styles.dimStyle.Render("pending")
		case stepStatusRunning:
			icon = m.spinner.View()
			status = m.styles.spinnerStyle.Render("merging...")
		case stepStatusDone:
			icon = m.styles.doneStyle.Render("✓")
			status = m.styles.doneStyle.Render("merged")
		case stepStatusError:
			icon = m.styles.errorStyle.Render("✗")
			status = m.styles.errorStyle.Render("failed")
		}

		line := fmt.Sprintf("  %s %d. %s %s", icon, i+1, step.Description, status)
		if step.Status == stepStatusError && step.Error != nil {
			line += " " + m.styles.errorStyle.Render("→ "+step.Error.Error())
		}
		b.WriteString(line + "\n")
	}

	if m.done {
		merged, failed := 0, 0
		for _, step := range m.steps {
			switch step.Status {
			case stepStatusDone:
				merged++
			case stepStatusError:
				failed++
			}
		}
		b.WriteString("\n")
		if failed > 0 {
			b.WriteString(m.styles.errorStyle.Render(fmt.Sprintf("Merged: %d, Failed: %d", merged, failed)))
		} else {
			b.WriteString(m.styles.doneStyle.Render(fmt.Sprintf("✓ All %d patch branches merged", merged)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RunMergeProgress renders progress for the steps until updates is closed
func RunMergeProgress(title string, stepDescriptions []string, updates <-chan ProgressUpdate, in io.Reader, out io.Writer) error {
	m := NewMergeProgressModel(title, stepDescriptions)
	m.updates = updates

	program := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	_, err := program.Run()
	return err
}
