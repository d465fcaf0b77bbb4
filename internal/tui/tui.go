package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/engine"
	"github.com/tatianab/sunnytown/internal/models"
)

// frame is the interval between game loop ticks.
const frame = 50 * time.Millisecond

type sessionState int

const (
	statePlaying sessionState = iota
	stateSlider
	stateFinished
	stateError
)

// Records is the saved profile shown once the game is over.
type Records interface {
	HighScores(ctx context.Context) ([]models.HighScoreEntry, error)
	Unlocked(ctx context.Context) ([]models.Achievement, error)
}

type model struct {
	state     sessionState
	ctx       context.Context
	engine    *engine.Engine
	surface   *Surface
	records   Records
	textInput textinput.Model
	viewport  viewport.Model
	bar       progress.Model
	err       error
	status    string
	last      time.Time
	width     int
	height    int
	scores    []models.HighScoreEntry
	unlocked  []models.Achievement
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

func NewModel(ctx context.Context, eng *engine.Engine, surface *Surface, records Records) model {
	ti := textinput.New()
	ti.Placeholder = "Enter a value..."
	ti.CharLimit = 6
	ti.Width = 20

	return model{
		state:     statePlaying,
		ctx:       ctx,
		engine:    eng,
		surface:   surface,
		records:   records,
		textInput: ti,
		viewport:  viewport.New(60, 15),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(20)),
	}
}

type tickMsg time.Time

type recordsLoadedMsg struct {
	scores   []models.HighScoreEntry
	unlocked []models.Achievement
}

type errMsg struct {
	err error
}

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.state {
		case stateFinished, stateError:
			if msg.String() == "q" || msg.Type == tea.KeyEnter {
				return m, tea.Quit
			}
			return m, nil
		case stateSlider:
			return m.updateSlider(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		m.status = m.handleKey(msg.String())
		m.refreshLog()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.70)
		m.viewport.Height = max(msg.Height-14, 5)
		m.bar.Width = max(int(float64(msg.Width)*0.23)-4, 10)
		m.refreshLog()

	case tickMsg:
		now := time.Time(msg)
		dt := frame
		if !m.last.IsZero() {
			dt = now.Sub(m.last)
		}
		m.last = now

		if err := m.engine.Tick(dt); err != nil {
			m.err = err
			m.state = stateError
			return m, nil
		}
		if m.engine.State() != engine.GamePaused {
			m.surface.advance(dt)
		}
		if p := m.surface.prompt; p != nil && p.slider != nil && m.state == statePlaying {
			m.state = stateSlider
			m.textInput.Placeholder = fmt.Sprintf("%d to %d", p.slider.Min, p.slider.Max)
			m.textInput.Focus()
		}
		m.refreshLog()
		if m.surface.result != nil {
			m.state = stateFinished
			return m, m.loadRecords()
		}
		return m, tick()

	case recordsLoadedMsg:
		m.scores = msg.scores
		m.unlocked = msg.unlocked
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	return m, nil
}

func (m model) updateSlider(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	v, err := strconv.Atoi(strings.TrimSpace(m.textInput.Value()))
	if err != nil {
		m.status = "Enter a whole number."
		return m, nil
	}
	if err := m.surface.choose(v); err != nil {
		m.status = describe(err)
		return m, nil
	}
	m.textInput.Reset()
	m.textInput.Blur()
	m.state = statePlaying
	m.status = ""
	m.refreshLog()
	return m, nil
}

// handleKey runs a game command and returns the status line to show.
func (m model) handleKey(key string) string {
	var err error
	switch key {
	case "1", "left":
		err = m.surface.choose(0)
	case "2", "right":
		err = m.surface.choose(1)
	case "enter", " ":
		err = m.surface.dismiss()
	case "m":
		err = m.engine.QueueMinorCard()
	case "c":
		n := m.engine.RecordInteraction()
		m.surface.log("You stop to chat with a townsperson. (%d chats so far)", n)
	case "p":
		if m.engine.State() == engine.GamePaused {
			err = m.engine.Resume()
		} else {
			err = m.engine.Pause()
		}
	case "f2", "f3":
		level := 2
		if key == "f3" {
			level = 3
		}
		var card *cards.PlotCard
		if card, err = m.engine.SkipToLevel(level); err == nil {
			m.surface.log("Skipped ahead to level %d (%s).", level, card.ID())
		}
	default:
		return m.status
	}
	return describe(err)
}

func describe(err error) string {
	switch {
	case err == nil, errors.Is(err, engine.ErrStaleCallback):
		return ""
	case errors.Is(err, engine.ErrWrongState):
		return "Not now."
	case errors.Is(err, engine.ErrDecisionOutOfRange):
		return "That is not one of the choices."
	}
	return err.Error()
}

func (m *model) refreshLog() {
	width := m.viewport.Width
	var b strings.Builder
	for i, entry := range m.surface.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(gameStyle.Width(width).Render(entry))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	var s string

	switch m.state {
	case statePlaying, stateSlider:
		header := titleStyle.Render(fmt.Sprintf("SUNNY TOWN - Day %d", m.engine.Day()))
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := helpStyle.Render("1/2 choose, enter continue, m mail, c chat, p pause, q quit")
		s = lipgloss.JoinVertical(lipgloss.Left,
			header,
			mainView,
			"\n"+m.renderAction(),
			m.status,
			help,
		)

	case stateFinished:
		s = m.renderFinished()

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	snap := m.surface.metrics

	metricsView := titleStyle.Render("TOWN") + "\n" +
		metricLine("Gold", snap.Gold, snap.PrevGold) +
		metricLine("Happiness", snap.PopHappiness, snap.PrevPopHappiness) +
		metricLine("Environment", snap.EnvHealth, snap.PrevEnvHealth) +
		fmt.Sprintf("Score: %d\n\n", snap.Gold+snap.PopHappiness+snap.EnvHealth)

	levelView := titleStyle.Render(fmt.Sprintf("LEVEL %d", m.surface.level)) + "\n" +
		m.bar.ViewAs(m.surface.percent) + "\n\n"

	var sound string
	if m.surface.sound != "" {
		sound = "You hear " + m.surface.sound + ".\n"
	}

	content := metricsView + levelView + sound + helpStyle.Render(m.surface.state.String())
	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func metricLine(name string, v, prev int) string {
	delta := ""
	switch d := v - prev; {
	case d > 0:
		delta = upStyle.Render(fmt.Sprintf(" +%d", d))
	case d < 0:
		delta = downStyle.Render(fmt.Sprintf(" %d", d))
	}
	return fmt.Sprintf("%-12s %3d%s\n", name+":", v, delta)
}

func (m model) renderAction() string {
	s := m.surface
	switch {
	case m.engine.State() == engine.GamePaused:
		return helpStyle.Render("Paused. Press p to resume.")
	case s.cutscene != nil:
		title := map[engine.Cutscene]string{
			engine.CutsceneGoodWin: "Sunny Town thrives",
			engine.CutsceneBadWin:  "Sunny Town survives",
			engine.CutsceneLose:    "Sunny Town has fallen",
		}[s.cutscene.scene]
		return titleStyle.Render(title) + "\n" + renderDialogue(s.cutscene.dialogue) + "\n" + helpStyle.Render("enter to continue")
	case s.notice != nil:
		return renderDialogue(s.notice.dialogue) + "\n" + helpStyle.Render("enter to continue")
	case s.prompt != nil:
		return m.renderPrompt(s.prompt)
	case s.animation != nil:
		done := 1 - float64(s.animation.remaining)/float64(s.animation.total)
		return fmt.Sprintf("Building the %s...\n%s", s.animation.building, m.bar.ViewAs(done))
	}
	return helpStyle.Render("The town is quiet for now.")
}

func (m model) renderPrompt(p *prompt) string {
	pr := p.card.Prompt()
	var b strings.Builder
	for _, line := range pr.Preceding {
		b.WriteString(line + "\n")
	}
	b.WriteString(userStyle.Render(pr.Speaker) + " " + pr.Question + "\n")
	if p.slider != nil {
		b.WriteString(m.textInput.View())
		return b.String()
	}
	lo, hi := p.card.DecisionRange()
	for i := lo; i < hi; i++ {
		opt, err := p.card.Resolve(i)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, opt.Text)
	}
	return b.String()
}

func (m model) renderFinished() string {
	var b strings.Builder
	if r := m.surface.result; r != nil {
		verdict := "You lost."
		if r.Won {
			verdict = "You won!"
		}
		fmt.Fprintf(&b, "%s\n\n%s Final score: %d\n", titleStyle.Render("GAME OVER"), verdict, r.Score)
		if r.Rank > 0 {
			fmt.Fprintf(&b, "New high score! Rank %d.\n", r.Rank)
		}
	}

	b.WriteString("\n" + titleStyle.Render("HIGH SCORES") + "\n")
	for _, e := range m.scores {
		fmt.Fprintf(&b, "%d. %-12s %d\n", e.Rank, e.Player, e.Score)
	}
	b.WriteString("\n" + titleStyle.Render("ACHIEVEMENTS") + "\n")
	if len(m.unlocked) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, a := range m.unlocked {
		fmt.Fprintf(&b, "- %s (%s): %s\n", a.Name, a.Earned, a.Description)
	}
	b.WriteString("\n" + helpStyle.Render("Press q to quit."))
	return b.String()
}

func renderDialogue(d cards.Dialogue) string {
	if d.Speaker == "" {
		return joinLines(d.Lines)
	}
	return userStyle.Render(d.Speaker) + " " + joinLines(d.Lines)
}

func joinLines(lines []string) string {
	return strings.Join(lines, " ")
}

func (m model) loadRecords() tea.Cmd {
	return func() tea.Msg {
		scores, err := m.records.HighScores(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		unlocked, err := m.records.Unlocked(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return recordsLoadedMsg{scores, unlocked}
	}
}

func Run(ctx context.Context, eng *engine.Engine, surface *Surface, records Records) error {
	p := tea.NewProgram(NewModel(ctx, eng, surface, records), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
