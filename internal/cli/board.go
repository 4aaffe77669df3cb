package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drapaimern/lumina/internal/ai"
	"github.com/drapaimern/lumina/internal/core"
	"github.com/drapaimern/lumina/internal/observability"
	"github.com/drapaimern/lumina/internal/storage"
	"github.com/drapaimern/lumina/pkg/models"
)

// cardPhase is the per-card AI state machine. A card accepts new AI
// requests only while idle; while in any other phase its toggle, edit, and
// delete controls are inert. This is per-card mutual exclusion, not a
// global lock.
type cardPhase int

const (
	cardIdle cardPhase = iota
	cardEnhancing
	cardSuggesting
	cardAwaiting // a proposal is staged, waiting for accept/reject
)

// cardState holds a task card's transient UI state. Nothing in here is
// ever persisted.
type cardState struct {
	phase         cardPhase
	proposal      string
	subtasks      []string
	showSubtasks  bool
	confirmDelete bool
}

// blocked reports whether the card's normal controls are disabled.
func (c *cardState) blocked() bool {
	return c.phase != cardIdle
}

type boardModel struct {
	repo   storage.TaskRepository
	kv     storage.KVStore
	assist ai.Assistant
	log    observability.EventLog

	tasks []models.Task
	// loaded flips once the initial read resolves; no write happens before
	// that, so a slow load can never be clobbered by an empty default.
	loaded bool
	filter models.Filter
	cursor int
	cards  map[string]*cardState

	form *taskForm

	dark   bool
	width  int
	height int
}

type taskForm struct {
	editingID string // empty when creating
	title     textinput.Model
	desc      textinput.Model
	focus     int
	hint      string
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type enhanceResultMsg struct {
	id     string
	text   string
	direct bool
}

type subtasksResultMsg struct {
	id    string
	items []string
}

func newBoardModel(repo storage.TaskRepository, kv storage.KVStore, assist ai.Assistant, log observability.EventLog, fallbackTheme string) boardModel {
	return boardModel{
		repo:   repo,
		kv:     kv,
		assist: assist,
		log:    log,
		filter: models.FilterAll,
		cards:  make(map[string]*cardState),
		dark:   storage.LoadTheme(kv, fallbackTheme) == "dark",
	}
}

func (m boardModel) Init() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		return tasksLoadedMsg{tasks: repo.Load()}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.loaded = true
		return m, nil

	case enhanceResultMsg:
		return m.applyEnhanceResult(msg), nil

	case subtasksResultMsg:
		return m.applySubtasksResult(msg), nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}

	return m, nil
}

// applyEnhanceResult merges an enhance response back into the board. The
// task may have been deleted while the request was in flight; that
// resolves as a no-op.
func (m boardModel) applyEnhanceResult(msg enhanceResultMsg) boardModel {
	task, exists := core.Find(m.tasks, msg.id)
	if !exists {
		delete(m.cards, msg.id)
		return m
	}
	card := m.card(msg.id)

	if msg.direct {
		m.tasks = core.Update(m.tasks, msg.id, core.Patch{Description: &msg.text})
		m.persist()
		observability.Record(m.log, observability.EventEnhanceApplied, "enhanced description applied",
			map[string]any{"task_id": msg.id})
		card.phase = cardIdle
		return m
	}

	// Preview flow: the assistant returns the original description when the
	// request failed, and staging an identical proposal would only trap the
	// card behind an accept/reject prompt. Return to idle instead.
	if msg.text == task.Description {
		card.phase = cardIdle
		return m
	}
	card.proposal = msg.text
	card.phase = cardAwaiting
	return m
}

func (m boardModel) applySubtasksResult(msg subtasksResultMsg) boardModel {
	if _, exists := core.Find(m.tasks, msg.id); !exists {
		delete(m.cards, msg.id)
		return m
	}
	card := m.card(msg.id)
	card.phase = cardIdle
	card.subtasks = msg.items
	card.showSubtasks = len(msg.items) > 0
	return m
}

func (m boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "a":
		if !m.loaded {
			return m, nil
		}
		m.form = newTaskForm(nil)
		return m, textinput.Blink

	case "f":
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		return m, nil
	case "1":
		m.filter = models.FilterAll
		m.cursor = 0
		return m, nil
	case "2":
		m.filter = models.FilterPending
		m.cursor = 0
		return m, nil
	case "3":
		m.filter = models.FilterCompleted
		m.cursor = 0
		return m, nil

	case "t":
		m.dark = !m.dark
		theme := "light"
		if m.dark {
			theme = "dark"
		}
		_ = storage.SaveTheme(m.kv, theme)
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	return m.updateCard(msg)
}

// updateCard dispatches a key press to the selected task card.
func (m boardModel) updateCard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()
	if len(visible) == 0 || m.cursor >= len(visible) {
		return m, nil
	}
	task := visible[m.cursor]
	card := m.card(task.ID)

	if card.confirmDelete {
		switch msg.String() {
		case "y":
			m.tasks = core.Delete(m.tasks, task.ID)
			delete(m.cards, task.ID)
			m.persist()
			observability.Record(m.log, observability.EventTaskDeleted, "task deleted",
				map[string]any{"task_id": task.ID})
			if m.cursor >= len(m.visible()) && m.cursor > 0 {
				m.cursor--
			}
		case "n", "esc":
			card.confirmDelete = false
		}
		return m, nil
	}

	if card.phase == cardAwaiting {
		switch msg.String() {
		case "y":
			m.tasks = core.Update(m.tasks, task.ID, core.Patch{Description: &card.proposal})
			m.persist()
			observability.Record(m.log, observability.EventProposalAccepted, "AI proposal accepted",
				map[string]any{"task_id": task.ID})
			card.proposal = ""
			card.phase = cardIdle
		case "n", "esc":
			observability.Record(m.log, observability.EventProposalRejected, "AI proposal rejected",
				map[string]any{"task_id": task.ID})
			card.proposal = ""
			card.phase = cardIdle
		}
		return m, nil
	}

	switch msg.String() {
	case " ":
		if card.blocked() {
			return m, nil
		}
		m.tasks = core.Toggle(m.tasks, task.ID)
		m.persist()
		toggled, _ := core.Find(m.tasks, task.ID)
		observability.Record(m.log, observability.EventTaskStatusChanged, "task status changed",
			map[string]any{"task_id": task.ID, "new_status": string(toggled.Status)})
		return m, nil

	case "e", "enter":
		if card.blocked() {
			return m, nil
		}
		m.form = newTaskForm(&task)
		return m, textinput.Blink

	case "d":
		if card.blocked() {
			return m, nil
		}
		card.confirmDelete = true
		return m, nil

	case "E":
		if card.blocked() {
			return m, nil
		}
		card.phase = cardEnhancing
		return m, enhanceCmd(m.assist, task, true)

	case "w":
		if card.blocked() {
			return m, nil
		}
		card.phase = cardEnhancing
		return m, enhanceCmd(m.assist, task, false)

	case "s":
		if card.blocked() {
			return m, nil
		}
		if card.showSubtasks {
			// Hiding discards the list; the next press issues a new request.
			card.subtasks = nil
			card.showSubtasks = false
			return m, nil
		}
		card.phase = cardSuggesting
		return m, suggestCmd(m.assist, task)
	}

	return m, nil
}

// enhanceCmd runs one enhance request off the update loop. The rest of the
// board stays responsive while it is in flight; there is no cancellation
// and no timeout.
func enhanceCmd(assist ai.Assistant, task models.Task, direct bool) tea.Cmd {
	return func() tea.Msg {
		text := assist.EnhanceDescription(context.Background(), task.Title, task.Description)
		return enhanceResultMsg{id: task.ID, text: text, direct: direct}
	}
}

func suggestCmd(assist ai.Assistant, task models.Task) tea.Cmd {
	return func() tea.Msg {
		items := assist.SuggestSubtasks(context.Background(), task.Title)
		return subtasksResultMsg{id: task.ID, items: items}
	}
}

// --- Create/edit form ---

func newTaskForm(task *models.Task) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 120
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 400

	f := &taskForm{title: title, desc: desc}
	if task != nil {
		f.editingID = task.ID
		f.title.SetValue(task.Title)
		f.desc.SetValue(task.Description)
	}
	return f
}

func (m boardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "tab", "shift+tab", "up", "down":
		f.focus = 1 - f.focus
		if f.focus == 0 {
			f.title.Focus()
			f.desc.Blur()
		} else {
			f.title.Blur()
			f.desc.Focus()
		}
		return m, textinput.Blink

	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return m, cmd
}

func (m boardModel) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	title := strings.TrimSpace(f.title.Value())
	desc := f.desc.Value()

	if title == "" {
		// The form refuses to dispatch and stays open for correction.
		f.hint = "A title is required."
		return m, nil
	}

	if f.editingID == "" {
		tasks, task, err := core.Create(m.tasks, title, desc)
		if err != nil {
			f.hint = "A title is required."
			return m, nil
		}
		m.tasks = tasks
		observability.Record(m.log, observability.EventTaskCreated, "task created",
			map[string]any{"task_id": task.ID})
	} else {
		tasks, err := core.Edit(m.tasks, f.editingID, title, desc)
		if err != nil {
			f.hint = "A title is required."
			return m, nil
		}
		m.tasks = tasks
		observability.Record(m.log, observability.EventTaskEdited, "task edited",
			map[string]any{"task_id": f.editingID})
	}

	m.persist()
	m.form = nil
	return m, nil
}

// --- Helpers ---

// card returns the transient state for a task, creating it on first use.
func (m boardModel) card(id string) *cardState {
	if c, ok := m.cards[id]; ok {
		return c
	}
	c := &cardState{}
	m.cards[id] = c
	return c
}

// visible returns the tasks the board shows: sorted newest first, then
// filtered.
func (m boardModel) visible() []models.Task {
	return core.Select(core.Sorted(m.tasks), m.filter)
}

func (m *boardModel) persist() {
	if !m.loaded {
		return
	}
	_ = m.repo.Save(m.tasks)
}

func nextFilter(f models.Filter) models.Filter {
	switch f {
	case models.FilterAll:
		return models.FilterPending
	case models.FilterPending:
		return models.FilterCompleted
	default:
		return models.FilterAll
	}
}

// runBoard launches the interactive board. Blocks until the user quits.
func runBoard() error {
	if Repo == nil {
		return fmt.Errorf("app not initialized")
	}
	fallback := "light"
	if Cfg != nil && (Cfg.DefaultTheme == "dark" || Cfg.DefaultTheme == "light") {
		fallback = Cfg.DefaultTheme
	} else if lipgloss.HasDarkBackground() {
		fallback = "dark"
	}

	m := newBoardModel(Repo, KV, Assist, EventLog, fallback)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// formatCreated renders the card's "added" timestamp.
func formatCreated(epochMillis int64) string {
	return time.UnixMilli(epochMillis).Format("Jan 2, 2006")
}
