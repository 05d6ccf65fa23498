// Package tui is a terminal browser for the diary: the memory list, the
// month calendar and the rewards ledger, all driven by store notifications.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/tips"
	"github.com/mark31d/OlympusAirDiary/internal/views"
)

// Tab is the visible screen
type Tab int

const (
	TabMemories Tab = iota
	TabCalendar
	TabRewards
)

var tabNames = []string{"Memories", "Calendar", "Rewards"}

// creditStep is the amount added by the Credit binding.
const creditStep = 10

// filterCycle is the order the Filter binding walks through; "" shows all.
var filterCycle = []models.Category{"", models.CategoryJoy, models.CategoryPersonal, models.CategoryChallenges}

// Messages
type snapshotMsg struct {
	snap models.Snapshot
}

// Model is the root Bubble Tea model
type Model struct {
	store   *diary.Store
	catalog *tips.Catalog
	now     func() time.Time

	updates     <-chan models.Snapshot
	unsubscribe func()

	// Terminal dimensions
	width  int
	height int
	ready  bool

	tab      Tab
	showHelp bool
	keys     KeyMap

	snap models.Snapshot

	// Memories tab
	filter models.Category
	cursor int

	// Calendar tab
	month time.Time // first day of the shown month
	day   int       // selected day of month

	// Rewards tab
	tipCursor int

	input  textinput.Model
	adding bool
	detail viewport.Model

	status    string
	statusErr bool
}

// NewModel subscribes to s. Call Close when the program exits.
func NewModel(s *diary.Store, catalog *tips.Catalog, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Title of the moment..."
	ti.Prompt = "❯ "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = 200
	ti.Width = 60

	updates, unsubscribe := s.SubscribeLatest()

	today := now()
	return Model{
		store:       s,
		catalog:     catalog,
		now:         now,
		updates:     updates,
		unsubscribe: unsubscribe,
		keys:        DefaultKeyMap(),
		snap:        s.Snapshot(),
		month:       views.ShiftMonth(today, 0),
		day:         today.Day(),
		input:       ti,
		detail:      viewport.New(60, 6),
	}
}

// Close stops following the store.
func (m Model) Close() {
	m.unsubscribe()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

func waitForSnapshot(updates <-chan models.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail.Width = max(msg.Width-6, 10)
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case snapshotMsg:
		// The model may already hold newer state from its own mutations.
		if msg.snap.Version >= m.snap.Version {
			m.snap = msg.snap
			m.clamp()
		}
		return m, waitForSnapshot(m.updates)

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		category := m.filter
		if category == "" {
			category = models.CategoryJoy
		}
		mem := m.store.AddMemory(models.Draft{
			Category: category,
			Title:    m.input.Value(),
			DateISO:  m.draftDate(),
		})
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		m.setStatus("Added "+mem.Title, false)
		m.snap = m.store.Snapshot()
		m.clamp()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Add) && m.tab != TabRewards:
		m.adding = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Credit):
		m.store.AddPoints(creditStep)
		m.snap = m.store.Snapshot()
		m.setStatus(fmt.Sprintf("Added %d points", creditStep), false)
		return m, nil
	}

	switch m.tab {
	case TabMemories:
		m.updateMemories(msg)
	case TabCalendar:
		m.updateCalendar(msg)
	case TabRewards:
		m.updateRewards(msg)
	}
	return m, nil
}

func (m *Model) updateMemories(msg tea.KeyMsg) {
	list := m.visibleMemories()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(list)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		for i, c := range filterCycle {
			if c == m.filter {
				m.filter = filterCycle[(i+1)%len(filterCycle)]
				break
			}
		}
		m.cursor = 0
	case key.Matches(msg, m.keys.Delete):
		if len(list) == 0 {
			return
		}
		target := list[m.cursor]
		m.store.RemoveMemory(target.ID)
		m.snap = m.store.Snapshot()
		m.clamp()
		m.setStatus("Deleted "+target.Title, false)
	case key.Matches(msg, m.keys.Share):
		if len(list) == 0 {
			return
		}
		m.detail.SetContent(views.ShareText(list[m.cursor]))
		m.setStatus("Share text ready", false)
	}
}

func (m *Model) updateCalendar(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveDay(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveDay(1)
	case key.Matches(msg, m.keys.Up):
		m.moveDay(-views.Columns)
	case key.Matches(msg, m.keys.Down):
		m.moveDay(views.Columns)
	case key.Matches(msg, m.keys.PrevMonth):
		m.month = views.ShiftMonth(m.month, -1)
		m.day = 1
	case key.Matches(msg, m.keys.NextMonth):
		m.month = views.ShiftMonth(m.month, 1)
		m.day = 1
	}
}

// moveDay moves the selection by delta days, crossing month edges.
func (m *Model) moveDay(delta int) {
	d := time.Date(m.month.Year(), m.month.Month(), m.day+delta, 0, 0, 0, 0, m.month.Location())
	m.month = views.ShiftMonth(d, 0)
	m.day = d.Day()
}

func (m *Model) updateRewards(msg tea.KeyMsg) {
	all := m.catalog.All()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.tipCursor > 0 {
			m.tipCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.tipCursor < len(all)-1 {
			m.tipCursor++
		}
	case key.Matches(msg, m.keys.Buy):
		if len(all) == 0 {
			return
		}
		tip := all[m.tipCursor]
		if !m.store.PurchaseTip(tip.ID, tip.Cost) {
			m.setStatus("Not enough points for "+tip.Title, true)
			return
		}
		m.snap = m.store.Snapshot()
		m.detail.SetContent(tip.Body)
		m.setStatus("Unlocked "+tip.Title, false)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// clamp keeps cursors inside their lists after the data changed.
func (m *Model) clamp() {
	if n := len(m.visibleMemories()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := m.catalog.Len(); m.tipCursor >= n {
		m.tipCursor = max(n-1, 0)
	}
}

func (m Model) visibleMemories() []models.Memory {
	if m.filter == "" {
		return m.snap.Memories
	}
	return views.ByCategory(m.snap.Memories, m.filter)
}

// selectedDate is the calendar selection as a date key.
func (m Model) selectedDate() string {
	d := time.Date(m.month.Year(), m.month.Month(), m.day, 0, 0, 0, 0, m.month.Location())
	return d.Format(views.DateLayout)
}

// draftDate dates new memories on the selected calendar day, or today.
func (m Model) draftDate() string {
	if m.tab == TabCalendar {
		return m.selectedDate()
	}
	return m.now().Format(views.DateLayout)
}
