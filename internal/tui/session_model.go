package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"ivly-cli/internal/model"
	"ivly-cli/internal/session"
)

// interruptMsg ends the session with Forget. It is sent when the Run context
// is cancelled.
type interruptMsg struct{}

// Lines around the table rows: top border, header, header rule, bottom
// border, spacer, footer.
const chromeLines = 6

type sessionModel struct {
	s     *session.Session
	keys  helpKeys
	help  help.Model
	clock model.Clock

	width  int
	height int
	offset int

	err error
}

func newSessionModel(s *session.Session, clock model.Clock) sessionModel {
	h := help.New()
	h.ShortSeparator = "  "
	if clock == nil {
		clock = model.SystemClock
	}
	return sessionModel{
		s:     s,
		keys:  newHelpKeys(s.Keymap()),
		help:  h,
		clock: clock,
	}
}

func (m sessionModel) Init() tea.Cmd { return nil }

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	case interruptMsg:
		return m.handle([]session.Key{{Code: session.KeyInterrupt}})
	case tea.KeyMsg:
		return m.handle(keysFromMsg(msg))
	}
	return m, nil
}

func (m sessionModel) handle(keys []session.Key) (tea.Model, tea.Cmd) {
	for _, k := range keys {
		if err := m.s.Handle(k); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if m.s.Done() {
			return m, tea.Quit
		}
	}
	m.scroll()
	return m, nil
}

// rowCount includes a trailing blank row when the cursor or the edit buffer
// sits after the last task.
func (m sessionModel) rowCount() int {
	n := len(m.s.Tasks())
	if m.s.Cursor() >= n {
		return n + 1
	}
	if e := m.s.Edit(); e.Active() && e.Index() >= n {
		return n + 1
	}
	return n
}

// visibleRows is 0 when the terminal size is unknown, meaning "all".
func (m sessionModel) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-chromeLines, 1)
}

// scroll keeps the cursor inside the visible window.
func (m *sessionModel) scroll() {
	capacity := m.visibleRows()
	if capacity == 0 {
		m.offset = 0
		return
	}
	c := m.s.Cursor()
	if c < m.offset {
		m.offset = c
	}
	if c >= m.offset+capacity {
		m.offset = c - capacity + 1
	}
	m.offset = max(min(m.offset, m.rowCount()-capacity), 0)
}

// window returns the [first, last) rows to render.
func (m sessionModel) window() (int, int) {
	total := m.rowCount()
	capacity := m.visibleRows()
	if capacity == 0 || total <= capacity {
		return 0, total
	}
	first := max(min(m.offset, total-capacity), 0)
	return first, first + capacity
}
