package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"ivly-cli/internal/format"
	"ivly-cli/internal/model"
	"ivly-cli/internal/session"
)

const (
	colMarker = iota
	colNumber
	colDescription
	colNote
	colCreated
	colTags
)

var headers = []string{"", "Task#", "Description", "Note", "Created", "Tags"}

var fieldColumn = map[session.Field]int{
	session.FieldDescription: colDescription,
	session.FieldNote:        colNote,
	session.FieldTags:        colTags,
}

func (m sessionModel) View() string {
	if m.s.HelpVisible() {
		return m.helpView()
	}
	var b strings.Builder
	b.WriteString(m.tableView())
	b.WriteString("\n\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m sessionModel) footerView() string {
	if m.s.Edit().Active() {
		return styleMuted().Render("Enter to accept changes")
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m sessionModel) helpView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Keys")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorHelpBorder).
		Padding(1, 2).
		Render(title + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()))
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m sessionModel) tableView() string {
	first, last := m.window()
	descW, noteW, tagsW := m.columnWidths()

	rows := make([][]string, 0, last-first)
	for i := first; i < last; i++ {
		rows = append(rows, m.row(i, descW, noteW, tagsW))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorHeader)
			}
			return m.cellStyle(first+row, col)
		}).
		Render()
}

// columnWidths splits what is left after the fixed columns between
// description, note and tags. Zero means unlimited.
func (m sessionModel) columnWidths() (desc, note, tags int) {
	if m.width <= 0 {
		return 0, 0, 0
	}
	// marker, number and created plus padding and the outer border.
	const fixed = 4 + 7 + 16 + 2
	free := max(m.width-fixed, 30)
	tags = free / 5
	note = free / 3
	desc = free - tags - note - 6
	return desc, note, tags
}

func (m sessionModel) row(i, descW, noteW, tagsW int) []string {
	tasks := m.s.Tasks()
	cells := make([]string, len(headers))
	if i == m.s.Cursor() {
		cells[colMarker] = ">>"
	}
	if i < len(tasks) {
		t := tasks[i]
		cells[colNumber] = strconv.Itoa(i + 1)
		cells[colDescription] = t.Description
		cells[colNote] = firstLine(t.Note)
		cells[colCreated] = format.Ago(t.SinceCreated(m.clock()))
		cells[colTags] = model.JoinTags(t.Tags)
	}
	cells[colDescription] = truncate(cells[colDescription], descW)
	cells[colNote] = truncate(cells[colNote], noteW)
	cells[colTags] = truncate(cells[colTags], tagsW)
	if e := m.s.Edit(); e.Active() && e.Index() == i {
		widths := map[int]int{colDescription: descW, colNote: noteW, colTags: tagsW}
		col := fieldColumn[e.Field()]
		cells[col] = truncateTail(e.Buffer(), widths[col])
	}
	return cells
}

func (m sessionModel) cellStyle(i, col int) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if i%2 == 1 {
		st = st.Background(colorAltRowBg)
	}
	tasks := m.s.Tasks()
	if i < len(tasks) && tasks[i].IsFinished() && col != colMarker {
		st = st.Strikethrough(true)
	}
	if e := m.s.Edit(); e.Active() && e.Index() == i && fieldColumn[e.Field()] == col {
		st = st.Foreground(colorEditFg).Bold(true)
	}
	if i == m.s.Cursor() {
		st = st.Reverse(true)
	}
	return st
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func truncate(s string, w int) string {
	if w <= 0 || ansi.StringWidth(s) <= w {
		return s
	}
	return ansi.Truncate(s, w, "…")
}

// truncateTail keeps the end visible, where an edit buffer grows.
func truncateTail(s string, w int) string {
	width := ansi.StringWidth(s)
	if w <= 0 || width <= w {
		return s
	}
	return ansi.TruncateLeft(s, width-w+1, "…")
}
