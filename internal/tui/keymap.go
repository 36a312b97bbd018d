package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ivly-cli/internal/session"
)

// helpKeys adapts a session keymap to bubbles' help.KeyMap.
type helpKeys struct {
	ToggleHelp key.Binding
	Forget     key.Binding
	Save       key.Binding
	Select     key.Binding
	Jump       key.Binding
	Shift      key.Binding
	Priority   key.Binding
	EditDesc   key.Binding
	EditNote   key.Binding
	EditTags   key.Binding
	Add        key.Binding
	Remove     key.Binding
}

func newHelpKeys(km session.Keymap) helpKeys {
	return helpKeys{
		ToggleHelp: binding(km, "Toggle Help", session.ActionToggleHelp),
		Forget:     binding(km, "Exit", session.ActionForget),
		Save:       binding(km, "Save and exit", session.ActionSave),
		Select:     binding(km, "Select row", session.ActionUp, session.ActionDown),
		Jump:       binding(km, "First/last row", session.ActionStart, session.ActionEnd),
		Shift:      binding(km, "Change priority", session.ActionShiftEarlier, session.ActionShiftLater),
		Priority: binding(km, "Set priority",
			session.ActionPriority1, session.ActionPriority2, session.ActionPriority3,
			session.ActionPriority4, session.ActionPriority5, session.ActionPriority6),
		EditDesc: binding(km, "Edit description", session.ActionEditDescription),
		EditNote: binding(km, "Edit note", session.ActionEditNote),
		EditTags: binding(km, "Edit tags", session.ActionEditTags),
		Add:      binding(km, "Add new task", session.ActionAdd),
		Remove:   binding(km, "Remove task", session.ActionRemove),
	}
}

func (k helpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleHelp, k.Forget, k.Save}
}

func (k helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{
		k.Select, k.Jump, k.Shift, k.Priority,
		k.EditDesc, k.EditNote, k.EditTags,
		k.Add, k.Remove, k.Save, k.Forget,
	}}
}

func binding(km session.Keymap, desc string, actions ...session.Action) key.Binding {
	var names []string
	for _, a := range actions {
		for _, k := range km.Keys(a) {
			names = append(names, k.String())
		}
	}
	if len(names) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(names...),
		key.WithHelp(helpLabel(names), desc),
	)
}

var keyGlyphs = map[string]string{
	"up":   "↑",
	"down": "↓",
}

// helpLabel joins key names, collapsing a run of single digits to "1-6".
func helpLabel(names []string) string {
	if len(names) > 2 && isDigitRun(names) {
		return names[0] + "-" + names[len(names)-1]
	}
	out := make([]string, len(names))
	for i, n := range names {
		if g, ok := keyGlyphs[n]; ok {
			n = g
		}
		out[i] = n
	}
	return strings.Join(out, "/")
}

func isDigitRun(names []string) bool {
	for i, n := range names {
		if len(n) != 1 || n[0] < '0' || n[0] > '9' {
			return false
		}
		if i > 0 && n[0] != names[i-1][0]+1 {
			return false
		}
	}
	return true
}

// keysFromMsg translates a terminal key event into session keys. A pasted
// run of runes becomes one key per rune.
func keysFromMsg(msg tea.KeyMsg) []session.Key {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []session.Key{{Code: session.KeyInterrupt}}
	case tea.KeyRunes:
		if msg.Alt {
			return []session.Key{{Code: session.KeyOther}}
		}
		out := make([]session.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r == ' ' {
				out = append(out, session.Key{Code: session.KeySpace})
				continue
			}
			out = append(out, session.Rune(r))
		}
		return out
	case tea.KeySpace:
		return []session.Key{{Code: session.KeySpace}}
	case tea.KeyBackspace:
		return []session.Key{{Code: session.KeyBackspace}}
	case tea.KeyEnter:
		return []session.Key{{Code: session.KeyEnter}}
	case tea.KeyEsc:
		return []session.Key{{Code: session.KeyEscape}}
	case tea.KeyUp:
		return []session.Key{{Code: session.KeyUp}}
	case tea.KeyDown:
		return []session.Key{{Code: session.KeyDown}}
	case tea.KeyHome:
		return []session.Key{{Code: session.KeyHome}}
	case tea.KeyEnd:
		return []session.Key{{Code: session.KeyEnd}}
	default:
		return []session.Key{{Code: session.KeyOther}}
	}
}
