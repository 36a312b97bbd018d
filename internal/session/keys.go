package session

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// KeyCode identifies a non-text key.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeySpace
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyInterrupt
	KeyOther
)

// Key is one input event. Rune is only meaningful for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// Rune returns the key for a printable character.
func Rune(r rune) Key { return Key{Code: KeyRune, Rune: r} }

var keyNames = map[KeyCode]string{
	KeySpace:     "space",
	KeyBackspace: "backspace",
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyInterrupt: "ctrl+c",
}

// String uses the same names as bubbletea's key strings.
func (k Key) String() string {
	if k.Code == KeyRune {
		return string(k.Rune)
	}
	if s, ok := keyNames[k.Code]; ok {
		return s
	}
	return "unknown"
}

// ParseKey parses a key name as written in the config file: a single
// character or one of space, backspace, enter, esc, up, down, home, end.
func ParseKey(s string) (Key, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r == ' ' {
			return Key{Code: KeySpace}, nil
		}
		return Rune(r), nil
	}
	name := strings.ToLower(strings.TrimSpace(s))
	for code, n := range keyNames {
		if n == name && code != KeyInterrupt {
			return Key{Code: code}, nil
		}
	}
	return Key{}, fmt.Errorf("unknown key %q", s)
}

// Action is what a key does while viewing.
type Action int

const (
	ActionNone Action = iota
	ActionSave
	ActionForget
	ActionUp
	ActionDown
	ActionStart
	ActionEnd
	ActionShiftEarlier
	ActionShiftLater
	ActionPriority1
	ActionPriority2
	ActionPriority3
	ActionPriority4
	ActionPriority5
	ActionPriority6
	ActionRemove
	ActionAdd
	ActionEditDescription
	ActionEditNote
	ActionEditTags
	ActionToggleHelp
)

// Priority slots reachable with a single key.
const PrioritySlots = 6

var actionNames = map[Action]string{
	ActionSave:            "save",
	ActionForget:          "forget",
	ActionUp:              "up",
	ActionDown:            "down",
	ActionStart:           "start",
	ActionEnd:             "end",
	ActionShiftEarlier:    "shift_earlier",
	ActionShiftLater:      "shift_later",
	ActionPriority1:       "priority_1",
	ActionPriority2:       "priority_2",
	ActionPriority3:       "priority_3",
	ActionPriority4:       "priority_4",
	ActionPriority5:       "priority_5",
	ActionPriority6:       "priority_6",
	ActionRemove:          "remove",
	ActionAdd:             "add",
	ActionEditDescription: "edit_description",
	ActionEditNote:        "edit_note",
	ActionEditTags:        "edit_tags",
	ActionToggleHelp:      "help",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "none"
}

// ParseAction maps a config name like "shift_earlier" to its action.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// priority returns the 0-based slot for a priority action.
func (a Action) priority() (int, bool) {
	if a >= ActionPriority1 && a <= ActionPriority6 {
		return int(a - ActionPriority1), true
	}
	return 0, false
}

// structural actions reorder or remove the selected task and need it to exist.
func (a Action) structural() bool {
	if _, ok := a.priority(); ok {
		return true
	}
	return a == ActionShiftEarlier || a == ActionShiftLater || a == ActionRemove
}

// Keymap binds keys to actions for the viewing mode.
type Keymap struct {
	byKey map[Key]Action
}

// DefaultKeymap returns the stock bindings.
func DefaultKeymap() Keymap {
	km := Keymap{byKey: map[Key]Action{}}
	km.bind(ActionSave, Rune('q'))
	km.bind(ActionForget, Rune('X'))
	km.bind(ActionUp, Key{Code: KeyUp})
	km.bind(ActionDown, Key{Code: KeyDown})
	km.bind(ActionStart, Key{Code: KeyHome})
	km.bind(ActionEnd, Key{Code: KeyEnd})
	km.bind(ActionShiftEarlier, Rune('='), Rune('+'))
	km.bind(ActionShiftLater, Rune('-'))
	for i := 0; i < PrioritySlots; i++ {
		km.bind(ActionPriority1+Action(i), Rune(rune('1'+i)))
	}
	km.bind(ActionRemove, Rune('D'))
	km.bind(ActionAdd, Rune('a'))
	km.bind(ActionEditDescription, Rune('e'))
	km.bind(ActionEditNote, Rune('n'))
	km.bind(ActionEditTags, Rune('t'))
	km.bind(ActionToggleHelp, Rune('?'))
	return km
}

func (km *Keymap) bind(a Action, keys ...Key) {
	for _, k := range keys {
		km.byKey[k] = a
	}
}

// Rebind replaces every key of a with keys. Keys taken from other actions
// are moved over.
func (km *Keymap) Rebind(a Action, keys ...Key) {
	if km.byKey == nil {
		*km = DefaultKeymap()
	}
	for k, bound := range km.byKey {
		if bound == a {
			delete(km.byKey, k)
		}
	}
	km.bind(a, keys...)
}

// Lookup returns the action bound to k, or ActionNone.
func (km Keymap) Lookup(k Key) Action {
	return km.byKey[k]
}

// Keys returns the keys bound to a in a stable order.
func (km Keymap) Keys(a Action) []Key {
	var out []Key
	for k, bound := range km.byKey {
		if bound == a {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, func(x, y Key) int {
		if x.Code != y.Code {
			return int(x.Code) - int(y.Code)
		}
		return int(x.Rune) - int(y.Rune)
	})
	return out
}

// Override applies config bindings of the form action name -> key names.
func (km *Keymap) Override(bindings map[string][]string) error {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return err
		}
		keys := make([]Key, 0, len(bindings[name]))
		for _, s := range bindings[name] {
			k, err := ParseKey(s)
			if err != nil {
				return fmt.Errorf("keys.%s: %w", name, err)
			}
			keys = append(keys, k)
		}
		km.Rebind(a, keys...)
	}
	return nil
}
