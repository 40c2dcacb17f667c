// Package dropdown implements a single-choice selector whose menu opens above
// or below its trigger depending on where the trigger sits in the terminal.
//
// The selected value is owned by the caller. The dropdown only keeps its own
// open/closed state and menu placement, and reports picks through ChangedMsg.
package dropdown

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/indicure/internal/inputbus"
)

// Direction is where the menu is drawn relative to the trigger.
type Direction string

const (
	Down Direction = "down"
	Up   Direction = "up"
)

const (
	// MenuMaxHeight is the assumed menu height used by Placement. It is a
	// fixed heuristic and is never replaced by the rendered height.
	MenuMaxHeight = 240

	DefaultPlaceholder = "Select…"
	defaultWidth       = 24
)

// Rect is a cell rectangle in terminal coordinates. Bottom is exclusive.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) Top() int { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the cell (x, y) falls inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Placement picks the menu direction for a trigger spanning
// [triggerTop, triggerBottom) inside a viewport of viewportHeight rows.
// The menu flips up only when the space below is short of MenuMaxHeight and
// the space above is strictly larger than the space below.
func Placement(viewportHeight, triggerTop, triggerBottom int) Direction {
	spaceBelow := viewportHeight - triggerBottom
	spaceAbove := triggerTop
	if spaceBelow < MenuMaxHeight && spaceAbove > spaceBelow {
		return Up
	}
	return Down
}

// ChangedMsg is emitted once per option pick, even when Value equals the
// current selection.
type ChangedMsg struct {
	ID    string
	Value string
}

// Option customises a Model at construction time.
type Option func(*Model)

// WithPlaceholder sets the text shown while the caller's value is empty.
func WithPlaceholder(placeholder string) Option {
	return func(m *Model) {
		if placeholder != "" {
			m.placeholder = placeholder
		}
	}
}

// WithWidth sets the outer width of the trigger and the menu.
func WithWidth(width int) Option {
	return func(m *Model) {
		if width > 4 {
			m.width = width
		}
	}
}

// Model is one mounted dropdown instance.
type Model struct {
	id          string
	options     []string
	placeholder string
	width       int

	open      bool
	direction Direction
	cursor    int

	trigger        Rect
	viewportHeight int

	sub *inputbus.Subscription
}

// New mounts a dropdown and subscribes it to bus for outside presses and Esc.
// Call Unmount to release the subscription.
func New(id string, bus *inputbus.Bus, options []string, opts ...Option) *Model {
	m := &Model{
		id:          id,
		options:     append([]string(nil), options...),
		placeholder: DefaultPlaceholder,
		width:       defaultWidth,
		direction:   Down,
	}
	for _, opt := range opts {
		opt(m)
	}
	if bus != nil {
		m.sub = bus.Subscribe(m.handleEvent)
	}
	return m
}

func (m *Model) ID() string { return m.id }
func (m *Model) Options() []string { return append([]string(nil), m.options...) }
func (m *Model) IsOpen() bool { return m.open }
func (m *Model) Direction() Direction { return m.direction }
func (m *Model) Cursor() int { return m.cursor }
func (m *Model) Width() int { return m.width }
func (m *Model) Mounted() bool { return m.sub.Active() }
func (m *Model) TriggerBounds() Rect { return m.trigger }
func (m *Model) ViewportHeight() int { return m.viewportHeight }

// SetLayout records where the host drew the trigger and how tall the terminal
// is. The direction is not recomputed here; that only happens on open.
func (m *Model) SetLayout(trigger Rect, viewportHeight int) {
	m.trigger = trigger
	m.viewportHeight = viewportHeight
}

// Unmount closes the menu and releases the bus subscription. Safe to call
// more than once.
func (m *Model) Unmount() {
	m.open = false
	m.sub.Unsubscribe()
}

// Toggle opens a closed menu or closes an open one. value is the caller's
// current selection and seeds the keyboard cursor.
func (m *Model) Toggle(value string) {
	if m.open {
		m.close()
		return
	}
	m.direction = Placement(m.viewportHeight, m.trigger.Top(), m.trigger.Bottom())
	m.cursor = 0
	for i, opt := range m.options {
		if opt == value {
			m.cursor = i
			break
		}
	}
	m.open = true
}

// Select picks the option at index, closes the menu and returns the command
// that delivers the ChangedMsg. Out-of-range indexes only close the menu.
func (m *Model) Select(index int) tea.Cmd {
	m.close()
	if index < 0 || index >= len(m.options) {
		return nil
	}
	msg := ChangedMsg{ID: m.id, Value: m.options[index]}
	return func() tea.Msg { return msg }
}

// MenuBounds is the rectangle the open menu occupies.
func (m *Model) MenuBounds() Rect {
	height := m.menuHeight()
	y := m.trigger.Bottom()
	if m.direction == Up {
		y = m.trigger.Top() - height
	}
	return Rect{X: m.trigger.X, Y: y, Width: m.width, Height: height}
}

// HandleMouse reacts to presses that land on the trigger or on an option.
// Presses elsewhere are left to the bus subscription.
func (m *Model) HandleMouse(msg tea.MouseMsg, value string) (tea.Cmd, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, false
	}
	if m.trigger.Contains(msg.X, msg.Y) {
		m.Toggle(value)
		return nil, true
	}
	if !m.open {
		return nil, false
	}
	if idx, ok := m.optionAt(msg.X, msg.Y); ok {
		return m.Select(idx), true
	}
	return nil, m.MenuBounds().Contains(msg.X, msg.Y)
}

// HandleKey is called by the host while this dropdown has focus.
func (m *Model) HandleKey(msg tea.KeyMsg, value string) (tea.Cmd, bool) {
	key := msg.String()
	if !m.open {
		switch key {
		case "enter", " ", "down":
			m.Toggle(value)
			return nil, true
		}
		return nil, false
	}
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return nil, true
	case "enter", " ":
		return m.Select(m.cursor), true
	}
	return nil, false
}

func (m *Model) handleEvent(ev inputbus.Event) {
	switch ev := ev.(type) {
	case inputbus.KeyDown:
		if ev.Key == "esc" {
			m.close()
		}
	case inputbus.PointerDown:
		if !m.contains(ev.X, ev.Y) {
			m.close()
		}
	}
}

func (m *Model) contains(x, y int) bool {
	if m.trigger.Contains(x, y) {
		return true
	}
	return m.open && m.MenuBounds().Contains(x, y)
}

func (m *Model) optionAt(x, y int) (int, bool) {
	bounds := m.MenuBounds()
	if !bounds.Contains(x, y) {
		return 0, false
	}
	idx := y - bounds.Y - 1
	if idx < 0 || idx >= len(m.options) {
		return 0, false
	}
	return idx, true
}

func (m *Model) menuHeight() int {
	rows := len(m.options)
	if rows == 0 {
		rows = 1
	}
	return rows + 2
}

func (m *Model) close() {
	m.open = false
}
