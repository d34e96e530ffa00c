package tray

import (
	"math"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calvinalkan/questbar/internal/prompt"
	"github.com/calvinalkan/questbar/internal/quest"
)

// promptWindow is the in-terminal input surface. The prompt controller
// drives it from timer goroutines, so its fields are atomic and repaint
// requests are posted asynchronously.
type promptWindow struct {
	opacity atomic.Uint64 // math.Float64bits
	focused atomic.Bool
	closed  atomic.Bool
	repaint func()
}

func newPromptWindow(repaint func()) *promptWindow {
	return &promptWindow{repaint: repaint}
}

func (w *promptWindow) Focus() {
	w.focused.Store(true)
	w.repaint()
}

func (w *promptWindow) SetOpacity(opacity float64) {
	w.opacity.Store(math.Float64bits(opacity))
	w.repaint()
}

func (w *promptWindow) Close() {
	w.closed.Store(true)
	w.repaint()
}

func (w *promptWindow) Opacity() float64 {
	return math.Float64frombits(w.opacity.Load())
}

func (w *promptWindow) IsClosed() bool {
	return w.closed.Load()
}

var _ prompt.Window = (*promptWindow)(nil)

// repaintMsg asks the program to redraw.
type repaintMsg struct{}

// StateChangedMsg carries a store change to the program.
type StateChangedMsg struct {
	State quest.State
}

// Notifier forwards store changes and repaint requests into a running
// program. It is created before the store and attached once the program
// exists; until then notifications are dropped.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach connects the notifier to p.
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.program = p
}

// OnChange is a [quest.Options.OnChange] callback.
func (n *Notifier) OnChange(st quest.State) {
	n.send(StateChangedMsg{State: st})
}

// Repaint requests a redraw.
func (n *Notifier) Repaint() {
	n.send(repaintMsg{})
}

// send never blocks: callbacks may run inside the program's own Update.
func (n *Notifier) send(msg tea.Msg) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()

	if p == nil {
		return
	}

	go p.Send(msg)
}
