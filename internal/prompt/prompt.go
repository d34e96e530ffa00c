// Package prompt manages the transient "Add New Quest" input surface.
//
// At most one surface exists at a time. Asking for another while one is
// opening or open focuses the existing one. Every close path (submit,
// cancel, blur, external close) releases the surface before a new one can
// be created.
package prompt

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/calvinalkan/questbar/internal/clock"
)

// Timing of the surface.
const (
	// BlurGrace suppresses blur-triggered closes right after opening, when
	// the initial focus transfer itself can report a blur.
	BlurGrace = 100 * time.Millisecond

	// FadeStep is the interval between opacity increments of the fade-in.
	FadeStep = 16 * time.Millisecond

	// fadeSteps increments of 0.1 reach full opacity.
	fadeSteps = 10
)

// Window is a created input surface.
//
// Controller calls these methods while holding its lock; implementations
// must not call back into the Controller synchronously.
type Window interface {
	Focus()
	SetOpacity(opacity float64)
	Close()
}

// Factory creates a new hidden window.
type Factory func() (Window, error)

// Adder receives submitted quest titles.
type Adder interface {
	AddQuest(title string) bool
}

// State is the lifecycle state of the surface.
type State int

// Surface states.
const (
	Absent State = iota
	Opening
	Open
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Opening:
		return "opening"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a [Controller].
type Options struct {
	Clock  clock.Clock // defaults to [clock.Real]
	Logger *log.Logger // defaults to a discarding logger
}

// Controller owns the single input surface.
type Controller struct {
	factory Factory
	adder   Adder
	clock   clock.Clock
	logger  *log.Logger

	mu        sync.Mutex
	state     State
	win       Window
	gen       uint64
	blurArmed bool
	fadeStep  int
	timers    []clock.Timer
}

// NewController returns a controller that creates windows with factory and
// adds submitted titles to adder. Panics if either is nil.
func NewController(factory Factory, adder Adder, opts Options) *Controller {
	if factory == nil {
		panic("prompt factory is nil")
	}

	if adder == nil {
		panic("prompt adder is nil")
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Controller{factory: factory, adder: adder, clock: clk, logger: logger}
}

// State returns the current surface state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Show opens the surface, or focuses it when it already exists.
//
// The new window starts transparent and fades in. Blur is ignored until
// [BlurGrace] has elapsed.
func (c *Controller) Show() error {
	c.mu.Lock()

	if c.state != Absent {
		if c.win != nil {
			c.win.Focus()
		}

		c.mu.Unlock()

		return nil
	}

	c.state = Opening
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	win, err := c.factory()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// Closed while the factory ran.
		if win != nil {
			win.Close()
		}

		return nil
	}

	if err != nil {
		c.state = Absent

		return fmt.Errorf("creating prompt: %w", err)
	}

	c.win = win
	c.state = Open
	c.fadeStep = 0

	win.SetOpacity(0)
	win.Focus()

	c.timers = append(c.timers,
		c.clock.AfterFunc(BlurGrace, func() { c.armBlur(gen) }),
		c.clock.AfterFunc(FadeStep, func() { c.fade(gen) }),
	)

	c.logger.Debug("prompt opened")

	return nil
}

// Submit adds text as a quest and closes the surface. Blank text closes
// without adding. Returns whether a quest was added.
func (c *Controller) Submit(text string) bool {
	added := c.adder.AddQuest(text)

	c.close(true)

	return added
}

// Cancel closes the surface without adding anything.
func (c *Controller) Cancel() {
	c.close(true)
}

// Blur reports that the surface lost focus. It closes the surface unless
// the post-open grace period is still running. Returns whether it closed.
func (c *Controller) Blur() bool {
	c.mu.Lock()
	armed := c.blurArmed && c.state == Open
	c.mu.Unlock()

	if !armed {
		return false
	}

	c.close(true)

	return true
}

// Closed reports that the window was destroyed outside the controller.
// The controller forgets it without calling [Window.Close].
func (c *Controller) Closed() {
	c.close(false)
}

func (c *Controller) close(closeWindow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Absent {
		return
	}

	win := c.win

	c.gen++
	c.state = Absent
	c.win = nil
	c.blurArmed = false

	for _, t := range c.timers {
		t.Stop()
	}

	c.timers = nil

	if closeWindow && win != nil {
		win.Close()
	}

	c.logger.Debug("prompt closed")
}

func (c *Controller) armBlur(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen {
		c.blurArmed = true
	}
}

// fade raises opacity by one step and schedules the next one. A closed or
// replaced window stops the ramp.
func (c *Controller) fade(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.win == nil {
		return
	}

	c.fadeStep++

	if c.fadeStep >= fadeSteps {
		c.win.SetOpacity(1)

		return
	}

	c.win.SetOpacity(float64(c.fadeStep) / fadeSteps)
	c.timers = append(c.timers, c.clock.AfterFunc(FadeStep, func() { c.fade(gen) }))
}
