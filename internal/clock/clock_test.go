package clock_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/questbar/internal/clock"
)

func Test_Fake_Fires_Due_Timers_In_Order(t *testing.T) {
	t.Parallel()

	c := clock.NewFake()

	var fired []string

	c.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "c") })
	c.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })
	c.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "b") })

	c.Advance(20 * time.Millisecond)

	if diff := cmp.Diff([]string{"a", "b"}, fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}

	if got, want := c.Pending(), 1; got != want {
		t.Errorf("Pending=%d, want=%d", got, want)
	}

	c.Advance(10 * time.Millisecond)

	if diff := cmp.Diff([]string{"a", "b", "c"}, fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
}

func Test_Fake_Runs_Timers_Scheduled_By_Callbacks(t *testing.T) {
	t.Parallel()

	c := clock.NewFake()
	start := c.Now()
	ticks := 0

	var tick func()
	tick = func() {
		ticks++
		if ticks < 5 {
			c.AfterFunc(16*time.Millisecond, tick)
		}
	}

	c.AfterFunc(16*time.Millisecond, tick)
	c.Advance(time.Second)

	if got, want := ticks, 5; got != want {
		t.Errorf("ticks=%d, want=%d", got, want)
	}

	if got, want := c.Now().Sub(start), time.Second; got != want {
		t.Errorf("elapsed=%v, want=%v", got, want)
	}
}

func Test_Fake_Stop(t *testing.T) {
	t.Parallel()

	c := clock.NewFake()
	fired := false

	timer := c.AfterFunc(time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("first Stop=false, want true")
	}

	if timer.Stop() {
		t.Fatal("second Stop=true, want false")
	}

	c.Advance(time.Second)

	if fired {
		t.Fatal("stopped timer fired")
	}
}
