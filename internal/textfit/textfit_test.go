package textfit_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/calvinalkan/questbar/internal/textfit"
)

// tenPerRune renders every rune, including the ellipsis, 10px wide.
var tenPerRune = textfit.MeasureFunc(func(s string) float64 {
	return float64(utf8.RuneCountInString(s) * 10)
})

func Test_Fitter_Budget(t *testing.T) {
	t.Parallel()

	f := textfit.New(tenPerRune)

	for _, tt := range []struct {
		name string
		d    textfit.Display
		want float64
	}{
		{name: "narrow 1x", d: textfit.Display{LogicalWidth: 1440, ScaleFactor: 1}, want: 40},
		{name: "narrow 2x", d: textfit.Display{LogicalWidth: 1440, ScaleFactor: 2}, want: 80},
		{name: "threshold is not wide", d: textfit.Display{LogicalWidth: 1600, ScaleFactor: 1}, want: 40},
		{name: "wide 1x", d: textfit.Display{LogicalWidth: 1601, ScaleFactor: 1}, want: 105},
		{name: "wide 2x", d: textfit.Display{LogicalWidth: 2560, ScaleFactor: 2}, want: 210},
		{name: "zero scale means 1", d: textfit.Display{LogicalWidth: 1440}, want: 40},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := f.Budget(tt.d); got != tt.want {
				t.Errorf("Budget(%+v)=%v, want=%v", tt.d, got, tt.want)
			}
		})
	}
}

func Test_Fitter_FitWidth(t *testing.T) {
	t.Parallel()

	f := textfit.New(tenPerRune)

	for _, tt := range []struct {
		name   string
		text   string
		budget float64
		want   string
	}{
		{name: "fits unchanged", text: "abcd", budget: 100, want: "abcd"},
		{name: "exactly at budget", text: "abcd", budget: 40, want: "abcd"},
		{name: "one over", text: "abcde", budget: 40, want: "abc…"},
		{name: "far over", text: "Slay the ancient dragon of the north", budget: 60, want: "Slay…"},
		{name: "trims space before ellipsis", text: "ab cdef", budget: 40, want: "ab…"},
		{name: "empty input", text: "", budget: 40, want: ""},
		{name: "nothing fits", text: "abc", budget: 5, want: "…"},
		{name: "empty input zero budget", text: "", budget: 0, want: ""},
		{name: "multibyte runes", text: "ÄÖÜßéè", budget: 40, want: "ÄÖÜ…"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := f.FitWidth(tt.text, tt.budget); got != tt.want {
				t.Errorf("FitWidth(%q, %v)=%q, want=%q", tt.text, tt.budget, got, tt.want)
			}
		})
	}
}

func Test_Fitter_Long_Text_Is_Proper_Prefix_With_Single_Ellipsis(t *testing.T) {
	t.Parallel()

	f := textfit.New(tenPerRune)
	text := strings.Repeat("quest ", 20)

	got := f.Fit(text, textfit.Display{LogicalWidth: 1280, ScaleFactor: 1})

	if !strings.HasSuffix(got, textfit.Ellipsis) {
		t.Fatalf("Fit=%q, want ellipsis suffix", got)
	}

	if n := strings.Count(got, textfit.Ellipsis); n != 1 {
		t.Fatalf("Fit=%q has %d ellipses, want 1", got, n)
	}

	prefix := strings.TrimSuffix(got, textfit.Ellipsis)
	if !strings.HasPrefix(text, prefix) {
		t.Fatalf("Fit=%q: %q is not a prefix of input", got, prefix)
	}

	if utf8.RuneCountInString(got) >= utf8.RuneCountInString(text) {
		t.Fatalf("Fit=%q is not shorter than input", got)
	}
}

func Test_Fitter_Widening_Budget_Never_Shortens_Output(t *testing.T) {
	t.Parallel()

	f := textfit.New(tenPerRune)
	text := "Defeat the goblin king before sundown"

	prev := -1

	for budget := 0.0; budget <= 500; budget += 5 {
		got := utf8.RuneCountInString(f.FitWidth(text, budget))
		if got < prev {
			t.Fatalf("budget=%v: len=%d shrank from %d", budget, got, prev)
		}

		if got > utf8.RuneCountInString(text) {
			t.Fatalf("budget=%v: len=%d exceeds input", budget, got)
		}

		prev = got
	}
}

func Test_ReferenceMeasurer(t *testing.T) {
	t.Parallel()

	m, err := textfit.NewReferenceMeasurer()
	if err != nil {
		t.Fatalf("NewReferenceMeasurer: %v", err)
	}
	defer m.Close()

	if got := m.Measure(""); got != 0 {
		t.Errorf("Measure(\"\")=%v, want 0", got)
	}

	one, four := m.Measure("W"), m.Measure("WWWW")
	if one <= 0 || four <= one {
		t.Errorf("Measure(W)=%v Measure(WWWW)=%v, want 0 < one < four", one, four)
	}

	if narrow, wide := m.Measure("iiii"), m.Measure("WWWW"); narrow >= wide {
		t.Errorf("Measure(iiii)=%v >= Measure(WWWW)=%v, want proportional font", narrow, wide)
	}

	f := textfit.New(m)
	d := textfit.Display{LogicalWidth: 1440, ScaleFactor: 1}

	if got := f.Fit("Go", d); got != "Go" {
		t.Errorf("Fit(Go)=%q, want unchanged", got)
	}

	got := f.Fit("Vanquish the dread necromancer", d)
	if !strings.HasSuffix(got, textfit.Ellipsis) || m.Measure(got) > f.Budget(d) {
		t.Errorf("Fit=%q (width %v), want ellipsis within budget %v", got, m.Measure(got), f.Budget(d))
	}
}
