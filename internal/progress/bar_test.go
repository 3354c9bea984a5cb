package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar_AdvancesToCompletion(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, 4)

	for i := 1; i <= 4; i++ {
		b.Update(i)
	}

	if !b.Finished() {
		t.Error("bar should be finished after reaching total")
	}
	out := buf.String()
	if !strings.Contains(out, "4/4") {
		t.Errorf("output %q should contain final count", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("completion should print a newline")
	}
}

func TestBar_IdempotentAfterCompletion(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, 2)

	b.Update(1)
	b.Update(2)
	done := buf.Len()

	b.Update(2)
	b.Update(1)

	if buf.Len() != done {
		t.Error("updates after completion must not render")
	}
}

func TestBar_Monotonic(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, 10)

	b.Update(5)
	rendered := buf.Len()

	b.Update(3) // stale update, ignored
	if buf.Len() != rendered {
		t.Error("a lower completed count must not render")
	}

	b.Update(5)
	if buf.Len() == rendered {
		t.Error("an equal completed count re-renders the current state")
	}
}

func TestBar_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, 0)

	b.Update(1) // must not divide by zero or render
	if buf.Len() != 0 {
		t.Errorf("output = %q, want none", buf.String())
	}
}

func TestBar_ClampsOvershoot(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, 3)

	b.Update(5)
	if !b.Finished() {
		t.Error("overshoot should finish the bar")
	}
	if !strings.Contains(buf.String(), "3/3") {
		t.Errorf("output %q should clamp to total", buf.String())
	}
}
