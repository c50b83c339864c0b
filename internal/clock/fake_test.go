package clock_test

import (
	"testing"
	"time"

	"github.com/packsync/packsync/internal/clock"
)

func Test_Advance_Fires_Due_Timers_In_Deadline_Order(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake()

	var fired []string

	clk.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "b") })
	clk.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	clk.AfterFunc(500*time.Millisecond, func() { fired = append(fired, "c") })

	clk.Advance(300 * time.Millisecond)

	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired = %v, want [a b]", fired)
	}

	clk.Advance(200 * time.Millisecond)

	if len(fired) != 3 || fired[2] != "c" {
		t.Fatalf("fired = %v, want [a b c]", fired)
	}
}

func Test_Reset_Slides_The_Deadline(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake()

	fired := false
	timer := clk.AfterFunc(100*time.Millisecond, func() { fired = true })

	clk.Advance(50 * time.Millisecond)
	timer.Reset(100 * time.Millisecond)
	clk.Advance(80 * time.Millisecond)

	if fired {
		t.Fatal("timer fired before the slid deadline")
	}

	clk.Advance(30 * time.Millisecond)

	if !fired {
		t.Fatal("timer should have fired after the slid deadline")
	}
}

func Test_Stop_Prevents_Firing(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake()

	fired := false
	timer := clk.AfterFunc(100*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("stop of a pending timer should report true")
	}

	clk.Advance(time.Second)

	if fired {
		t.Fatal("stopped timer must not fire")
	}

	if timer.Stop() {
		t.Fatal("second stop should report false")
	}
}

func Test_Timer_Registered_During_Advance_Fires_In_Same_Window(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake()

	var fired []string

	clk.AfterFunc(50*time.Millisecond, func() {
		fired = append(fired, "first")
		clk.AfterFunc(50*time.Millisecond, func() { fired = append(fired, "chained") })
	})

	clk.Advance(200 * time.Millisecond)

	if len(fired) != 2 || fired[1] != "chained" {
		t.Fatalf("fired = %v, want [first chained]", fired)
	}
}
