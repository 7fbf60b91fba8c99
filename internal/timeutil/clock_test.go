package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	start := clock.Now()
	time.Sleep(5 * time.Millisecond)

	if elapsed := clock.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("expected at least 5ms elapsed, got %v", elapsed)
	}
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(base)

	if !clock.Now().Equal(base) {
		t.Errorf("expected %v, got %v", base, clock.Now())
	}

	clock.Advance(90 * time.Second)
	if got := clock.Since(base); got != 90*time.Second {
		t.Errorf("expected 90s since base, got %v", got)
	}

	later := base.Add(time.Hour)
	clock.Set(later)
	if !clock.Now().Equal(later) {
		t.Errorf("expected %v after Set, got %v", later, clock.Now())
	}
}

func TestMockClock_AutoAdvance(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(base)
	clock.AutoAdvance(250 * time.Millisecond)

	start := clock.Now()
	if !start.Equal(base) {
		t.Errorf("first Now should return the start time, got %v", start)
	}
	if got := clock.Since(start); got != 250*time.Millisecond {
		t.Errorf("expected 250ms elapsed, got %v", got)
	}
}
