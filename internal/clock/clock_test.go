package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	t.Parallel()

	fixed := Unix(1700000000)
	if got := fixed.Now().Unix(); got != 1700000000 {
		t.Fatalf("Now().Unix() = %d", got)
	}
	if fixed.Now() != fixed.Now() {
		t.Fatalf("fixed clock drifted")
	}
}

func TestRealClockIsUTC(t *testing.T) {
	t.Parallel()

	now := RealClock{}.Now()
	if now.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", now.Location())
	}
}
