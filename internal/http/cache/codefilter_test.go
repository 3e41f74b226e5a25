package cache

import (
	"fmt"
	"testing"
)

func TestCodeFilter_AddAndTest(t *testing.T) {
	f := NewCodeFilter(1000, 0.01)

	codes := make([]string, 100)
	for i := range codes {
		codes[i] = fmt.Sprintf("code%04d", i)
		f.Add(codes[i])
	}

	// No false negatives, ever.
	for _, code := range codes {
		if !f.MightContain(code) {
			t.Fatalf("added code %q reported as unknown", code)
		}
	}
}

func TestCodeFilter_UnknownCodesMostlyRejected(t *testing.T) {
	f := NewCodeFilter(1000, 0.01)
	for i := 0; i < 100; i++ {
		f.Add(fmt.Sprintf("known%04d", i))
	}

	falsePositives := 0
	for i := 0; i < 1000; i++ {
		if f.MightContain(fmt.Sprintf("unknown%06d", i)) {
			falsePositives++
		}
	}
	// Sized for 1% fp at full capacity; at 10% fill this should be far below 5%.
	if falsePositives > 50 {
		t.Fatalf("false positive rate too high: %d/1000", falsePositives)
	}
}
