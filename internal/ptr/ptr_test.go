package ptr_test

import (
	"testing"

	"github.com/liftline/liftline/internal/ptr"
)

func TestRef(t *testing.T) {
	if got := ptr.Ref(42); *got != 42 {
		t.Errorf("Ref(42) = %d, want 42", *got)
	}

	if got := ptr.Ref("bench press"); *got != "bench press" {
		t.Errorf("Ref(%q) = %q, want %q", "bench press", *got, "bench press")
	}

	weight := ptr.Ref(102.5)
	*weight += 2.5
	if *weight != 105 {
		t.Errorf("mutated *Ref = %f, want 105", *weight)
	}
}
