package fortune

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestPicker_Count(t *testing.T) {
	t.Parallel()

	p := NewPicker()
	if p.Count() != 30 {
		t.Errorf("Count() = %d, want 30", p.Count())
	}
}

func TestPicker_RandomFromList(t *testing.T) {
	t.Parallel()

	p := NewPicker()
	all := p.All()

	for i := 0; i < 200; i++ {
		got := p.Random()
		if !slices.Contains(all, got) {
			t.Fatalf("Random() returned unknown fortune %q", got)
		}
	}
}

func TestPicker_Deterministic(t *testing.T) {
	t.Parallel()

	p1 := NewPickerWithSource(rand.New(rand.NewPCG(1, 2)))
	p2 := NewPickerWithSource(rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 20; i++ {
		if a, b := p1.Random(), p2.Random(); a != b {
			t.Fatalf("draw %d differs: %q vs %q", i, a, b)
		}
	}
}

func TestPicker_CoversAllMessages(t *testing.T) {
	t.Parallel()

	p := NewPickerWithSource(rand.New(rand.NewPCG(42, 7)))
	seen := make(map[string]bool)

	// 30 messages; 5000 uniform draws miss one with negligible probability.
	for i := 0; i < 5000; i++ {
		seen[p.Random()] = true
	}

	if len(seen) != p.Count() {
		t.Errorf("saw %d distinct fortunes, want %d", len(seen), p.Count())
	}
}

func TestPicker_AllReturnsCopy(t *testing.T) {
	t.Parallel()

	p := NewPicker()
	all := p.All()
	all[0] = "tampered"

	if p.All()[0] == "tampered" {
		t.Error("All() exposed internal slice")
	}
}

func TestMessages_NoDuplicatesOrEmpty(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, m := range messages {
		if m == "" {
			t.Error("empty fortune message")
		}
		if seen[m] {
			t.Errorf("duplicate fortune %q", m)
		}
		seen[m] = true
	}
}
