package mono

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestCombinationsOdometerOrder(t *testing.T) {
	c, err := NewSlotBuilder[string](3).
		AddItems(0, "a", "b").
		AddItem(1, "x").
		AddItems(2, "1", "2", "3").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 6 {
		t.Fatalf("len = %d", c.Len())
	}
	var got []string
	for combo := range c.All() {
		got = append(got, strings.Join(combo, ""))
	}
	want := []string{"ax1", "ax2", "ax3", "bx1", "bx2", "bx3"}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v", got)
	}

	// restartable, and each slice is owned by the caller
	var kept [][]string
	for combo := range c.All() {
		kept = append(kept, combo)
	}
	kept[0][0] = "mutated"
	if kept[1][0] != "a" || len(kept) != 6 {
		t.Fatalf("combinations share storage: %v", kept)
	}
}

func TestCombinationsEarlyStop(t *testing.T) {
	c, err := NewSlotBuilder[int](2).AddItems(0, 1, 2).AddItems(1, 3, 4).Build()
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range c.All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("visited %d", n)
	}
}

func TestSlotBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
		empty bool
	}{
		{"unset position", func() error {
			_, err := NewSlotBuilder[int](2).AddItem(0, 1).Build()
			return err
		}, true},
		{"empty items", func() error {
			_, err := NewSlotBuilder[int](1).AddItems(0).Build()
			return err
		}, true},
		{"out of range", func() error {
			_, err := NewSlotBuilder[int](1).AddItem(0, 1).AddItem(1, 2).Build()
			return err
		}, false},
		{"negative", func() error {
			_, err := NewSlotBuilder[int](1).AddItem(-1, 2).Build()
			return err
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := errors.Is(err, ErrEmptySlot); got != tt.empty {
				t.Fatalf("errors.Is(ErrEmptySlot) = %v for %v", got, err)
			}
		})
	}
}

func TestZeroSlotsYieldOneEmptyCombination(t *testing.T) {
	c, err := NewSlotBuilder[int](0).Build()
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for combo := range c.All() {
		if len(combo) != 0 {
			t.Fatalf("combo = %v", combo)
		}
		n++
	}
	if n != 1 || c.Len() != 1 {
		t.Fatalf("n=%d len=%d", n, c.Len())
	}
}
