package mono

import (
	"errors"
	"fmt"
	"iter"
)

// ErrEmptySlot is returned by Build when a position has no items.
var ErrEmptySlot = errors.New("mono: empty slot")

// SlotBuilder collects the candidate items of n positions.
type SlotBuilder[T any] struct {
	slots [][]T
	err   error
}

func NewSlotBuilder[T any](n int) *SlotBuilder[T] {
	return &SlotBuilder[T]{slots: make([][]T, n)}
}

// AddItem appends item to position pos.
func (b *SlotBuilder[T]) AddItem(pos int, item T) *SlotBuilder[T] {
	return b.AddItems(pos, item)
}

// AddItems appends items to position pos, keeping insertion order.
func (b *SlotBuilder[T]) AddItems(pos int, items ...T) *SlotBuilder[T] {
	if pos < 0 || pos >= len(b.slots) {
		if b.err == nil {
			b.err = fmt.Errorf("mono: slot %d out of range [0, %d)", pos, len(b.slots))
		}
		return b
	}
	b.slots[pos] = append(b.slots[pos], items...)
	return b
}

// Build freezes the slots. Every position must hold at least one item.
func (b *SlotBuilder[T]) Build() (*Combinations[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	for i, s := range b.slots {
		if len(s) == 0 {
			return nil, fmt.Errorf("%w: position %d", ErrEmptySlot, i)
		}
	}
	slots := make([][]T, len(b.slots))
	for i, s := range b.slots {
		slots[i] = append([]T(nil), s...)
	}
	return &Combinations[T]{slots: slots}, nil
}

// Combinations is the cartesian product of built slots.
type Combinations[T any] struct {
	slots [][]T
}

// Len is the number of combinations All yields.
func (c *Combinations[T]) Len() int {
	n := 1
	for _, s := range c.slots {
		n *= len(s)
	}
	return n
}

// All yields every combination in odometer order: the last position
// advances fastest. Each yielded slice is fresh and may be kept.
func (c *Combinations[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		idx := make([]int, len(c.slots))
		for {
			combo := make([]T, len(c.slots))
			for i, s := range c.slots {
				combo[i] = s[idx[i]]
			}
			if !yield(combo) {
				return
			}
			pos := len(idx) - 1
			for ; pos >= 0; pos-- {
				idx[pos]++
				if idx[pos] < len(c.slots[pos]) {
					break
				}
				idx[pos] = 0
			}
			if pos < 0 {
				return
			}
		}
	}
}
