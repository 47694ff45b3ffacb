package diag

import (
	"fmt"
	"slices"
	"sort"

	"fortio.org/safecast"
)

// Bag collects diagnostics of one compilation unit up to a limit.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

// NewBag creates a bag holding at most max diagnostics (clamped to uint16).
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// A full bag gives up its least severe entry for a more severe one; either
// way one diagnostic is counted as dropped. Returns false if d was not stored.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) < int(b.max) {
		b.items = append(b.items, d)
		return true
	}
	b.dropped++
	low := -1
	for i := range b.items {
		if sev := b.items[i].Severity; sev < d.Severity && (low < 0 || sev < b.items[low].Severity) {
			low = i
		}
	}
	if low < 0 {
		return false
	}
	b.items = slices.Delete(b.items, low, low+1)
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.count(SevError) > 0
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return b.count(SevWarning) > 0
}

func (b *Bag) count(atLeast Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= atLeast {
			n++
		}
	}
	return n
}

// Len returns the number of stored diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Filter returns diagnostics with the given code, in stored order.
func (b *Bag) Filter(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Merge объединяет диагностики из другого Bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	out := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary.String(), d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	b.items = out
}
