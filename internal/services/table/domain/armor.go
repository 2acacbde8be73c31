package domain

import "sort"

// DefaultArmorSlots applies when a sheet does not say how many slots it has.
const DefaultArmorSlots = 4

// ToggleSlot applies one click on armor slot index to the marked set of a
// sheet with slots slots. Clicking a marked slot refills the lowest marked
// slot; clicking an unmarked slot marks the highest unmarked one. Out of
// range indices leave the set as is. The result is sorted.
func ToggleSlot(marked []int, slots, index int) []int {
	out := normalizeMarked(marked, slots)
	if index < 0 || index >= slots {
		return out
	}
	for _, m := range out {
		if m == index {
			return out[1:]
		}
	}
	slot := unmarkedIndex(out, slots)
	if slot < 0 {
		return out
	}
	out = append(out, slot)
	sort.Ints(out)
	return out
}

// MarkTopSlot marks the highest unmarked slot. ok is false when every slot
// is already marked.
func MarkTopSlot(marked []int, slots int) (out []int, ok bool) {
	out = normalizeMarked(marked, slots)
	if len(out) >= slots {
		return out, false
	}
	return ToggleSlot(out, slots, unmarkedIndex(out, slots)), true
}

func unmarkedIndex(marked []int, slots int) int {
	taken := make(map[int]bool, len(marked))
	for _, m := range marked {
		taken[m] = true
	}
	for slot := slots - 1; slot >= 0; slot-- {
		if !taken[slot] {
			return slot
		}
	}
	return -1
}

// normalizeMarked drops duplicates and out of range entries.
func normalizeMarked(marked []int, slots int) []int {
	seen := make(map[int]bool, len(marked))
	out := make([]int, 0, len(marked))
	for _, m := range marked {
		if m < 0 || m >= slots || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}
