package scheduling

import (
	"fmt"
	"sort"
)

// Slot (教室, 星期, 节次) 三元组，排他性的最小单位
type Slot struct {
	RoomID  int64
	Weekday Weekday
	Block   Block
}

func (s Slot) String() string {
	return fmt.Sprintf("room=%d %s block=%d", s.RoomID, s.Weekday, int(s.Block))
}

// slotLess 按 星期 → 节次 → 教室 排序
func slotLess(a, b Slot) bool {
	if a.Weekday != b.Weekday {
		return a.Weekday.Order() < b.Weekday.Order()
	}
	if a.Block != b.Block {
		return a.Block < b.Block
	}
	return a.RoomID < b.RoomID
}

// firstDuplicate 返回输入顺序中第一个重复出现的时段
func firstDuplicate(slots []Slot) (Slot, bool) {
	seen := make(map[Slot]struct{}, len(slots))
	for _, s := range slots {
		if _, ok := seen[s]; ok {
			return s, true
		}
		seen[s] = struct{}{}
	}
	return Slot{}, false
}

func cloneSlots(slots []Slot) []Slot {
	if len(slots) == 0 {
		return []Slot{}
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// roomIDs 收集若干时段集合涉及的教室（去重，升序）
func roomIDs(sets ...[]Slot) []int64 {
	seen := make(map[int64]struct{})
	for _, set := range sets {
		for _, s := range set {
			seen[s.RoomID] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
