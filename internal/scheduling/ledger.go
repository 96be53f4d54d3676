package scheduling

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NoSection 表示不排除任何班级
const NoSection int64 = 0

// Reservation 时段与班级的已提交绑定
type Reservation struct {
	ID        string
	Slot      Slot
	SectionID int64
	CourseID  int64
}

// Ledger 预约台账：时段排他性的唯一持有者。
//
// 所有写操作（ReplaceForSection / RemoveForSection / Load）在同一把写锁内完成
// "检查 + 提交"；读操作共享读锁，永远看不到替换到一半的状态。
// 台账内部不做任何 I/O，也不发出事件，变更通知统一由 SectionScheduler 在释放锁后发出。
type Ledger struct {
	mu        sync.RWMutex
	bySlot    map[Slot]*Reservation
	bySection map[int64][]*Reservation // 保持班级课表的输入顺序
	newID     func() string
}

// LedgerOption 台账构造选项
type LedgerOption func(*Ledger)

// WithIDGenerator 自定义预约 ID 生成器（测试用）
func WithIDGenerator(fn func() string) LedgerOption {
	return func(l *Ledger) { l.newID = fn }
}

// NewLedger 创建空台账
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		bySlot:    make(map[Slot]*Reservation),
		bySection: make(map[int64][]*Reservation),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ────────────────────── 查询 ──────────────────────

// IsAvailable 时段空闲，或唯一占用者就是 excludingSectionID（自匹配豁免）
func (l *Ledger) IsAvailable(slot Slot, excludingSectionID int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isAvailableLocked(slot, excludingSectionID)
}

func (l *Ledger) isAvailableLocked(slot Slot, excludingSectionID int64) bool {
	res, ok := l.bySlot[slot]
	if !ok {
		return true
	}
	return excludingSectionID != NoSection && res.SectionID == excludingSectionID
}

// FindConflict 按输入顺序返回第一个不可用的时段，找到即停止
func (l *Ledger) FindConflict(slots []Slot, excludingSectionID int64) (Slot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findConflictLocked(slots, excludingSectionID)
}

func (l *Ledger) findConflictLocked(slots []Slot, excludingSectionID int64) (Slot, bool) {
	for _, s := range slots {
		if !l.isAvailableLocked(s, excludingSectionID) {
			return s, true
		}
	}
	return Slot{}, false
}

// Check 与 ReplaceForSection 相同的校验流程，但不提交
func (l *Ledger) Check(sectionID int64, slots []Slot) error {
	if dup, ok := firstDuplicate(slots); ok {
		return &SchedulingError{Kind: SelfConflict, Slot: dup}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if s, ok := l.findConflictLocked(slots, sectionID); ok {
		return &SchedulingError{Kind: SlotOccupied, Slot: s, HeldBy: l.bySlot[s].SectionID}
	}
	return nil
}

// Holder 返回占用该时段的预约
func (l *Ledger) Holder(slot Slot) (Reservation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res, ok := l.bySlot[slot]
	if !ok {
		return Reservation{}, false
	}
	return *res, true
}

// ReservationsForRoom 返回教室的全部预约，按 星期 → 节次 排序
func (l *Ledger) ReservationsForRoom(roomID int64) []Reservation {
	l.mu.RLock()
	out := make([]Reservation, 0)
	for slot, res := range l.bySlot {
		if slot.RoomID == roomID {
			out = append(out, *res)
		}
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return slotLess(out[i].Slot, out[j].Slot) })
	return out
}

// ReservationsForSection 返回班级的全部预约，顺序与其课表一致
func (l *Ledger) ReservationsForSection(sectionID int64) []Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sectionLocked(sectionID)
}

func (l *Ledger) sectionLocked(sectionID int64) []Reservation {
	held := l.bySection[sectionID]
	out := make([]Reservation, 0, len(held))
	for _, res := range held {
		out = append(out, *res)
	}
	return out
}

// Snapshot 返回全部预约，按 班级 → 课表顺序 排列
func (l *Ledger) Snapshot() []Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int64, 0, len(l.bySection))
	for id := range l.bySection {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Reservation, 0, len(l.bySlot))
	for _, id := range ids {
		out = append(out, l.sectionLocked(id)...)
	}
	return out
}

// Len 当前预约数
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bySlot)
}

// ────────────────────── 变更 ──────────────────────

// ReplaceForSection 以 slots 整体替换班级的预约。
//
//  1. 请求内部有重复时段 → SelfConflict（与台账状态无关）
//  2. 任一时段被其他班级占用 → SlotOccupied，台账不变
//  3. 否则在同一临界区内删除旧预约并插入新预约
func (l *Ledger) ReplaceForSection(sectionID, courseID int64, slots []Slot) error {
	if dup, ok := firstDuplicate(slots); ok {
		return &SchedulingError{Kind: SelfConflict, Slot: dup}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.findConflictLocked(slots, sectionID); ok {
		return &SchedulingError{Kind: SlotOccupied, Slot: s, HeldBy: l.bySlot[s].SectionID}
	}

	l.dropLocked(sectionID)

	fresh := make([]*Reservation, 0, len(slots))
	for _, s := range slots {
		res := &Reservation{
			ID:        l.newID(),
			Slot:      s,
			SectionID: sectionID,
			CourseID:  courseID,
		}
		l.bySlot[s] = res
		fresh = append(fresh, res)
	}
	if len(fresh) > 0 {
		l.bySection[sectionID] = fresh
	}
	return nil
}

// RemoveForSection 删除班级的全部预约；没有预约时为空操作
func (l *Ledger) RemoveForSection(sectionID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.bySection[sectionID]) == 0 {
		return
	}
	l.dropLocked(sectionID)
}

// dropLocked 删除班级预约，调用方须持有写锁
func (l *Ledger) dropLocked(sectionID int64) {
	for _, res := range l.bySection[sectionID] {
		delete(l.bySlot, res.Slot)
	}
	delete(l.bySection, sectionID)
}

// Load 以持久化的预约整体替换台账（启动加载），不发出事件。
// 任一时段出现两条预约时拒绝加载，台账保持不变。
func (l *Ledger) Load(reservations []Reservation) error {
	bySlot := make(map[Slot]*Reservation, len(reservations))
	bySection := make(map[int64][]*Reservation)

	for i := range reservations {
		res := reservations[i]
		if res.SectionID == NoSection {
			return fmt.Errorf("%w: reservation %q has no section", ErrInconsistentState, res.ID)
		}
		if prev, ok := bySlot[res.Slot]; ok {
			return fmt.Errorf("%w: %s held by sections %d and %d",
				ErrInconsistentState, res.Slot, prev.SectionID, res.SectionID)
		}
		if res.ID == "" {
			res.ID = l.newID()
		}
		bySlot[res.Slot] = &res
		bySection[res.SectionID] = append(bySection[res.SectionID], &res)
	}

	l.mu.Lock()
	l.bySlot = bySlot
	l.bySection = bySection
	l.mu.Unlock()

	return nil
}
