package scheduling

import (
	"errors"
	"fmt"
	"strconv"
)

// ── 排课核心错误 ──

var (
	ErrSlotOccupied        = errors.New("slot is already reserved by another section")
	ErrSelfConflict        = errors.New("schedule requests the same slot more than once")
	ErrNotFound            = errors.New("not found")
	ErrInvalidSlot         = errors.New("invalid slot")
	ErrInvalidSection      = errors.New("invalid section")
	ErrInvalidCourse       = errors.New("invalid course")
	ErrDuplicateCourseCode = errors.New("course code already exists")
	ErrInconsistentState   = errors.New("restored state is inconsistent")
	ErrStaleVersion        = errors.New("section was modified concurrently")
)

// ConflictKind 冲突类型
type ConflictKind int

const (
	// SlotOccupied 时段已被其他班级占用
	SlotOccupied ConflictKind = iota + 1
	// SelfConflict 同一次请求内重复申请同一时段
	SelfConflict
)

// String 返回蛇形命名，供接口层输出
func (k ConflictKind) String() string {
	switch k {
	case SlotOccupied:
		return "slot_occupied"
	case SelfConflict:
		return "self_conflict"
	default:
		return "unknown"
	}
}

// SchedulingError 排课冲突，携带具体的教室/星期/节次。
// 文案只在 Error() 中拼装，调用方应依据 Kind 判断类型。
type SchedulingError struct {
	Kind     ConflictKind
	Slot     Slot
	RoomCode string // 由 SectionScheduler 补全，台账本身只知道 RoomID
	HeldBy   int64  // 仅 SlotOccupied：当前占用该时段的班级
}

func (e *SchedulingError) Error() string {
	room := e.RoomCode
	if room == "" {
		room = "#" + strconv.FormatInt(e.Slot.RoomID, 10)
	}
	switch e.Kind {
	case SelfConflict:
		return fmt.Sprintf("Room %s is requested more than once on %s in block %d.", room, e.Slot.Weekday.Label(), int(e.Slot.Block))
	default:
		return fmt.Sprintf("Room %s is not available on %s in block %d.", room, e.Slot.Weekday.Label(), int(e.Slot.Block))
	}
}

// Is 支持 errors.Is(err, ErrSlotOccupied) / errors.Is(err, ErrSelfConflict)
func (e *SchedulingError) Is(target error) bool {
	switch target {
	case ErrSlotOccupied:
		return e.Kind == SlotOccupied
	case ErrSelfConflict:
		return e.Kind == SelfConflict
	}
	return false
}

// StaleVersionError 条件更新时班级已被其他请求修改
type StaleVersionError struct {
	SectionID int64
	Expected  int
	Actual    int
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("section %d is at version %d, expected %d", e.SectionID, e.Actual, e.Expected)
}

// Is 支持 errors.Is(err, ErrStaleVersion)
func (e *StaleVersionError) Is(target error) bool {
	return target == ErrStaleVersion
}

// Entity 实体类型
type Entity string

const (
	EntityRoom    Entity = "room"
	EntitySection Entity = "section"
	EntityCourse  Entity = "course"
)

// NotFoundError 引用的教室/班级/课程不存在
type NotFoundError struct {
	Entity Entity
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is 支持 errors.Is(err, ErrNotFound)
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound 判断 err 是否为指定实体的 NotFoundError
func IsNotFound(err error, entity Entity) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Entity == entity
}
