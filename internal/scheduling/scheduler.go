package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Section 课程的一个开班，Schedule 为期望状态，台账中的预约是其物化结果
type Section struct {
	ID        int64
	CourseID  int64
	Name      string
	TeacherID string // 空串表示未指定教师
	Schedule  []Slot
	Active    bool
	Version   int // 每次成功更新加一
}

func (s *Section) clone() Section {
	out := *s
	out.Schedule = cloneSlots(s.Schedule)
	return out
}

// SectionInput 创建/更新班级的完整期望状态
type SectionInput struct {
	Name      string
	TeacherID string
	Schedule  []Slot
	Active    bool
}

// SectionState 班级及其台账预约的一致快照
type SectionState struct {
	Section      Section
	Reservations []Reservation
}

type courseEntry struct {
	course     Course
	sectionIDs []int64 // 创建顺序
}

// idSequence 自增 ID：next = max(已分配, 已加载) + 1，删除后不复用
type idSequence struct {
	high int64
}

func (s *idSequence) peek() int64 { return s.high + 1 }

func (s *idSequence) observe(id int64) {
	if id > s.high {
		s.high = id
	}
}

// SectionScheduler 班级排课编排器：持有课程与班级实体，
// 所有时段变更通过 Ledger 以"整体校验 + 整体提交"完成。
//
// 锁顺序固定为 SectionScheduler.mu → Ledger.mu。
type SectionScheduler struct {
	mu       sync.RWMutex
	ledger   *Ledger
	rooms    *RoomRegistry
	catalog  *TimeSlotCatalog
	courses  map[int64]*courseEntry
	sections map[int64]*Section

	courseSeq  idSequence
	sectionSeq idSequence
	revision   uint64

	notifier
}

// NewSectionScheduler 创建编排器，依赖在应用启动时显式构造后传入
func NewSectionScheduler(ledger *Ledger, rooms *RoomRegistry, catalog *TimeSlotCatalog) *SectionScheduler {
	return &SectionScheduler{
		ledger:   ledger,
		rooms:    rooms,
		catalog:  catalog,
		courses:  make(map[int64]*courseEntry),
		sections: make(map[int64]*Section),
	}
}

// Ledger 返回底层台账（只读查询用）
func (s *SectionScheduler) Ledger() *Ledger { return s.ledger }

// Revision 编排器版本，课程或班级每次成功变更加一
func (s *SectionScheduler) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// ────────────────────── CreateSection ──────────────────────

// CreateSection 分配新 ID 并提交课表；冲突时班级不会被创建
func (s *SectionScheduler) CreateSection(ctx context.Context, courseID int64, in SectionInput) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	if err := s.validateInput(in, nil); err != nil {
		return Section{}, err
	}

	s.mu.Lock()
	entry, ok := s.courses[courseID]
	if !ok {
		s.mu.Unlock()
		return Section{}, &NotFoundError{Entity: EntityCourse, ID: courseID}
	}

	id := s.sectionSeq.peek()
	if err := s.ledger.ReplaceForSection(id, courseID, in.Schedule); err != nil {
		s.mu.Unlock()
		return Section{}, s.decorate(err)
	}

	sec := &Section{
		ID:        id,
		CourseID:  courseID,
		Name:      strings.TrimSpace(in.Name),
		TeacherID: strings.TrimSpace(in.TeacherID),
		Schedule:  cloneSlots(in.Schedule),
		Active:    in.Active,
		Version:   1,
	}
	s.sections[id] = sec
	entry.sectionIDs = append(entry.sectionIDs, id)
	s.sectionSeq.observe(id)
	s.revision++

	ev := Event{
		Type:      EventSectionSaved,
		CourseID:  courseID,
		SectionID: id,
		RoomIDs:   roomIDs(sec.Schedule),
		Version:   s.revision,
	}
	out := sec.clone()
	s.mu.Unlock()

	s.notify(ev)
	return out, nil
}

// ────────────────────── UpdateSection ──────────────────────

// SectionPatch 部分更新：nil 字段沿用当前值，Schedule 为 nil 表示不修改课表。
// IfVersion 非 0 时须与班级当前版本一致。
type SectionPatch struct {
	Name      *string
	TeacherID *string
	Schedule  []Slot
	Active    *bool
	IfVersion int
}

// UpdateSection 以新的期望状态替换班级；自身已占用的时段不算冲突
func (s *SectionScheduler) UpdateSection(ctx context.Context, sectionID int64, in SectionInput) (Section, error) {
	return s.update(ctx, sectionID, func(*Section) (SectionInput, error) { return in, nil })
}

// PatchSection 在编排器锁内合并当前状态与 patch 后提交，
// 并发的部分更新不会互相覆盖对方未涉及的字段
func (s *SectionScheduler) PatchSection(ctx context.Context, sectionID int64, p SectionPatch) (Section, error) {
	return s.update(ctx, sectionID, func(cur *Section) (SectionInput, error) {
		if p.IfVersion != 0 && p.IfVersion != cur.Version {
			return SectionInput{}, &StaleVersionError{SectionID: cur.ID, Expected: p.IfVersion, Actual: cur.Version}
		}

		in := SectionInput{
			Name:      cur.Name,
			TeacherID: cur.TeacherID,
			Schedule:  cur.Schedule,
			Active:    cur.Active,
		}
		if p.Name != nil {
			in.Name = *p.Name
		}
		if p.TeacherID != nil {
			in.TeacherID = *p.TeacherID
		}
		if p.Active != nil {
			in.Active = *p.Active
		}
		if p.Schedule != nil {
			in.Schedule = p.Schedule
		}
		return in, nil
	})
}

// update merge 在 s.mu 写锁内执行，读到的是提交前的最新状态
func (s *SectionScheduler) update(ctx context.Context, sectionID int64, merge func(cur *Section) (SectionInput, error)) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}

	s.mu.Lock()
	sec, ok := s.sections[sectionID]
	if !ok {
		s.mu.Unlock()
		return Section{}, &NotFoundError{Entity: EntitySection, ID: sectionID}
	}

	in, err := merge(sec)
	if err == nil {
		// 已持有的时段免于教室校验：教室停用后班级仍可编辑
		err = s.validateInput(in, sec.Schedule)
	}
	if err != nil {
		s.mu.Unlock()
		return Section{}, err
	}

	if err := s.ledger.ReplaceForSection(sectionID, sec.CourseID, in.Schedule); err != nil {
		s.mu.Unlock()
		return Section{}, s.decorate(err)
	}

	rooms := roomIDs(sec.Schedule, in.Schedule)
	sec.Name = strings.TrimSpace(in.Name)
	sec.TeacherID = strings.TrimSpace(in.TeacherID)
	sec.Schedule = cloneSlots(in.Schedule)
	sec.Active = in.Active
	sec.Version++
	s.revision++

	ev := Event{
		Type:      EventSectionSaved,
		CourseID:  sec.CourseID,
		SectionID: sectionID,
		RoomIDs:   rooms,
		Version:   s.revision,
	}
	out := sec.clone()
	s.mu.Unlock()

	s.notify(ev)
	return out, nil
}

// ────────────────────── DeleteSection ──────────────────────

// DeleteSection 先清理台账，再从课程中移除班级
func (s *SectionScheduler) DeleteSection(ctx context.Context, sectionID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	ev, err := s.deleteSectionLocked(sectionID)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ev)
	return nil
}

// deleteSectionLocked 调用方须持有 s.mu 写锁
func (s *SectionScheduler) deleteSectionLocked(sectionID int64) (Event, error) {
	sec, ok := s.sections[sectionID]
	if !ok {
		return Event{}, &NotFoundError{Entity: EntitySection, ID: sectionID}
	}

	// 级联顺序：台账在前，否则预约会悄悄成为孤儿
	s.ledger.RemoveForSection(sectionID)

	if entry, ok := s.courses[sec.CourseID]; ok {
		entry.sectionIDs = removeID(entry.sectionIDs, sectionID)
	}
	delete(s.sections, sectionID)
	s.revision++

	return Event{
		Type:      EventSectionDeleted,
		CourseID:  sec.CourseID,
		SectionID: sectionID,
		RoomIDs:   roomIDs(sec.Schedule),
		Version:   s.revision,
	}, nil
}

// ────────────────────── 查询 ──────────────────────

// GetSection 按 ID 查询班级
func (s *SectionScheduler) GetSection(sectionID int64) (Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[sectionID]
	if !ok {
		return Section{}, &NotFoundError{Entity: EntitySection, ID: sectionID}
	}
	return sec.clone(), nil
}

// SectionsForCourse 按创建顺序返回课程下的班级
func (s *SectionScheduler) SectionsForCourse(courseID int64) ([]Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.courses[courseID]
	if !ok {
		return nil, &NotFoundError{Entity: EntityCourse, ID: courseID}
	}
	return s.sectionsLocked(entry), nil
}

func (s *SectionScheduler) sectionsLocked(entry *courseEntry) []Section {
	out := make([]Section, 0, len(entry.sectionIDs))
	for _, id := range entry.sectionIDs {
		if sec, ok := s.sections[id]; ok {
			out = append(out, sec.clone())
		}
	}
	return out
}

// SectionState 返回班级与其预约的一致快照
func (s *SectionScheduler) SectionState(sectionID int64) (SectionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[sectionID]
	if !ok {
		return SectionState{}, &NotFoundError{Entity: EntitySection, ID: sectionID}
	}
	return SectionState{
		Section:      sec.clone(),
		Reservations: s.ledger.ReservationsForSection(sectionID),
	}, nil
}

// CheckSchedule 试算：对 sectionID（新班级传 NoSection）执行完整校验但不提交
func (s *SectionScheduler) CheckSchedule(ctx context.Context, sectionID int64, schedule []Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var held []Slot
	if sectionID != NoSection {
		s.mu.RLock()
		sec, ok := s.sections[sectionID]
		if ok {
			held = cloneSlots(sec.Schedule)
		}
		s.mu.RUnlock()
		if !ok {
			return &NotFoundError{Entity: EntitySection, ID: sectionID}
		}
	}

	if err := s.validateSlots(schedule, held); err != nil {
		return err
	}
	return s.decorate(s.ledger.Check(sectionID, schedule))
}

// ── 内部辅助方法 ──

func (s *SectionScheduler) validateInput(in SectionInput, held []Slot) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSection)
	}
	return s.validateSlots(in.Schedule, held)
}

// validateSlots 按输入顺序校验星期、节次与教室；held 中的时段不查教室名录
func (s *SectionScheduler) validateSlots(schedule, held []Slot) error {
	kept := make(map[Slot]struct{}, len(held))
	for _, slot := range held {
		kept[slot] = struct{}{}
	}

	for _, slot := range schedule {
		if err := s.catalog.ValidateSlot(slot); err != nil {
			return err
		}
		if _, ok := kept[slot]; ok {
			continue
		}
		if _, err := s.rooms.GetRoom(slot.RoomID); err != nil {
			return err
		}
	}
	return nil
}

// decorate 为冲突错误补全教室编码
func (s *SectionScheduler) decorate(err error) error {
	var se *SchedulingError
	if errors.As(err, &se) && se.RoomCode == "" {
		se.RoomCode = s.rooms.Code(se.Slot.RoomID)
	}
	return err
}

func removeID(ids []int64, target int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
