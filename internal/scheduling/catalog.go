package scheduling

import (
	"context"
	"fmt"
	"strings"
)

// Course 课程目录条目
type Course struct {
	ID       int64
	Name     string
	Code     string
	Version  int
	Sections []Section
}

// CourseInput 创建/更新课程的字段
type CourseInput struct {
	Name string
	Code string
}

// CourseCatalog 课程 → 班级 层级与 ID 分配。
// 一切时段变更都委托给 SectionScheduler，本身不直接触碰台账。
type CourseCatalog struct {
	scheduler *SectionScheduler
}

// NewCourseCatalog 创建课程目录
func NewCourseCatalog(scheduler *SectionScheduler) *CourseCatalog {
	return &CourseCatalog{scheduler: scheduler}
}

// ────────────────────── AddCourse ──────────────────────

// AddCourse 新建课程，ID = max(已有) + 1，从 1 开始
func (c *CourseCatalog) AddCourse(ctx context.Context, in CourseInput) (Course, error) {
	if err := ctx.Err(); err != nil {
		return Course{}, err
	}
	in, err := normalizeCourseInput(in)
	if err != nil {
		return Course{}, err
	}

	s := c.scheduler
	s.mu.Lock()
	if c.codeTakenLocked(in.Code, 0) {
		s.mu.Unlock()
		return Course{}, fmt.Errorf("%w: %s", ErrDuplicateCourseCode, in.Code)
	}

	id := s.courseSeq.peek()
	entry := &courseEntry{course: Course{ID: id, Name: in.Name, Code: in.Code, Version: 1}}
	s.courses[id] = entry
	s.courseSeq.observe(id)
	s.revision++

	ev := Event{Type: EventCourseSaved, CourseID: id, Version: s.revision}
	out := c.courseLocked(entry)
	s.mu.Unlock()

	s.notify(ev)
	return out, nil
}

// ────────────────────── UpdateCourse ──────────────────────

// UpdateCourse 更新课程名称与编码，不影响其班级
func (c *CourseCatalog) UpdateCourse(ctx context.Context, courseID int64, in CourseInput) (Course, error) {
	if err := ctx.Err(); err != nil {
		return Course{}, err
	}
	in, err := normalizeCourseInput(in)
	if err != nil {
		return Course{}, err
	}

	s := c.scheduler
	s.mu.Lock()
	entry, ok := s.courses[courseID]
	if !ok {
		s.mu.Unlock()
		return Course{}, &NotFoundError{Entity: EntityCourse, ID: courseID}
	}
	if c.codeTakenLocked(in.Code, courseID) {
		s.mu.Unlock()
		return Course{}, fmt.Errorf("%w: %s", ErrDuplicateCourseCode, in.Code)
	}

	entry.course.Name = in.Name
	entry.course.Code = in.Code
	entry.course.Version++
	s.revision++

	ev := Event{Type: EventCourseSaved, CourseID: courseID, Version: s.revision}
	out := c.courseLocked(entry)
	s.mu.Unlock()

	s.notify(ev)
	return out, nil
}

// ────────────────────── RemoveCourse ──────────────────────

// RemoveCourse 先级联删除全部班级（各自先清理台账），再移除课程
func (c *CourseCatalog) RemoveCourse(ctx context.Context, courseID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := c.scheduler
	s.mu.Lock()
	entry, ok := s.courses[courseID]
	if !ok {
		s.mu.Unlock()
		return &NotFoundError{Entity: EntityCourse, ID: courseID}
	}

	sectionIDs := append([]int64(nil), entry.sectionIDs...)
	events := make([]Event, 0, len(sectionIDs)+1)
	for _, id := range sectionIDs {
		ev, err := s.deleteSectionLocked(id)
		if err != nil {
			// sectionIDs 与 sections 在同一把锁下维护，不应出现
			s.mu.Unlock()
			return fmt.Errorf("%w: course %d lists missing section %d", ErrInconsistentState, courseID, id)
		}
		events = append(events, ev)
	}

	delete(s.courses, courseID)
	s.revision++
	events = append(events, Event{Type: EventCourseDeleted, CourseID: courseID, Version: s.revision})
	s.mu.Unlock()

	s.notify(events...)
	return nil
}

// ────────────────────── 查询 ──────────────────────

// GetCourse 返回课程及其班级
func (c *CourseCatalog) GetCourse(courseID int64) (Course, error) {
	s := c.scheduler
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.courses[courseID]
	if !ok {
		return Course{}, &NotFoundError{Entity: EntityCourse, ID: courseID}
	}
	return c.courseLocked(entry), nil
}

// ListCourses 按 ID 升序返回全部课程
func (c *CourseCatalog) ListCourses() []Course {
	s := c.scheduler
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Course, 0, len(s.courses))
	for _, id := range sortedKeys(s.courses) {
		out = append(out, c.courseLocked(s.courses[id]))
	}
	return out
}

func (c *CourseCatalog) courseLocked(entry *courseEntry) Course {
	out := entry.course
	out.Sections = c.scheduler.sectionsLocked(entry)
	return out
}

func (c *CourseCatalog) codeTakenLocked(code string, exceptID int64) bool {
	for id, entry := range c.scheduler.courses {
		if id != exceptID && strings.EqualFold(entry.course.Code, code) {
			return true
		}
	}
	return false
}

func normalizeCourseInput(in CourseInput) (CourseInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidCourse)
	}
	if in.Code == "" {
		return in, fmt.Errorf("%w: code is required", ErrInvalidCourse)
	}
	return in, nil
}

// ════════════════════════════════════════════════════════════
// 启动加载与持久化快照
// ════════════════════════════════════════════════════════════

// RestoreState 持久化层加载出的完整状态
type RestoreState struct {
	Courses       []Course      // 含班级，班级的 Schedule 会由 Reservations 重建
	Reservations  []Reservation // 按 班级 → 课表顺序 排列
	LastCourseID  int64         // 已分配过的最大 ID（含已删除）
	LastSectionID int64
	Revision      uint64
}

// Restore 以持久化状态整体替换课程目录与台账（启动时调用，不发出事件）。
// 班级课表由其预约重建，保证两者一致。
func (c *CourseCatalog) Restore(st RestoreState) error {
	courses := make(map[int64]*courseEntry, len(st.Courses))
	sections := make(map[int64]*Section)
	var courseSeq, sectionSeq idSequence
	courseSeq.observe(st.LastCourseID)
	sectionSeq.observe(st.LastSectionID)

	for _, course := range st.Courses {
		entry := &courseEntry{course: course}
		entry.course.Sections = nil
		for _, sec := range course.Sections {
			if sec.CourseID != course.ID {
				return fmt.Errorf("%w: section %d belongs to course %d, listed under %d",
					ErrInconsistentState, sec.ID, sec.CourseID, course.ID)
			}
			if _, dup := sections[sec.ID]; dup {
				return fmt.Errorf("%w: duplicate section %d", ErrInconsistentState, sec.ID)
			}
			copied := sec
			copied.Schedule = []Slot{}
			sections[sec.ID] = &copied
			entry.sectionIDs = append(entry.sectionIDs, sec.ID)
			sectionSeq.observe(sec.ID)
		}
		courses[course.ID] = entry
		courseSeq.observe(course.ID)
	}

	for _, res := range st.Reservations {
		sec, ok := sections[res.SectionID]
		if !ok {
			return fmt.Errorf("%w: reservation %q references unknown section %d",
				ErrInconsistentState, res.ID, res.SectionID)
		}
		if res.CourseID != sec.CourseID {
			return fmt.Errorf("%w: reservation %q course %d does not match section course %d",
				ErrInconsistentState, res.ID, res.CourseID, sec.CourseID)
		}
		sec.Schedule = append(sec.Schedule, res.Slot)
	}

	s := c.scheduler
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Load(st.Reservations); err != nil {
		return err
	}
	s.courses = courses
	s.sections = sections
	s.courseSeq = courseSeq
	s.sectionSeq = sectionSeq
	s.revision = st.Revision

	return nil
}

// Snapshot 持久化批次：所请求课程/班级的当前状态，已删除的单独列出
type Snapshot struct {
	Revision        uint64
	LastCourseID    int64
	LastSectionID   int64
	Courses         []Course // 不含 Sections
	DeletedCourses  []int64
	Sections        []SectionState
	DeletedSections []int64
}

// Snapshot 在同一把读锁下采集给定课程与班级的当前状态
func (c *CourseCatalog) Snapshot(courseIDs, sectionIDs []int64) Snapshot {
	s := c.scheduler
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Revision:      s.revision,
		LastCourseID:  s.courseSeq.high,
		LastSectionID: s.sectionSeq.high,
	}

	for _, id := range courseIDs {
		entry, ok := s.courses[id]
		if !ok {
			snap.DeletedCourses = append(snap.DeletedCourses, id)
			continue
		}
		snap.Courses = append(snap.Courses, entry.course)
	}

	for _, id := range sectionIDs {
		sec, ok := s.sections[id]
		if !ok {
			snap.DeletedSections = append(snap.DeletedSections, id)
			continue
		}
		snap.Sections = append(snap.Sections, SectionState{
			Section:      sec.clone(),
			Reservations: s.ledger.ReservationsForSection(id),
		})
	}

	return snap
}
