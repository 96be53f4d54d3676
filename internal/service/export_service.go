package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ByteCache 导出文件缓存，未启用 Redis 时为 nil
type ByteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ExportService 导出业务接口
//
//   - 教室课表导出为 Excel：节次为行，星期为列
//   - 教室 / 班级课表导出为 iCalendar，每个预约一个按周重复的事件
//   - 返回文件内容与建议文件名，由 Handler 设置响应头
type ExportService interface {
	RoomTimetable(ctx context.Context, roomID int64) ([]byte, string, error)
	RoomCalendar(ctx context.Context, roomID int64) ([]byte, string, error)
	SectionCalendar(ctx context.Context, sectionID int64) ([]byte, string, error)
}

type exportService struct {
	engine   *scheduling.Engine
	cache    ByteCache
	cacheTTL time.Duration
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例；timezone 决定日历事件的本地时间
func NewExportService(engine *scheduling.Engine, cache ByteCache, cacheTTL time.Duration, timezone string, logger *zap.Logger) ExportService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("加载时区失败，日历导出使用 UTC", zap.String("timezone", timezone), zap.Error(err))
		loc = time.UTC
	}
	return &exportService{
		engine:   engine,
		cache:    cache,
		cacheTTL: cacheTTL,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// RoomTimetable 教室周课表 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "课表"
//   - 第 1 行：标题（教室编码）
//   - 第 2 行：节次 | 时间 | Monday ... Saturday (Sunday)
//   - 单元格：课程代码 班级名称，空闲为 "-"
//
// 缓存键带教室名录代数与编排器版本号，排课变更或名录刷新后自然失效。

func (s *exportService) RoomTimetable(ctx context.Context, roomID int64) ([]byte, string, error) {
	room, err := s.engine.Rooms.GetRoom(roomID)
	if err != nil {
		return nil, "", ErrRoomNotFound
	}
	filename := fmt.Sprintf("timetable_%s.xlsx", room.Code)

	key := fmt.Sprintf("export:room:%d:xlsx:%d:%d", roomID, s.engine.Rooms.Generation(), s.engine.Scheduler.Revision())
	if data, ok := s.cacheGet(ctx, key); ok {
		return data, filename, nil
	}

	weekdays := s.engine.Slots.Weekdays()
	blocks := s.engine.Slots.Blocks()
	labels := newSectionLabeler(s.engine)

	cells := make(map[scheduling.Slot]string)
	for _, res := range s.engine.Ledger.ReservationsForRoom(roomID) {
		cells[res.Slot] = labels.cellText(res)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 16)
	for i := range weekdays {
		col := colName(3 + i)
		f.SetColWidth(sheetName, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	lastCol := colName(2 + len(weekdays))
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 教室课表", room.Code))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "节次")
	f.SetCellValue(sheetName, cell("B", row), "时间")
	for i, d := range weekdays {
		f.SetCellValue(sheetName, cell(colName(3+i), row), d.Label())
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// 数据行
	row = 3
	for _, b := range blocks {
		f.SetCellValue(sheetName, cell("A", row), int(b.Block))
		f.SetCellValue(sheetName, cell("B", row), b.Label())
		for i, d := range weekdays {
			text, ok := cells[scheduling.Slot{RoomID: roomID, Weekday: d, Block: b.Block}]
			if !ok {
				text = "-"
			}
			f.SetCellValue(sheetName, cell(colName(3+i), row), text)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Int64("room_id", roomID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	data := buf.Bytes()
	s.cacheSet(ctx, key, data)
	return data, filename, nil
}

// ═══════════════════════════════════════════════════════════
// iCalendar 导出
// ═══════════════════════════════════════════════════════════

// RoomCalendar 教室全部预约的周历
func (s *exportService) RoomCalendar(_ context.Context, roomID int64) ([]byte, string, error) {
	room, err := s.engine.Rooms.GetRoom(roomID)
	if err != nil {
		return nil, "", ErrRoomNotFound
	}

	reservations := s.engine.Ledger.ReservationsForRoom(roomID)
	data, err := s.buildCalendar(room.Code, reservations)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("room_%s.ics", room.Code), nil
}

// SectionCalendar 班级课表的周历
func (s *exportService) SectionCalendar(_ context.Context, sectionID int64) ([]byte, string, error) {
	state, err := s.engine.Scheduler.SectionState(sectionID)
	if err != nil {
		return nil, "", translateError(err)
	}

	data, err := s.buildCalendar(state.Section.Name, state.Reservations)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("section_%d.ics", sectionID), nil
}

// buildCalendar 以本周一为锚点，每个预约生成一个 RRULE:FREQ=WEEKLY 事件
func (s *exportService) buildCalendar(name string, reservations []scheduling.Reservation) ([]byte, error) {
	ranges := make(map[scheduling.Block]scheduling.BlockRange)
	for _, b := range s.engine.Slots.Blocks() {
		ranges[b.Block] = b
	}
	labels := newSectionLabeler(s.engine)
	monday := weekStart(s.now().In(s.loc))
	stamp := s.now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//KubHub//Scheduler//PT")
	cal.SetName(name)

	for _, res := range reservations {
		br, ok := ranges[res.Slot.Block]
		if !ok {
			continue
		}
		day := monday.AddDate(0, 0, res.Slot.Weekday.Order()-1)
		start, err := atClock(day, br.Start)
		if err != nil {
			s.logger.Error("解析节次时间失败", zap.String("start", br.Start), zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		end, err := atClock(day, br.End)
		if err != nil {
			s.logger.Error("解析节次时间失败", zap.String("end", br.End), zap.Error(err))
			return nil, ErrExportGenerateFail
		}

		event := cal.AddEvent(res.ID + "@kubhub")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(labels.cellText(res))
		event.SetLocation(s.engine.Rooms.Code(res.Slot.RoomID))
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	return []byte(cal.Serialize()), nil
}

// ── 内部辅助方法 ──

func (s *exportService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		s.logger.Warn("读取导出缓存失败", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *exportService) cacheSet(ctx context.Context, key string, data []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetBytes(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("写入导出缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// sectionLabeler 为预约生成 "课程代码 班级名称"，同一次导出内按课程缓存
type sectionLabeler struct {
	engine  *scheduling.Engine
	courses map[int64]scheduling.Course
}

func newSectionLabeler(engine *scheduling.Engine) *sectionLabeler {
	return &sectionLabeler{engine: engine, courses: make(map[int64]scheduling.Course)}
}

func (l *sectionLabeler) cellText(res scheduling.Reservation) string {
	course, ok := l.courses[res.CourseID]
	if !ok {
		c, err := l.engine.Courses.GetCourse(res.CourseID)
		if err != nil {
			return fmt.Sprintf("#%d", res.SectionID)
		}
		course = c
		l.courses[res.CourseID] = c
	}
	for _, sec := range course.Sections {
		if sec.ID == res.SectionID {
			return course.Code + " " + sec.Name
		}
	}
	return course.Code
}

// weekStart 返回 t 所在周的周一 00:00（同一时区）
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// atClock 将 "08:45" 落到 day 当天
func atClock(day time.Time, clock string) (time.Time, error) {
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, day.Location()), nil
}

// colName 列号 → 列名（1 → A）
func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

// cell 组合单元格坐标
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
