package scheduling

import "fmt"

// Block 每日固定节次编号（1..BlocksPerDay）。
// 对台账而言节次只是不透明的排他桶：节次之间不存在重叠或相邻关系。
type Block int

// BlocksPerDay 每日节次数
const BlocksPerDay = 20

// UndefinedLabel 未知节次/星期的占位展示值
const UndefinedLabel = "undefined"

// BlockRange 节次对应的时间范围
type BlockRange struct {
	Block Block
	Start string // "08:00"
	End   string // "08:45"
}

// Label 返回 "08:00 - 08:45"
func (r BlockRange) Label() string {
	return r.Start + " - " + r.End
}

// 节次表：45 分钟一节，08:00 起连续排到 23:00
var blockTable = [BlocksPerDay]BlockRange{
	{1, "08:00", "08:45"},
	{2, "08:45", "09:30"},
	{3, "09:30", "10:15"},
	{4, "10:15", "11:00"},
	{5, "11:00", "11:45"},
	{6, "11:45", "12:30"},
	{7, "12:30", "13:15"},
	{8, "13:15", "14:00"},
	{9, "14:00", "14:45"},
	{10, "14:45", "15:30"},
	{11, "15:30", "16:15"},
	{12, "16:15", "17:00"},
	{13, "17:00", "17:45"},
	{14, "17:45", "18:30"},
	{15, "18:30", "19:15"},
	{16, "19:15", "20:00"},
	{17, "20:00", "20:45"},
	{18, "20:45", "21:30"},
	{19, "21:30", "22:15"},
	{20, "22:15", "23:00"},
}

// TimeSlotCatalog 合法上课日与节次的静态查询表，构造后只读
type TimeSlotCatalog struct {
	weekdays []Weekday
	blocks   map[Block]BlockRange
}

// NewTimeSlotCatalog 创建时段目录；includeSunday 控制周日是否可排课
func NewTimeSlotCatalog(includeSunday bool) *TimeSlotCatalog {
	last := Saturday
	if includeSunday {
		last = Sunday
	}
	days := make([]Weekday, 0, int(last))
	for d := Monday; d <= last; d++ {
		days = append(days, d)
	}

	blocks := make(map[Block]BlockRange, len(blockTable))
	for _, r := range blockTable {
		blocks[r.Block] = r
	}

	return &TimeSlotCatalog{weekdays: days, blocks: blocks}
}

// Weekdays 按显示顺序返回可排课的星期
func (c *TimeSlotCatalog) Weekdays() []Weekday {
	out := make([]Weekday, len(c.weekdays))
	copy(out, c.weekdays)
	return out
}

// Blocks 按编号返回全部节次
func (c *TimeSlotCatalog) Blocks() []BlockRange {
	out := make([]BlockRange, 0, len(c.blocks))
	for i := 1; i <= BlocksPerDay; i++ {
		out = append(out, c.blocks[Block(i)])
	}
	return out
}

// ResolveBlockLabel 返回节次的时间范围，越界时返回 UndefinedLabel（不报错）
func (c *TimeSlotCatalog) ResolveBlockLabel(b Block) string {
	r, ok := c.blocks[b]
	if !ok {
		return UndefinedLabel
	}
	return r.Label()
}

// IsValidWeekday 该星期是否在本目录的教学周内
func (c *TimeSlotCatalog) IsValidWeekday(d Weekday) bool {
	for _, w := range c.weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// IsValidBlock 节次编号是否存在
func (c *TimeSlotCatalog) IsValidBlock(b Block) bool {
	_, ok := c.blocks[b]
	return ok
}

// ValidateSlot 校验时段的星期与节次，房间由 RoomRegistry 校验
func (c *TimeSlotCatalog) ValidateSlot(s Slot) error {
	if !c.IsValidWeekday(s.Weekday) {
		return fmt.Errorf("%w: weekday %s is not a teaching day", ErrInvalidSlot, s.Weekday)
	}
	if !c.IsValidBlock(s.Block) {
		return fmt.Errorf("%w: block %d out of range 1-%d", ErrInvalidSlot, int(s.Block), BlocksPerDay)
	}
	return nil
}
