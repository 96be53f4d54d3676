package scheduling

import (
	"fmt"
	"strings"
)

// Weekday 教学周内的上课日，数值即显示排序（周一=1 … 周日=7）
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayCodes = [...]string{"", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

var weekdayLabels = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Valid 是否为 Monday..Sunday 之一
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Order 显示排序值
func (d Weekday) Order() int { return int(d) }

// String 返回大写编码，如 "MONDAY"
func (d Weekday) String() string {
	if !d.Valid() {
		return "UNDEFINED"
	}
	return weekdayCodes[d]
}

// Label 返回展示名称，如 "Monday"
func (d Weekday) Label() string {
	if !d.Valid() {
		return UndefinedLabel
	}
	return weekdayLabels[d]
}

// ParseWeekday 解析大小写不敏感的星期编码（"monday" / "MONDAY"）
func ParseWeekday(s string) (Weekday, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for i := Monday; i <= Sunday; i++ {
		if weekdayCodes[i] == code {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSlot, s)
}

// MarshalText 以编码形式序列化（JSON 中为 "MONDAY"）
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: weekday %d", ErrInvalidSlot, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText 解析编码形式
func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
