package mq

import "time"

// 路由键
const (
	RoutingScheduleChanged = "schedule.changed"
)

// ScheduleChangedMessage 一次落库成功后广播的变更摘要。
// 消费方（通知、看板）据此刷新，不携带完整课表。
type ScheduleChangedMessage struct {
	Revision   uint64    `json:"revision"`
	CourseIDs  []int64   `json:"course_ids"`
	SectionIDs []int64   `json:"section_ids"`
	RoomIDs    []int64   `json:"room_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}
