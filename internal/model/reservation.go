package model

import "time"

// Reservation 教室预约表 — 对应 reservations
//
// (room_id, day_of_week, block) 唯一，是台账排他性在数据库中的镜像。
// Position 记录在班级课表中的顺序，启动时按它重建课表。
type Reservation struct {
	ReservationID string    `gorm:"type:uuid;primaryKey"                  json:"reservation_id"`
	RoomID        int64     `gorm:"not null;uniqueIndex:uk_reservation_slot,priority:1" json:"room_id"`
	DayOfWeek     int16     `gorm:"not null;uniqueIndex:uk_reservation_slot,priority:2" json:"day_of_week"` // 1=周一 … 7=周日
	Block         int16     `gorm:"not null;uniqueIndex:uk_reservation_slot,priority:3" json:"block"`
	SectionID     int64     `gorm:"not null;index"                        json:"section_id"`
	CourseID      int64     `gorm:"not null"                              json:"course_id"`
	Position      int       `gorm:"not null;default:0"                    json:"position"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }
