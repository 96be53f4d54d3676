package model

import "time"

// ScheduleSyncState 排课引擎落库状态 — 对应 schedule_sync_state（单行）
//
// LastCourseID / LastSectionID 是已分配过的最大 ID（含已删除），
// 重启后 ID 从这里继续，保证删除的 ID 不会被复用。
type ScheduleSyncState struct {
	Singleton     bool      `gorm:"primaryKey;default:true"            json:"-"`
	Revision      int64     `gorm:"not null;default:0"                 json:"revision"`
	LastCourseID  int64     `gorm:"not null;default:0"                 json:"last_course_id"`
	LastSectionID int64     `gorm:"not null;default:0"                 json:"last_section_id"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (ScheduleSyncState) TableName() string { return "schedule_sync_state" }
