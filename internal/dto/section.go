package dto

// ── 班级模块 DTO ──

// SlotRequest 课表中的一个时段
type SlotRequest struct {
	RoomID  int64  `json:"room_id" binding:"required,min=1"`
	Weekday string `json:"weekday" binding:"required,weekday"` // "MONDAY"
	Block   int    `json:"block"   binding:"required,min=1,max=20"`
}

// CreateSectionRequest 创建班级请求
type CreateSectionRequest struct {
	Name      string        `json:"name"       binding:"required,min=1,max=100"`
	TeacherID *string       `json:"teacher_id" binding:"omitempty,max=64"`
	Schedule  []SlotRequest `json:"schedule"   binding:"omitempty,dive"`
	IsActive  *bool         `json:"is_active"` // 缺省为 true
}

// UpdateSectionRequest 更新班级请求（字段为空表示不修改；schedule 传 [] 表示清空课表）。
// version 为客户端读到的班级版本，提供时与当前版本不一致则拒绝更新。
type UpdateSectionRequest struct {
	Name      *string        `json:"name"       binding:"omitempty,min=1,max=100"`
	TeacherID *string        `json:"teacher_id" binding:"omitempty,max=64"`
	Schedule  *[]SlotRequest `json:"schedule"   binding:"omitempty,dive"`
	IsActive  *bool          `json:"is_active"`
	Version   *int           `json:"version"    binding:"omitempty,min=1"`
}

// CheckScheduleRequest 课表试算请求；section_id 为空表示新班级
type CheckScheduleRequest struct {
	SectionID int64         `json:"section_id" binding:"omitempty,min=1"`
	Schedule  []SlotRequest `json:"schedule"   binding:"required,dive"`
}

// ConflictResponse 冲突详情
type ConflictResponse struct {
	Kind     string `json:"kind"` // slot_occupied / self_conflict
	RoomID   int64  `json:"room_id"`
	RoomCode string `json:"room_code"`
	Weekday  string `json:"weekday"`
	Block    int    `json:"block"`
	HeldBy   *int64 `json:"held_by,omitempty"`
	Message  string `json:"message"`
}

// CheckScheduleResponse 课表试算结果
type CheckScheduleResponse struct {
	Available bool              `json:"available"`
	Conflict  *ConflictResponse `json:"conflict,omitempty"`
}

// SlotResponse 课表时段
type SlotResponse struct {
	RoomID     int64  `json:"room_id"`
	RoomCode   string `json:"room_code"`
	Weekday    string `json:"weekday"`
	Block      int    `json:"block"`
	BlockLabel string `json:"block_label"`
}

// TeacherBrief 教师简要信息（嵌入班级响应）
type TeacherBrief struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SectionResponse 班级信息响应
type SectionResponse struct {
	ID        int64          `json:"id"`
	CourseID  int64          `json:"course_id"`
	Name      string         `json:"name"`
	TeacherID *string        `json:"teacher_id,omitempty"`
	Teacher   *TeacherBrief  `json:"teacher,omitempty"`
	Active    bool           `json:"active"`
	Version   int            `json:"version"`
	Schedule  []SlotResponse `json:"schedule"`
}
