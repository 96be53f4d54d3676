package dto

// ── 教室模块 DTO ──

// RoomListRequest 教室列表查询参数
type RoomListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// RoomResponse 教室信息响应
type RoomResponse struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

// AvailabilityRequest 单个时段可用性查询参数
type AvailabilityRequest struct {
	Weekday string `form:"weekday" binding:"required,weekday"`
	Block   int    `form:"block"   binding:"required,min=1,max=20"`
}

// AvailabilityResponse 单个时段可用性
type AvailabilityResponse struct {
	RoomID    int64  `json:"room_id"`
	RoomCode  string `json:"room_code"`
	Weekday   string `json:"weekday"`
	Block     int    `json:"block"`
	Available bool   `json:"available"`
	HeldBy    *int64 `json:"held_by,omitempty"` // 占用该时段的班级
}

// ReservationResponse 预约信息响应
type ReservationResponse struct {
	ID           string `json:"id"`
	RoomID       int64  `json:"room_id"`
	RoomCode     string `json:"room_code"`
	Weekday      string `json:"weekday"`
	WeekdayLabel string `json:"weekday_label"`
	Block        int    `json:"block"`
	BlockLabel   string `json:"block_label"`
	SectionID    int64  `json:"section_id"`
	CourseID     int64  `json:"course_id"`
}
