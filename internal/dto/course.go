package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
	Code string `json:"code" binding:"required,min=2,max=30"`
}

// UpdateCourseRequest 更新课程请求（字段为空表示不修改）
type UpdateCourseRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=150"`
	Code *string `json:"code" binding:"omitempty,min=2,max=30"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Code     string            `json:"code"`
	Version  int               `json:"version"`
	Sections []SectionResponse `json:"sections"`
}
