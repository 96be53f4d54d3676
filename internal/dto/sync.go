package dto

// SyncStatusResponse 落库同步状态（健康检查使用）
type SyncStatusResponse struct {
	Revision       uint64 `json:"revision"`
	PendingCourses int    `json:"pending_courses"`
	PendingSections int   `json:"pending_sections"`
	LastFlushAt    string `json:"last_flush_at,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}
