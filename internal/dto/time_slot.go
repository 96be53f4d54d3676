package dto

// ── 时段目录 DTO ──

// WeekdayResponse 可排课的星期
type WeekdayResponse struct {
	Code  string `json:"code"`  // "MONDAY"
	Label string `json:"label"` // "Monday"
	Order int    `json:"order"`
}

// BlockResponse 节次及其时间范围
type BlockResponse struct {
	Block int    `json:"block"`
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"` // "08:00 - 08:45"
}

// TimeSlotCatalogResponse 时段目录
type TimeSlotCatalogResponse struct {
	Weekdays []WeekdayResponse `json:"weekdays"`
	Blocks   []BlockResponse   `json:"blocks"`
}
