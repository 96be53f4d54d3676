package model

// Room 教室表 — 对应 rooms（教室名录由设施管理维护，本服务只读）
type Room struct {
	RoomID   int64  `gorm:"primaryKey;autoIncrement:false" json:"room_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name     string `gorm:"type:varchar(100);not null"            json:"name"`
	Capacity int    `gorm:"not null;default:0"                    json:"capacity"`
	Type     string `gorm:"type:varchar(30);not null"             json:"type"`
	IsActive bool   `gorm:"not null;default:true"                 json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
