package model

// Teacher 教师目录 — 对应 teachers（由身份服务同步，本服务只读，用于展示）
type Teacher struct {
	TeacherID   string `gorm:"type:varchar(64);primaryKey" json:"teacher_id"`
	DisplayName string `gorm:"type:varchar(100);not null"  json:"display_name"`
	Email       string `gorm:"type:varchar(150)"           json:"email,omitempty"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
