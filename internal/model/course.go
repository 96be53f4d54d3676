package model

// Course 课程表 — 对应 courses（ID 由排课引擎分配，不使用数据库序列）
type Course struct {
	CourseID int64  `gorm:"primaryKey;autoIncrement:false" json:"course_id"`
	Name     string `gorm:"type:varchar(150);not null"     json:"name"`
	Code     string `gorm:"type:varchar(30);not null"      json:"code"`
	VersionedModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Section 班级表 — 对应 sections
type Section struct {
	SectionID int64   `gorm:"primaryKey;autoIncrement:false" json:"section_id"`
	CourseID  int64   `gorm:"not null;index"                 json:"course_id"`
	Name      string  `gorm:"type:varchar(100);not null"     json:"name"`
	TeacherID *string `gorm:"type:varchar(64)"               json:"teacher_id,omitempty"`
	IsActive  bool    `gorm:"not null"                       json:"is_active"` // 显式写入 false，不能带 default 标签
	VersionedModel
}

// TableName 指定表名
func (Section) TableName() string { return "sections" }
