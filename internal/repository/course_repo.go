package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
)

// CourseRepository 课程数据访问接口。写入统一经 ScheduleStore.Apply。
type CourseRepository interface {
	List(ctx context.Context) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Order("course_id ASC").Find(&courses).Error
	return courses, err
}

// SectionRepository 班级数据访问接口
type SectionRepository interface {
	List(ctx context.Context) ([]model.Section, error)
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) List(ctx context.Context) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).Order("course_id ASC, section_id ASC").Find(&sections).Error
	return sections, err
}
