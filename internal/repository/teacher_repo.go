package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
)

// TeacherRepository 教师目录数据访问接口（只读）
type TeacherRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]model.Teacher, error)
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Teacher, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teachers []model.Teacher
	err := r.db.WithContext(ctx).
		Where("teacher_id IN ?", ids).
		Find(&teachers).Error
	return teachers, err
}
