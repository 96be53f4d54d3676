package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
	pkgerrors "github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/errors"
)

// ChangeSet 一次落库批次：若干课程/班级的最终状态
type ChangeSet struct {
	Revision      int64
	LastCourseID  int64
	LastSectionID int64

	Courses           []model.Course // upsert
	DeletedCourseIDs  []int64        // 软删除
	Sections          []model.Section
	DeletedSectionIDs []int64

	// ReplacedSectionIDs 的预约先整体硬删除，再插入 Reservations
	ReplacedSectionIDs []int64
	Reservations       []model.Reservation
}

// Empty 批次内是否没有任何实体变更
func (cs *ChangeSet) Empty() bool {
	return len(cs.Courses) == 0 && len(cs.DeletedCourseIDs) == 0 &&
		len(cs.Sections) == 0 && len(cs.DeletedSectionIDs) == 0 &&
		len(cs.ReplacedSectionIDs) == 0
}

// ScheduleStore 排课状态写入接口
type ScheduleStore interface {
	GetSyncState(ctx context.Context) (*model.ScheduleSyncState, error)
	// Apply 在单个事务内写入批次；数据库版本高于批次版本时返回 ErrStaleRevision
	Apply(ctx context.Context, cs *ChangeSet) error
}

type scheduleStore struct {
	db *gorm.DB
}

// NewScheduleStore 创建 ScheduleStore 实例
func NewScheduleStore(db *gorm.DB) ScheduleStore {
	return &scheduleStore{db: db}
}

func (r *scheduleStore) GetSyncState(ctx context.Context) (*model.ScheduleSyncState, error) {
	var state model.ScheduleSyncState
	err := r.db.WithContext(ctx).Where("singleton = ?", true).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 迁移会插入单行；缺失时视为全新库
		return &model.ScheduleSyncState{Singleton: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *scheduleStore) Apply(ctx context.Context, cs *ChangeSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住状态行，串行化多个实例的写入
		state := model.ScheduleSyncState{Singleton: true}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&state).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("singleton = ?", true).First(&state).Error; err != nil {
			return err
		}
		if state.Revision > cs.Revision {
			return pkgerrors.ErrStaleRevision
		}

		// ── 先删除：释放唯一索引占用 ──
		if len(cs.ReplacedSectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", cs.ReplacedSectionIDs).
				Delete(&model.Reservation{}).Error; err != nil {
				return err
			}
		}
		if len(cs.DeletedSectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", cs.DeletedSectionIDs).
				Delete(&model.Section{}).Error; err != nil {
				return err
			}
		}
		if len(cs.DeletedCourseIDs) > 0 {
			if err := tx.Where("course_id IN ?", cs.DeletedCourseIDs).
				Delete(&model.Course{}).Error; err != nil {
				return err
			}
		}

		// ── 再写入最终状态 ──
		if len(cs.Courses) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "course_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "code", "version", "updated_at", "deleted_at"}),
			}).Create(&cs.Courses).Error; err != nil {
				return err
			}
		}
		if len(cs.Sections) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "section_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"course_id", "name", "teacher_id", "is_active", "version", "updated_at", "deleted_at"}),
			}).Create(&cs.Sections).Error; err != nil {
				return err
			}
		}
		if len(cs.Reservations) > 0 {
			if err := tx.CreateInBatches(&cs.Reservations, 500).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.ScheduleSyncState{}).
			Where("singleton = ?", true).
			Updates(map[string]interface{}{
				"revision":        cs.Revision,
				"last_course_id":  gorm.Expr("GREATEST(last_course_id, ?)", cs.LastCourseID),
				"last_section_id": gorm.Expr("GREATEST(last_section_id, ?)", cs.LastSectionID),
				"updated_at":      time.Now(),
			}).Error
	})
}
