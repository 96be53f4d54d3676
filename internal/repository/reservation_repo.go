package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
)

// ReservationRepository 预约数据访问接口
type ReservationRepository interface {
	// List 按 班级 → 课表顺序 返回全部预约（启动加载用）
	List(ctx context.Context) ([]model.Reservation, error)
	ListByRoom(ctx context.Context, roomID int64) ([]model.Reservation, error)
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Order("section_id ASC, position ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListByRoom(ctx context.Context, roomID int64) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("day_of_week ASC, block ASC").
		Find(&list).Error
	return list, err
}
