package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/model"
)

// RoomRepository 教室数据访问接口（只读）
type RoomRepository interface {
	List(ctx context.Context, includeInactive bool) ([]model.Room, error)
	GetByID(ctx context.Context, id int64) (*model.Room, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) List(ctx context.Context, includeInactive bool) ([]model.Room, error) {
	var rooms []model.Room
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("room_id ASC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}
