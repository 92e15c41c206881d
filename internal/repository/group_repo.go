package repository

import (
	"context"

	"gorm.io/gorm"

	"kardex/internal/model"
)

// GroupRepository 班级只读访问接口
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	// List programID 为 0 时返回全部班级
	List(ctx context.Context, programID int64) ([]model.Group, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepo) List(ctx context.Context, programID int64) ([]model.Group, error) {
	var groups []model.Group
	db := r.db.WithContext(ctx)
	if programID > 0 {
		db = db.Where("program_id = ?", programID)
	}
	err := db.Order("code ASC").Find(&groups).Error
	return groups, err
}
