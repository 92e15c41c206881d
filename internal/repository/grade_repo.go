package repository

import (
	"context"

	"gorm.io/gorm"

	"kardex/internal/model"
)

// GradeRepository 成绩记录数据访问接口
//
// 列表查询均按写入顺序（grade_id 升序）返回，报表取重复记录时依赖此顺序。
type GradeRepository interface {
	Create(ctx context.Context, entry *model.GradeEntry) error
	// BatchCreate 批量写入，按输入顺序为每条记录分配互不相同的 ID
	BatchCreate(ctx context.Context, entries []model.GradeEntry) error
	GetByID(ctx context.Context, id int64) (*model.GradeEntry, error)
	ListByStudent(ctx context.Context, studentID int64) ([]model.GradeEntry, error)
	ListByStudentCURP(ctx context.Context, curp string) ([]model.GradeEntry, error)
	Update(ctx context.Context, entry *model.GradeEntry) error
	// Delete 返回记录是否存在
	Delete(ctx context.Context, id int64) (bool, error)
}

// gradeRepo GradeRepository 的 GORM 实现
type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, entry *model.GradeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gradeRepo) BatchCreate(ctx context.Context, entries []model.GradeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	// 单条 INSERT 内由序列分配主键，批内不会冲突
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id int64) (*model.GradeEntry, error) {
	var entry model.GradeEntry
	err := r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.GradeEntry, error) {
	var entries []model.GradeEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("grade_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *gradeRepo) ListByStudentCURP(ctx context.Context, curp string) ([]model.GradeEntry, error) {
	var entries []model.GradeEntry
	err := r.db.WithContext(ctx).
		Where("student_curp = ?", curp).
		Order("grade_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *gradeRepo) Update(ctx context.Context, entry *model.GradeEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id int64) (bool, error) {
	// 硬删除：成绩记录无软删除审计需求
	result := r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.GradeEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
