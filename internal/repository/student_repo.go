package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"kardex/internal/model"
)

// StudentFilter 学生查询条件，零值字段不参与过滤
type StudentFilter struct {
	CURP      string // 子串匹配（调用方负责大写）
	Name      string // 子串匹配，不区分大小写
	ProgramID int64
	GroupID   int64
}

// StudentRepository 学生名册只读访问接口
type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByCURP(ctx context.Context, curp string) (*model.Student, error)
	// ListRegisteredCURPs 返回 curps 中已登记的那部分
	ListRegisteredCURPs(ctx context.Context, curps []string) ([]string, error)
	Search(ctx context.Context, filter StudentFilter) ([]model.Student, error)
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByCURP(ctx context.Context, curp string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("curp = ?", curp).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) ListRegisteredCURPs(ctx context.Context, curps []string) ([]string, error) {
	if len(curps) == 0 {
		return nil, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("curp IN ?", curps).
		Pluck("curp", &found).Error
	return found, err
}

func (r *studentRepo) Search(ctx context.Context, filter StudentFilter) ([]model.Student, error) {
	var students []model.Student
	db := r.db.WithContext(ctx)

	if filter.CURP != "" {
		db = db.Where("curp LIKE ?", "%"+filter.CURP+"%")
	}
	if filter.Name != "" {
		db = db.Where("UPPER(name) LIKE ?", "%"+strings.ToUpper(filter.Name)+"%")
	}
	if filter.ProgramID > 0 {
		db = db.Where("program_id = ?", filter.ProgramID)
	}
	if filter.GroupID > 0 {
		db = db.Where("group_id = ?", filter.GroupID)
	}

	err := db.Order("name ASC").Find(&students).Error
	return students, err
}
