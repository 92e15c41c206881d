package repository

import (
	"context"

	"gorm.io/gorm"

	"kardex/internal/model"
)

// ProgramRepository 专业与课程数据访问接口
type ProgramRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Program, error)
	List(ctx context.Context) ([]model.Program, error)

	// ── 课程子资源 ──
	GetCourse(ctx context.Context, programID, courseID int64) (*model.Course, error)
	CreateCourse(ctx context.Context, course *model.Course) error
	UpdateCourse(ctx context.Context, course *model.Course) error
	DeleteCourse(ctx context.Context, programID, courseID int64) (bool, error)
	// NextCourseSlot 返回新课程可用的 course_id 与 position（均为当前最大值 + 1）
	NextCourseSlot(ctx context.Context, programID int64) (int64, int, error)
}

// programRepo ProgramRepository 的 GORM 实现
type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func orderedCourses(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, course_id ASC")
}

func (r *programRepo) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	var p model.Program
	err := r.db.WithContext(ctx).
		Preload("Courses", orderedCourses).
		Where("program_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Preload("Courses", orderedCourses).
		Order("name ASC").
		Find(&programs).Error
	return programs, err
}

func (r *programRepo) GetCourse(ctx context.Context, programID, courseID int64) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).
		Where("program_id = ? AND course_id = ?", programID, courseID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *programRepo) CreateCourse(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *programRepo) UpdateCourse(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *programRepo) DeleteCourse(ctx context.Context, programID, courseID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("program_id = ? AND course_id = ?", programID, courseID).
		Delete(&model.Course{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *programRepo) NextCourseSlot(ctx context.Context, programID int64) (int64, int, error) {
	var row struct {
		MaxID  int64
		MaxPos int
	}
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Select("COALESCE(MAX(course_id), 0) AS max_id, COALESCE(MAX(position), 0) AS max_pos").
		Where("program_id = ?", programID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.MaxID + 1, row.MaxPos + 1, nil
}
