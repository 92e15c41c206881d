package service

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"kardex/internal/model"
	"kardex/internal/repository"
)

// ── 学生 / 专业 / 课程解析（多个模块共用） ──

var (
	ErrStudentNotFound    = errors.New("学生不存在")
	ErrProgramNotFound    = errors.New("专业不存在")
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseNotInProgram = errors.New("该课程不属于学生所在专业")
)

// findStudentByCURP 按规范化 CURP 查找学生，不存在返回 (nil, nil)
func findStudentByCURP(ctx context.Context, repo *repository.Repository, curp string) (*model.Student, error) {
	student, err := repo.Student.GetByCURP(ctx, NormalizeCURP(curp))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return student, nil
}

// findProgram 查找专业（含有序课程），悬空引用返回 (nil, nil)
func findProgram(ctx context.Context, repo *repository.Repository, programID int64) (*model.Program, error) {
	program, err := repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return program, nil
}

// registeredLookup 返回基于学生名册的 RegisteredFunc，一次查询完成整批核对
func registeredLookup(ctx context.Context, repo *repository.Repository) RegisteredFunc {
	return func(curps []string) (map[string]bool, error) {
		found, err := repo.Student.ListRegisteredCURPs(ctx, curps)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool, len(found))
		for _, c := range found {
			set[c] = true
		}
		return set, nil
	}
}

// courseNameSnapshot 课程名快照；专业悬空或课程不在专业内时退化为课程ID字符串
func courseNameSnapshot(program *model.Program, courseID int64) string {
	if program != nil {
		if c := program.FindCourse(courseID); c != nil {
			return c.Name
		}
	}
	return strconv.FormatInt(courseID, 10)
}
