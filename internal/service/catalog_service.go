package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"kardex/internal/dto"
	"kardex/internal/model"
	"kardex/internal/repository"
)

// ── 目录模块业务错误 ──

var (
	ErrCourseIDExists = errors.New("课程ID在该专业内已存在")
)

// CatalogService 参考目录业务接口
//
// 课程按 position 升序排列，新增课程追加到末尾。
// 课程变更会清空全部报表缓存。
type CatalogService interface {
	ListPrograms(ctx context.Context) ([]dto.ProgramResponse, error)
	GetProgram(ctx context.Context, id int64) (*dto.ProgramResponse, error)
	ListGroups(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, error)
	ListCampuses(ctx context.Context) ([]dto.CampusResponse, error)

	AddCourse(ctx context.Context, programID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, programID, courseID int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	RemoveCourse(ctx context.Context, programID, courseID int64) error
}

type catalogService struct {
	repo   *repository.Repository
	report ReportService
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, report ReportService, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, report: report, logger: logger}
}

// ────────────────────── Programs ──────────────────────

func (s *catalogService) ListPrograms(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("查询专业列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		result = append(result, toProgramResponse(&programs[i]))
	}
	return result, nil
}

func (s *catalogService) GetProgram(ctx context.Context, id int64) (*dto.ProgramResponse, error) {
	program, err := findProgram(ctx, s.repo, id)
	if err != nil {
		s.logger.Error("查询专业失败", zap.Int64("program_id", id), zap.Error(err))
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

// ────────────────────── Groups / Campuses ──────────────────────

func (s *catalogService) ListGroups(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx, req.ProgramID)
	if err != nil {
		s.logger.Error("查询班级列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		result = append(result, dto.GroupResponse{
			ID:        g.GroupID,
			Code:      g.Code,
			Name:      g.Name,
			ProgramID: g.ProgramID,
			CampusID:  g.CampusID,
		})
	}
	return result, nil
}

func (s *catalogService) ListCampuses(ctx context.Context) ([]dto.CampusResponse, error) {
	campuses, err := s.repo.Campus.List(ctx)
	if err != nil {
		s.logger.Error("查询校区列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CampusResponse, 0, len(campuses))
	for _, c := range campuses {
		result = append(result, dto.CampusResponse{ID: c.CampusID, Name: c.Name, Address: c.Address})
	}
	return result, nil
}

// ────────────────────── AddCourse ──────────────────────

func (s *catalogService) AddCourse(ctx context.Context, programID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	program, err := findProgram(ctx, s.repo, programID)
	if err != nil {
		s.logger.Error("查询专业失败", zap.Int64("program_id", programID), zap.Error(err))
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	nextID, nextPos, err := s.repo.Program.NextCourseSlot(ctx, programID)
	if err != nil {
		s.logger.Error("分配课程位置失败", zap.Int64("program_id", programID), zap.Error(err))
		return nil, err
	}

	courseID := req.ID
	if courseID == 0 {
		courseID = nextID
	} else if program.FindCourse(courseID) != nil {
		return nil, ErrCourseIDExists
	}

	course := &model.Course{
		ProgramID: programID,
		CourseID:  courseID,
		Code:      req.Code,
		Name:      req.Name,
		Position:  nextPos,
	}
	if err := s.repo.Program.CreateCourse(ctx, course); err != nil {
		s.logger.Error("新增课程失败", zap.Int64("program_id", programID), zap.Error(err))
		return nil, err
	}

	s.report.InvalidateAll(ctx)
	s.logger.Info("新增课程", zap.Int64("program_id", programID), zap.Int64("course_id", courseID))

	resp := toCourseResponse(course)
	return &resp, nil
}

// ────────────────────── UpdateCourse ──────────────────────

func (s *catalogService) UpdateCourse(ctx context.Context, programID, courseID int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Program.GetCourse(ctx, programID, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, err
	}

	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Name != nil {
		course.Name = *req.Name
	}

	if err := s.repo.Program.UpdateCourse(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, err
	}

	s.report.InvalidateAll(ctx)

	resp := toCourseResponse(course)
	return &resp, nil
}

// ────────────────────── RemoveCourse ──────────────────────

// RemoveCourse 删除课程；已有成绩记录保留，报表中不再出现该列
func (s *catalogService) RemoveCourse(ctx context.Context, programID, courseID int64) error {
	deleted, err := s.repo.Program.DeleteCourse(ctx, programID, courseID)
	if err != nil {
		s.logger.Error("删除课程失败", zap.Int64("course_id", courseID), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrCourseNotFound
	}

	s.report.InvalidateAll(ctx)
	s.logger.Info("删除课程", zap.Int64("program_id", programID), zap.Int64("course_id", courseID))
	return nil
}

// ── 辅助函数 ──

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{ID: c.CourseID, Code: c.Code, Name: c.Name, Position: c.Position}
}

func toCourseResponses(courses []model.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i]))
	}
	return out
}

func toProgramResponse(p *model.Program) dto.ProgramResponse {
	return dto.ProgramResponse{
		ID:       p.ProgramID,
		Name:     p.Name,
		RVOE:     p.RVOE,
		RVOEDate: p.RVOEDate,
		Courses:  toCourseResponses(p.Courses),
	}
}
