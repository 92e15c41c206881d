package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kardex/internal/dto"
	"kardex/internal/model"
	"kardex/internal/repository"
)

// StudentService 学生查询业务接口（学生目录只读）
type StudentService interface {
	Search(ctx context.Context, req *dto.StudentSearchRequest) ([]dto.StudentResponse, error)
	GetByCURP(ctx context.Context, curp string) (*dto.StudentResponse, error)
	// Courses 学生所在专业的有序课程列表，专业悬空时为空
	Courses(ctx context.Context, curp string) ([]dto.CourseResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// ────────────────────── Search ──────────────────────

func (s *studentService) Search(ctx context.Context, req *dto.StudentSearchRequest) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.Search(ctx, repository.StudentFilter{
		CURP:      NormalizeCURP(req.CURP),
		Name:      req.Name,
		ProgramID: req.ProgramID,
		GroupID:   req.GroupID,
	})
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	names, err := s.loadNames(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, names.toStudentResponse(&students[i]))
	}
	return result, nil
}

// ────────────────────── GetByCURP ──────────────────────

func (s *studentService) GetByCURP(ctx context.Context, curp string) (*dto.StudentResponse, error) {
	student, err := findStudentByCURP(ctx, s.repo, curp)
	if err != nil {
		s.logger.Error("查询学生失败", zap.String("curp", curp), zap.Error(err))
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	names, err := s.loadNames(ctx)
	if err != nil {
		return nil, err
	}
	resp := names.toStudentResponse(student)
	return &resp, nil
}

// ────────────────────── Courses ──────────────────────

func (s *studentService) Courses(ctx context.Context, curp string) ([]dto.CourseResponse, error) {
	student, err := findStudentByCURP(ctx, s.repo, curp)
	if err != nil {
		s.logger.Error("查询学生失败", zap.String("curp", curp), zap.Error(err))
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	program, err := findProgram(ctx, s.repo, student.ProgramID)
	if err != nil {
		s.logger.Error("查询专业失败", zap.Int64("program_id", student.ProgramID), zap.Error(err))
		return nil, err
	}
	if program == nil {
		return []dto.CourseResponse{}, nil
	}
	return toCourseResponses(program.Courses), nil
}

// ── 辅助函数 ──

// directoryNames 专业 / 班级 / 校区名称索引，批量填充避免 N+1 查询
type directoryNames struct {
	programs map[int64]string
	groups   map[int64]string
	campuses map[int64]string
}

func (s *studentService) loadNames(ctx context.Context) (*directoryNames, error) {
	names := &directoryNames{
		programs: make(map[int64]string),
		groups:   make(map[int64]string),
		campuses: make(map[int64]string),
	}

	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("查询专业列表失败", zap.Error(err))
		return nil, err
	}
	for _, p := range programs {
		names.programs[p.ProgramID] = p.Name
	}

	groups, err := s.repo.Group.List(ctx, 0)
	if err != nil {
		s.logger.Error("查询班级列表失败", zap.Error(err))
		return nil, err
	}
	for _, g := range groups {
		names.groups[g.GroupID] = g.Name
	}

	campuses, err := s.repo.Campus.List(ctx)
	if err != nil {
		s.logger.Error("查询校区列表失败", zap.Error(err))
		return nil, err
	}
	for _, c := range campuses {
		names.campuses[c.CampusID] = c.Name
	}
	return names, nil
}

func (n *directoryNames) toStudentResponse(st *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:          st.StudentID,
		CURP:        st.CURP,
		Name:        st.Name,
		ProgramID:   st.ProgramID,
		ProgramName: n.programs[st.ProgramID],
		GroupID:     st.GroupID,
		GroupName:   n.groups[st.GroupID],
		CampusID:    st.CampusID,
		CampusName:  n.campuses[st.CampusID],
	}
}

// isNotFound gorm 未找到判定
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
