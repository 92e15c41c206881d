package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kardex/internal/dto"
	"kardex/internal/model"
	"kardex/internal/repository"
)

// ── 成绩模块业务错误 ──

var (
	ErrGradeNotFound = errors.New("成绩记录不存在")
)

// GradeEventKind 成绩变更类型
type GradeEventKind string

const (
	GradeInserted GradeEventKind = "inserted"
	GradeUpdated  GradeEventKind = "updated"
	GradeDeleted  GradeEventKind = "deleted"
)

// GradeEvent 成绩变更通知，写操作成功后同步派发
type GradeEvent struct {
	Kind      GradeEventKind
	StudentID int64
	EntryID   int64
}

// GradeService 成绩存储业务接口
//
// 成绩记录只追加：同一 (学生, 课程, 学期) 允许多条并存。
// 学生姓名 / CURP / 课程名为写入时快照，不随目录数据变化回写。
type GradeService interface {
	Insert(ctx context.Context, entry model.GradeEntry) (*model.GradeEntry, error)
	InsertBatch(ctx context.Context, entries []model.GradeEntry) ([]model.GradeEntry, error)
	FindByStudent(ctx context.Context, studentID int64) ([]model.GradeEntry, error)
	// FindByStudentCURP 按 CURP 快照匹配，输入先规范化为大写
	FindByStudentCURP(ctx context.Context, curp string) ([]model.GradeEntry, error)
	// Update 合并 patch 中的非空字段，记录不存在返回 ErrGradeNotFound
	Update(ctx context.Context, id int64, patch model.GradePatch) (*model.GradeEntry, error)
	// Delete 删除记录；不存在时返回 false，不视为错误
	Delete(ctx context.Context, id int64) (bool, error)
	// Register 手工登记一条成绩（校验学生、专业与课程归属）
	Register(ctx context.Context, req *dto.RegisterGradeRequest) (*dto.GradeResponse, error)
	// Subscribe 订阅成绩变更，返回取消订阅函数
	Subscribe(fn func(GradeEvent)) (unsubscribe func())
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(GradeEvent)
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{
		repo:   repo,
		logger: logger,
		subs:   make(map[int]func(GradeEvent)),
	}
}

// ────────────────────── Insert ──────────────────────

func (s *gradeService) Insert(ctx context.Context, entry model.GradeEntry) (*model.GradeEntry, error) {
	entry.GradeID = 0
	entry.StudentCURP = NormalizeCURP(entry.StudentCURP)

	if err := s.repo.Grade.Create(ctx, &entry); err != nil {
		s.logger.Error("写入成绩失败", zap.Int64("student_id", entry.StudentID), zap.Error(err))
		return nil, err
	}

	s.publish(GradeEvent{Kind: GradeInserted, StudentID: entry.StudentID, EntryID: entry.GradeID})
	return &entry, nil
}

// ────────────────────── InsertBatch ──────────────────────

func (s *gradeService) InsertBatch(ctx context.Context, entries []model.GradeEntry) ([]model.GradeEntry, error) {
	if len(entries) == 0 {
		return []model.GradeEntry{}, nil
	}

	batch := make([]model.GradeEntry, len(entries))
	copy(batch, entries)
	for i := range batch {
		batch[i].GradeID = 0
		batch[i].StudentCURP = NormalizeCURP(batch[i].StudentCURP)
	}

	if err := s.repo.Grade.BatchCreate(ctx, batch); err != nil {
		s.logger.Error("批量写入成绩失败", zap.Int("count", len(batch)), zap.Error(err))
		return nil, err
	}

	notified := make(map[int64]bool)
	for _, e := range batch {
		if notified[e.StudentID] {
			continue
		}
		notified[e.StudentID] = true
		s.publish(GradeEvent{Kind: GradeInserted, StudentID: e.StudentID, EntryID: e.GradeID})
	}

	s.logger.Info("批量写入成绩", zap.Int("count", len(batch)))
	return batch, nil
}

// ────────────────────── Find ──────────────────────

func (s *gradeService) FindByStudent(ctx context.Context, studentID int64) ([]model.GradeEntry, error) {
	entries, err := s.repo.Grade.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.Int64("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (s *gradeService) FindByStudentCURP(ctx context.Context, curp string) ([]model.GradeEntry, error) {
	curp = NormalizeCURP(curp)
	entries, err := s.repo.Grade.ListByStudentCURP(ctx, curp)
	if err != nil {
		s.logger.Error("按 CURP 查询成绩失败", zap.String("curp", curp), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

// ────────────────────── Update ──────────────────────

func (s *gradeService) Update(ctx context.Context, id int64, patch model.GradePatch) (*model.GradeEntry, error) {
	entry, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询成绩失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	prevStudent := entry.StudentID
	patch.Apply(entry)
	entry.StudentCURP = NormalizeCURP(entry.StudentCURP)

	if err := s.repo.Grade.Update(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("更新成绩失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.publish(GradeEvent{Kind: GradeUpdated, StudentID: entry.StudentID, EntryID: id})
	if prevStudent != entry.StudentID {
		s.publish(GradeEvent{Kind: GradeUpdated, StudentID: prevStudent, EntryID: id})
	}
	return entry, nil
}

// ────────────────────── Delete ──────────────────────

func (s *gradeService) Delete(ctx context.Context, id int64) (bool, error) {
	// 先取出记录以便通知所属学生
	entry, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("查询成绩失败", zap.Int64("id", id), zap.Error(err))
		return false, err
	}

	deleted, err := s.repo.Grade.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除成绩失败", zap.Int64("id", id), zap.Error(err))
		return false, err
	}
	if deleted {
		s.publish(GradeEvent{Kind: GradeDeleted, StudentID: entry.StudentID, EntryID: id})
	}
	return deleted, nil
}

// ────────────────────── Register ──────────────────────

func (s *gradeService) Register(ctx context.Context, req *dto.RegisterGradeRequest) (*dto.GradeResponse, error) {
	student, err := findStudentByCURP(ctx, s.repo, req.CURP)
	if err != nil {
		s.logger.Error("查询学生失败", zap.String("curp", req.CURP), zap.Error(err))
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
		return nil, ErrProgramNotFound
	}

	course := program.FindCourse(req.CourseID)
	if course == nil {
		return nil, ErrCourseNotInProgram
	}

	var score float64
	if req.Score != nil {
		score = *req.Score
	}

	stored, err := s.Insert(ctx, model.GradeEntry{
		StudentID:   student.StudentID,
		StudentName: student.Name,
		StudentCURP: student.CURP,
		CourseID:    course.CourseID,
		CourseName:  course.Name,
		Term:        req.Term,
		Score:       score,
	})
	if err != nil {
		return nil, err
	}

	resp := ToGradeResponse(stored)
	return &resp, nil
}

// ────────────────────── Subscribe ──────────────────────

func (s *gradeService) Subscribe(fn func(GradeEvent)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *gradeService) publish(ev GradeEvent) {
	s.mu.RLock()
	fns := make([]func(GradeEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// ── 辅助函数 ──

// ToGradeResponse 转换为响应 DTO，附带展示等级
func ToGradeResponse(e *model.GradeEntry) dto.GradeResponse {
	resp := dto.GradeResponse{
		ID:          e.GradeID,
		StudentID:   e.StudentID,
		StudentName: e.StudentName,
		StudentCURP: e.StudentCURP,
		CourseID:    e.CourseID,
		CourseName:  e.CourseName,
		Term:        e.Term,
		Score:       e.Score,
		Level:       ScoreLevel(e.Score),
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// toGradeResponses 批量转换
func toGradeResponses(entries []model.GradeEntry) []dto.GradeResponse {
	out := make([]dto.GradeResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToGradeResponse(&entries[i]))
	}
	return out
}
