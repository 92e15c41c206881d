package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kardex/config"
	"kardex/internal/dto"
	"kardex/internal/model"
	"kardex/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportCache 报表缓存，由 pkg/redis.Client 实现
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const reportCachePrefix = "report:"

func reportCacheKey(studentID int64) string {
	return fmt.Sprintf("%sstudent:%d", reportCachePrefix, studentID)
}

// ReportService 成绩报表业务接口
//
// 报表是查询：学生不存在返回空矩阵（Student 为 nil，Terms 为空），
// 专业悬空时每个学期都没有课程列。错误只来自存储层故障。
type ReportService interface {
	BuildByCURP(ctx context.Context, curp string) (*dto.ReportMatrix, error)
	BuildByStudentID(ctx context.Context, studentID int64) (*dto.ReportMatrix, error)
	// ExportByCURP 导出 .xlsx，学生不存在返回 ErrStudentNotFound
	ExportByCURP(ctx context.Context, curp string) (*bytes.Buffer, string, error)
	// Invalidate 淘汰单个学生的缓存
	Invalidate(studentID int64)
	// InvalidateAll 目录变更后清空全部报表缓存
	InvalidateAll(ctx context.Context)
}

type reportService struct {
	terms  int
	ttl    time.Duration
	repo   *repository.Repository
	cache  ReportCache
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例，cache 可为 nil
func NewReportService(cfg *config.ReportConfig, repo *repository.Repository, cache ReportCache, logger *zap.Logger) ReportService {
	terms := cfg.Terms
	if terms < 1 {
		terms = 10
	}
	return &reportService{
		terms:  terms,
		ttl:    cfg.CacheTTL,
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ────────────────────── Build ──────────────────────

func (s *reportService) BuildByCURP(ctx context.Context, curp string) (*dto.ReportMatrix, error) {
	student, err := findStudentByCURP(ctx, s.repo, curp)
	if err != nil {
		s.logger.Error("查询学生失败", zap.String("curp", curp), zap.Error(err))
		return nil, err
	}
	if student == nil {
		return emptyMatrix(), nil
	}
	return s.build(ctx, student)
}

func (s *reportService) BuildByStudentID(ctx context.Context, studentID int64) (*dto.ReportMatrix, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyMatrix(), nil
		}
		s.logger.Error("查询学生失败", zap.Int64("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return s.build(ctx, student)
}

func (s *reportService) build(ctx context.Context, student *model.Student) (*dto.ReportMatrix, error) {
	if m := s.cached(ctx, student.StudentID); m != nil {
		return m, nil
	}

	program, err := findProgram(ctx, s.repo, student.ProgramID)
	if err != nil {
		s.logger.Error("查询专业失败", zap.Int64("program_id", student.ProgramID), zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.Grade.ListByStudent(ctx, student.StudentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.Int64("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}

	m := BuildMatrix(student, program, entries, s.terms)
	s.store(ctx, student.StudentID, m)
	return m, nil
}

// BuildMatrix 构建学期 × 课程成绩矩阵
//
// entries 需按写入顺序排列；同一 (课程, 学期) 有多条记录时取最早写入的一条。
// program 为 nil 时每个学期的 Cells 为空。
func BuildMatrix(student *model.Student, program *model.Program, entries []model.GradeEntry, terms int) *dto.ReportMatrix {
	type cellKey struct {
		courseID int64
		term     int
	}
	scores := make(map[cellKey]float64, len(entries))
	for _, e := range entries {
		k := cellKey{courseID: e.CourseID, term: e.Term}
		if _, seen := scores[k]; !seen {
			scores[k] = e.Score
		}
	}

	header := &dto.ReportStudent{
		ID:        student.StudentID,
		CURP:      student.CURP,
		Name:      student.Name,
		ProgramID: student.ProgramID,
	}
	var courses []model.Course
	if program != nil {
		header.ProgramName = program.Name
		courses = program.Courses
	}

	m := &dto.ReportMatrix{Student: header, Terms: make([]dto.ReportTerm, 0, terms)}
	for term := 1; term <= terms; term++ {
		block := dto.ReportTerm{Term: term, Cells: make([]dto.ReportCell, 0, len(courses))}
		for _, c := range courses {
			cell := dto.ReportCell{CourseID: c.CourseID, CourseCode: c.Code, CourseName: c.Name}
			if score, ok := scores[cellKey{courseID: c.CourseID, term: term}]; ok {
				v := score
				cell.Score = &v
				cell.Level = ScoreLevel(score)
			}
			block.Cells = append(block.Cells, cell)
		}
		m.Terms = append(m.Terms, block)
	}
	return m
}

func emptyMatrix() *dto.ReportMatrix {
	return &dto.ReportMatrix{Terms: []dto.ReportTerm{}}
}

// ────────────────────── Cache ──────────────────────

func (s *reportService) cached(ctx context.Context, studentID int64) *dto.ReportMatrix {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, reportCacheKey(studentID))
	if err != nil {
		return nil
	}
	var m dto.ReportMatrix
	if err := json.Unmarshal(raw, &m); err != nil {
		s.logger.Warn("报表缓存反序列化失败", zap.Int64("student_id", studentID), zap.Error(err))
		return nil
	}
	return &m
}

func (s *reportService) store(ctx context.Context, studentID int64, m *dto.ReportMatrix) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey(studentID), raw, s.ttl); err != nil {
		s.logger.Warn("写入报表缓存失败", zap.Int64("student_id", studentID), zap.Error(err))
	}
}

func (s *reportService) Invalidate(studentID int64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, reportCacheKey(studentID)); err != nil {
		s.logger.Warn("淘汰报表缓存失败", zap.Int64("student_id", studentID), zap.Error(err))
	}
}

func (s *reportService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, reportCachePrefix); err != nil {
		s.logger.Warn("清空报表缓存失败", zap.Error(err))
	}
}

// ═══════════════════════════════════════════════════════════
// ExportByCURP 导出成绩矩阵为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：学生姓名 / CURP / 专业
//   - 第 2 行表头：学期 | 课程代码 | 课程 | 分数 | 等级
//   - 数据行：每个 (学期, 课程) 一行，无成绩显示 "-"

func (s *reportService) ExportByCURP(ctx context.Context, curp string) (*bytes.Buffer, string, error) {
	m, err := s.BuildByCURP(ctx, curp)
	if err != nil {
		return nil, "", err
	}
	if m.Student == nil {
		return nil, "", ErrStudentNotFound
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Kardex"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "E", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := fmt.Sprintf("%s / %s / %s", m.Student.Name, m.Student.CURP, m.Student.ProgramName)
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	for i, h := range []string{"Cuatrimestre", "Clave", "Materia", "Calificación", "Nivel"} {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, "A2", "E2", headerStyle)

	// 数据行
	row = 3
	for _, t := range m.Terms {
		for _, c := range t.Cells {
			f.SetCellValue(sheetName, cell("A", row), t.Term)
			f.SetCellValue(sheetName, cell("B", row), c.CourseCode)
			f.SetCellValue(sheetName, cell("C", row), c.CourseName)
			if c.Score != nil {
				f.SetCellValue(sheetName, cell("D", row), *c.Score)
				f.SetCellValue(sheetName, cell("E", row), c.Level)
			} else {
				f.SetCellValue(sheetName, cell("D", row), "-")
				f.SetCellValue(sheetName, cell("E", row), "-")
			}
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("kardex_%s.xlsx", m.Student.CURP)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
