package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"kardex/config"
	"kardex/internal/dto"
	"kardex/internal/model"
	"kardex/internal/repository"
)

// ── 导入模块业务错误 ──

var (
	ErrImportBadWorkbook = errors.New("无法解析 Excel 文件")
	ErrNothingToConfirm  = errors.New("没有可导入的数据行")
)

// ImportService 成绩批量导入业务接口
//
// 两步流程：Preview 只解析校验不落库；Confirm 对前端回传的行重新校验后批量写入。
type ImportService interface {
	// Preview 解析 CSV 文本
	Preview(ctx context.Context, text string) (*dto.ImportPreviewResponse, error)
	// PreviewWorkbook 解析 .xlsx 首个工作表，每行前 4 列按 CSV 规则处理
	PreviewWorkbook(ctx context.Context, reader io.Reader) (*dto.ImportPreviewResponse, error)
	// Confirm 写入有效行，无法解析的行跳过并返回原因，不中断整批
	Confirm(ctx context.Context, req *dto.ImportConfirmRequest) (*dto.ImportConfirmResponse, error)
}

type importService struct {
	repo   *repository.Repository
	grades GradeService
	parser *ImportParser
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(cfg *config.ImportConfig, repo *repository.Repository, grades GradeService, logger *zap.Logger) ImportService {
	return &importService{
		repo:   repo,
		grades: grades,
		parser: NewImportParser(cfg.HeaderTokens, cfg.MaxRows),
		logger: logger,
	}
}

// ────────────────────── Preview ──────────────────────

func (s *importService) Preview(ctx context.Context, text string) (*dto.ImportPreviewResponse, error) {
	result, err := s.parser.Parse(text, registeredLookup(ctx, s.repo))
	if err != nil {
		if !errors.Is(err, ErrImportEmpty) && !errors.Is(err, ErrImportTooManyRows) {
			s.logger.Error("解析导入数据失败", zap.Error(err))
		}
		return nil, err
	}

	resp := &dto.ImportPreviewResponse{
		Total: len(result.Rows),
		Rows:  make([]dto.ImportRowResponse, 0, len(result.Rows)),
	}
	for _, row := range result.Rows {
		if row.Valid() {
			resp.Valid++
		} else {
			resp.Invalid++
		}
		resp.Rows = append(resp.Rows, dto.ImportRowResponse{
			Row:      row.Row,
			CURP:     row.CURP,
			CourseID: row.CourseID,
			Term:     row.Term,
			Score:    row.Score,
			Error:    string(row.Error),
		})
	}

	s.logger.Info("导入预览完成",
		zap.Int("total", resp.Total),
		zap.Int("valid", resp.Valid),
		zap.Int("invalid", resp.Invalid),
	)
	return resp, nil
}

// ────────────────────── PreviewWorkbook ──────────────────────

func (s *importService) PreviewWorkbook(ctx context.Context, reader io.Reader) (*dto.ImportPreviewResponse, error) {
	text, err := workbookToText(reader)
	if err != nil {
		s.logger.Warn("读取 Excel 导入文件失败", zap.Error(err))
		return nil, ErrImportBadWorkbook
	}
	return s.Preview(ctx, text)
}

// workbookToText 将首个工作表转为 CSV 文本，空行保留以维持行号
func workbookToText(reader io.Reader) (string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return "", fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", fmt.Errorf("读取工作表失败: %w", err)
	}

	var b strings.Builder
	for _, row := range rows {
		if len(row) > importColumns {
			row = row[:importColumns]
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ────────────────────── Confirm ──────────────────────

func (s *importService) Confirm(ctx context.Context, req *dto.ImportConfirmRequest) (*dto.ImportConfirmResponse, error) {
	if len(req.Rows) == 0 {
		return nil, ErrNothingToConfirm
	}

	curps := make([]string, 0, len(req.Rows))
	for _, r := range req.Rows {
		curps = append(curps, NormalizeCURP(r.CURP))
	}
	registered, err := registeredLookup(ctx, s.repo)(curps)
	if err != nil {
		s.logger.Error("核对学生名册失败", zap.Error(err))
		return nil, err
	}

	// 同一批次内学生与专业只查一次
	students := make(map[string]*model.Student)
	programs := make(map[int64]*model.Program)

	resp := &dto.ImportConfirmResponse{Grades: []dto.GradeResponse{}}
	var entries []model.GradeEntry

	for _, r := range req.Rows {
		row := ImportRow{Row: r.Row, CURP: NormalizeCURP(r.CURP), CourseID: r.CourseID, Term: r.Term, Score: r.Score}
		if reason := checkRow(row, registered[row.CURP]); reason != "" {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: r.Row, Reason: string(reason)})
			continue
		}

		student, ok := students[row.CURP]
		if !ok {
			student, err = findStudentByCURP(ctx, s.repo, row.CURP)
			if err != nil {
				s.logger.Error("查询学生失败", zap.String("curp", row.CURP), zap.Error(err))
				return nil, err
			}
			students[row.CURP] = student
		}
		if student == nil {
			// 预览与确认之间学生被移除
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: r.Row, Reason: string(ReasonIdentifierNotRegistered)})
			continue
		}

		program, ok := programs[student.ProgramID]
		if !ok {
			program, err = findProgram(ctx, s.repo, student.ProgramID)
			if err != nil {
				s.logger.Error("查询专业失败", zap.Int64("program_id", student.ProgramID), zap.Error(err))
				return nil, err
			}
			programs[student.ProgramID] = program
		}

		entries = append(entries, model.GradeEntry{
			StudentID:   student.StudentID,
			StudentName: student.Name,
			StudentCURP: student.CURP,
			CourseID:    row.CourseID,
			CourseName:  courseNameSnapshot(program, row.CourseID),
			Term:        row.Term,
			Score:       row.Score,
		})
	}

	resp.Skipped = len(resp.Errors)
	if len(entries) == 0 {
		return resp, nil
	}

	stored, err := s.grades.InsertBatch(ctx, entries)
	if err != nil {
		return nil, err
	}
	resp.Imported = len(stored)
	resp.Grades = toGradeResponses(stored)

	s.logger.Info("成绩导入完成", zap.Int("imported", resp.Imported), zap.Int("skipped", resp.Skipped))
	return resp, nil
}
