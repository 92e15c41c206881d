package service

import (
	"errors"
	"strings"
	"testing"
)

// ── 测试辅助 ──

func registeredSet(curps ...string) RegisteredFunc {
	set := make(map[string]bool)
	for _, c := range curps {
		set[c] = true
	}
	return func(in []string) (map[string]bool, error) {
		out := make(map[string]bool)
		for _, c := range in {
			if set[c] {
				out[c] = true
			}
		}
		return out, nil
	}
}

func newTestParser() *ImportParser {
	return NewImportParser([]string{"alumno_curp", "curp"}, 1000)
}

func parseOne(t *testing.T, text string) ImportRow {
	t.Helper()
	result, err := newTestParser().Parse(text, registeredSet(curpSample))
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("期望 1 行，实际=%d", len(result.Rows))
	}
	return result.Rows[0]
}

// ── 行级校验 ──

func TestImportParser_ValidRow(t *testing.T) {
	row := parseOne(t, "AAAA000000HAAAAA01,101,1,95")
	if !row.Valid() {
		t.Fatalf("期望有效行，实际错误=%s", row.Error)
	}
	if row.Score != 95 || row.CourseID != 101 || row.Term != 1 {
		t.Errorf("解析值不符: %+v", row)
	}
	if row.Row != 1 {
		t.Errorf("期望行号=1，实际=%d", row.Row)
	}
}

func TestImportParser_ScoreOutOfRange(t *testing.T) {
	row := parseOne(t, "AAAA000000HAAAAA01,101,1,150")
	if row.Error != ReasonInvalidScore {
		t.Errorf("期望 %q，实际=%q", ReasonInvalidScore, row.Error)
	}
	if row.CourseID != 101 || row.Term != 1 {
		t.Errorf("出错行应保留可解析字段: %+v", row)
	}
}

func TestImportParser_ShortIdentifier(t *testing.T) {
	row := parseOne(t, "TOOSHORT,101,1,50")
	if row.Error != ReasonInvalidIdentifier {
		t.Errorf("期望 %q，实际=%q", ReasonInvalidIdentifier, row.Error)
	}
}

func TestImportParser_IdentifierLength(t *testing.T) {
	for _, id := range []string{"A", strings.Repeat("A", 17), strings.Repeat("A", 19), strings.Repeat("A", 40)} {
		row := parseOne(t, id+",101,1,50")
		if row.Error != ReasonInvalidIdentifier {
			t.Errorf("长度 %d 期望 %q，实际=%q", len(id), ReasonInvalidIdentifier, row.Error)
		}
	}
}

func TestImportParser_WellFormedIdentifierPassesLengthCheck(t *testing.T) {
	for _, id := range []string{curpMarco, curpBeatriz, curpSample, "ZZZZ121212MZZZZZZ9"} {
		if !ValidCURP(id) {
			t.Fatalf("%s 应符合 CURP 结构", id)
		}
		result, err := newTestParser().Parse(id+",101,1,50", registeredSet(id))
		if err != nil {
			t.Fatalf("Parse 应成功: %v", err)
		}
		if result.Rows[0].Error == ReasonInvalidIdentifier {
			t.Errorf("%s 不应判为 invalid identifier", id)
		}
	}
}

func TestImportParser_NotRegistered(t *testing.T) {
	row := parseOne(t, curpMarco+",101,1,50")
	if row.Error != ReasonIdentifierNotRegistered {
		t.Errorf("期望 %q，实际=%q", ReasonIdentifierNotRegistered, row.Error)
	}
}

func TestImportParser_LowercaseIdentifierNormalized(t *testing.T) {
	row := parseOne(t, strings.ToLower(curpSample)+",101,1,50")
	if !row.Valid() {
		t.Fatalf("小写 CURP 规范化后应有效，实际错误=%s", row.Error)
	}
	if row.CURP != curpSample {
		t.Errorf("期望 CURP=%s，实际=%s", curpSample, row.CURP)
	}
}

func TestImportParser_ValidationOrder(t *testing.T) {
	cases := []struct {
		line string
		want RowErrorReason
	}{
		{"AAAA000000HAAAAA01,101,1", ReasonInsufficientColumns},
		{"AAAA000000HAAAAA01,abc,x,y", ReasonInvalidCourseID},
		{"AAAA000000HAAAAA01,0,1,50", ReasonInvalidCourseID},
		{"AAAA000000HAAAAA01,-5,1,50", ReasonInvalidCourseID},
		{"AAAA000000HAAAAA01,101,0,50", ReasonInvalidTerm},
		{"AAAA000000HAAAAA01,101,1.5,50", ReasonInvalidTerm},
		{"AAAA000000HAAAAA01,101,2,-1", ReasonInvalidScore},
		{"AAAA000000HAAAAA01,101,2,abc", ReasonInvalidScore},
		{"AAAA000000HAAAAA01,101,2,NaN", ReasonInvalidScore},
		{"SHORT,abc,x,y", ReasonInvalidIdentifier},
		{",101,1,50", ReasonInvalidIdentifier},
	}
	for _, tc := range cases {
		row := parseOne(t, tc.line)
		if row.Error != tc.want {
			t.Errorf("%q 期望 %q，实际=%q", tc.line, tc.want, row.Error)
		}
	}
}

func TestImportParser_BoundaryScores(t *testing.T) {
	for _, s := range []string{"0", "100", "69.5", "89.99"} {
		row := parseOne(t, "AAAA000000HAAAAA01,101,1,"+s)
		if !row.Valid() {
			t.Errorf("分数 %s 应有效，实际错误=%s", s, row.Error)
		}
	}
}

// ── 表头 / 空行 / 行号 ──

func TestImportParser_HeaderSkipped(t *testing.T) {
	text := "alumno_curp,materia,cuatrimestre,calificacion\nAAAA000000HAAAAA01,101,1,95"
	result, err := newTestParser().Parse(text, registeredSet(curpSample))
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("表头应被跳过，期望 1 行，实际=%d", len(result.Rows))
	}
	if result.Rows[0].Row != 2 {
		t.Errorf("期望行号=2，实际=%d", result.Rows[0].Row)
	}
}

func TestImportParser_HeaderCaseInsensitive(t *testing.T) {
	text := "CURP,Materia,Cuatrimestre,Calificacion\nAAAA000000HAAAAA01,101,1,95"
	result, err := newTestParser().Parse(text, registeredSet(curpSample))
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Errorf("期望 1 行，实际=%d", len(result.Rows))
	}
}

func TestImportParser_HeaderOnly(t *testing.T) {
	result, err := newTestParser().Parse("alumno_curp,materia,cuatrimestre,calificacion\n", registeredSet())
	if err != nil {
		t.Fatalf("仅表头不应报错: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Errorf("期望 0 行，实际=%d", len(result.Rows))
	}
}

func TestImportParser_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n \r\n\t\n"} {
		_, err := newTestParser().Parse(text, registeredSet())
		if !errors.Is(err, ErrImportEmpty) {
			t.Errorf("%q 期望 ErrImportEmpty，实际: %v", text, err)
		}
	}
}

func TestImportParser_AllInvalidIsNotEmpty(t *testing.T) {
	result, err := newTestParser().Parse("bad\nworse,1", registeredSet())
	if err != nil {
		t.Fatalf("全部无效不应报错: %v", err)
	}
	if len(result.ValidRows()) != 0 || len(result.InvalidRows()) != 2 {
		t.Errorf("期望 0 有效 / 2 无效，实际 %d / %d", len(result.ValidRows()), len(result.InvalidRows()))
	}
}

func TestImportParser_OrderPreservedAndBlankLinesKeepLineNumbers(t *testing.T) {
	text := "AAAA000000HAAAAA01,101,1,95\n\n  \nTOOSHORT,101,1,50\r\nAAAA000000HAAAAA01 , 102 , 2 , 80 \n"
	result, err := newTestParser().Parse(text, registeredSet(curpSample))
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("期望 3 行，实际=%d", len(result.Rows))
	}
	wantLines := []int{1, 4, 5}
	for i, row := range result.Rows {
		if row.Row != wantLines[i] {
			t.Errorf("第 %d 行期望行号=%d，实际=%d", i, wantLines[i], row.Row)
		}
	}
	if result.Rows[2].CourseID != 102 || result.Rows[2].Score != 80 {
		t.Errorf("字段应去除空白后解析: %+v", result.Rows[2])
	}

	errs := result.Errors()
	if len(errs) != 1 || errs[0].Row != 4 || errs[0].Reason != ReasonInvalidIdentifier {
		t.Errorf("错误列表不符: %+v", errs)
	}
}

func TestImportParser_TooManyRows(t *testing.T) {
	p := NewImportParser([]string{"curp"}, 2)
	text := "curp,a,b,c\nAAAA000000HAAAAA01,101,1,95\nAAAA000000HAAAAA01,101,1,95\nAAAA000000HAAAAA01,101,1,95"
	_, err := p.Parse(text, registeredSet(curpSample))
	if !errors.Is(err, ErrImportTooManyRows) {
		t.Errorf("期望 ErrImportTooManyRows，实际: %v", err)
	}
}

func TestImportParser_RegistryQueriedOnce(t *testing.T) {
	calls := 0
	var got []string
	lookup := func(curps []string) (map[string]bool, error) {
		calls++
		got = curps
		return map[string]bool{}, nil
	}
	text := "AAAA000000HAAAAA01,101,1,95\naaaa000000haaaaa01,102,1,95\nSHORT,1,1,1\n" + curpMarco + ",1,1,1"
	if _, err := newTestParser().Parse(text, lookup); err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if calls != 1 {
		t.Errorf("名册应只查询一次，实际=%d", calls)
	}
	if len(got) != 2 {
		t.Errorf("期望去重后 2 个 CURP，实际=%v", got)
	}
}

func TestImportParser_RegistryError(t *testing.T) {
	boom := errors.New("db down")
	_, err := newTestParser().Parse("AAAA000000HAAAAA01,101,1,95", func([]string) (map[string]bool, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("期望透传名册查询错误，实际: %v", err)
	}
}
