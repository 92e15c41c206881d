package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kardex/config"
	"kardex/internal/api/handler"
	"kardex/internal/model"
	"kardex/internal/repository"
	"kardex/internal/service"
	"kardex/pkg/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// 端到端：内存 SQLite + 真实 Service / Handler / Router
// ═══════════════════════════════════════════════════════════

const testCURP = "GAMA990101HDFRCR01"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, BodyLimit: 1 << 20, CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:4200"}}},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Log:      config.LogConfig{Level: "error", Format: "json"},
		Grades:   config.GradesConfig{Store: "database"},
		Import:   config.ImportConfig{MaxRows: 100, HeaderTokens: []string{"alumno_curp", "curp"}},
		Report:   config.ReportConfig{Terms: 10, CacheTTL: time.Minute},
	}
}

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		t.Fatalf("打开 sqlite 失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	seed := []interface{}{
		&model.Campus{CampusID: 1, Name: "Plantel Centro"},
		&model.Program{ProgramID: 1, Name: "Licenciatura en Derecho"},
		&[]model.Course{
			{ProgramID: 1, CourseID: 101, Code: "DER-101", Name: "Introducción al Derecho", Position: 1},
			{ProgramID: 1, CourseID: 102, Code: "DER-102", Name: "Derecho Romano", Position: 2},
		},
		&model.Group{GroupID: 1, Code: "DER-1A", Name: "Derecho 1A", ProgramID: 1, CampusID: 1},
		&model.Student{StudentID: 1, CURP: testCURP, Name: "Marco García", ProgramID: 1, GroupID: 1, CampusID: 1},
	}
	for _, v := range seed {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("写入参考数据失败: %v", err)
		}
	}

	if err := handler.RegisterValidators(); err != nil {
		t.Fatalf("注册校验器失败: %v", err)
	}
	repo := repository.NewRepository(db, cfg.Grades.Store)
	svc := service.NewService(cfg, repo, nil, logger)
	return Setup(cfg, handler.NewHandler(svc), nil, logger)
}

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path, contentType string, body []byte) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func TestRouter_Health(t *testing.T) {
	r := setupEngine(t)
	code, _ := do(t, r, "GET", "/health", "", nil)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestRouter_ImportThenReport(t *testing.T) {
	r := setupEngine(t)

	// 1. 预览
	text := "alumno_curp,materia,cuatrimestre,calificacion\n" +
		"gama990101hdfrcr01,102,3,88\n" +
		"GAMA990101HDFRCR01,101,1,150\n"
	code, env := do(t, r, "POST", "/api/v1/grades/import/preview", "text/csv", []byte(text))
	if code != http.StatusOK {
		t.Fatalf("preview expected 200, got %d", code)
	}
	var preview struct {
		Total int `json:"total"`
		Valid int `json:"valid"`
		Rows  []struct {
			Row      int     `json:"row"`
			CURP     string  `json:"curp"`
			CourseID int64   `json:"course_id"`
			Term     int     `json:"term"`
			Score    float64 `json:"score"`
			Error    string  `json:"error"`
		} `json:"rows"`
	}
	json.Unmarshal(env.Data, &preview)
	if preview.Total != 2 || preview.Valid != 1 || preview.Rows[1].Error != "invalid score" {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	// 2. 确认有效行
	confirm, _ := json.Marshal(map[string]interface{}{"rows": []interface{}{preview.Rows[0]}})
	code, env = do(t, r, "POST", "/api/v1/grades/import/confirm", "application/json", confirm)
	if code != http.StatusCreated {
		t.Fatalf("confirm expected 201, got %d", code)
	}

	// 3. 报表
	code, env = do(t, r, "GET", "/api/v1/students/"+testCURP+"/report", "", nil)
	if code != http.StatusOK {
		t.Fatalf("report expected 200, got %d", code)
	}
	var matrix struct {
		Student struct {
			ProgramName string `json:"program_name"`
		} `json:"student"`
		Terms []struct {
			Term  int `json:"term"`
			Cells []struct {
				CourseID int64    `json:"course_id"`
				Score    *float64 `json:"score"`
			} `json:"cells"`
		} `json:"terms"`
	}
	json.Unmarshal(env.Data, &matrix)
	if len(matrix.Terms) != 10 || len(matrix.Terms[2].Cells) != 2 {
		t.Fatalf("unexpected matrix shape: %+v", matrix)
	}
	if c := matrix.Terms[2].Cells[1]; c.CourseID != 102 || c.Score == nil || *c.Score != 88 {
		t.Errorf("expected 88 at (term 3, course 102), got %+v", c)
	}
	if matrix.Terms[2].Cells[0].Score != nil {
		t.Error("other cell in term 3 should be empty")
	}
}

func TestRouter_RegisterUpdateDelete(t *testing.T) {
	r := setupEngine(t)

	body, _ := json.Marshal(map[string]interface{}{"curp": testCURP, "course_id": 101, "term": 1, "score": 65})
	code, env := do(t, r, "POST", "/api/v1/grades", "application/json", body)
	if code != http.StatusCreated {
		t.Fatalf("register expected 201, got %d", code)
	}
	var grade struct {
		ID    int64   `json:"id"`
		Score float64 `json:"score"`
		Level string  `json:"level"`
	}
	json.Unmarshal(env.Data, &grade)
	if grade.Level != "low" {
		t.Errorf("expected level=low, got %s", grade.Level)
	}

	path := fmt.Sprintf("/api/v1/grades/%d", grade.ID)
	code, env = do(t, r, "PUT", path, "application/json", []byte(`{"score": 77}`))
	if code != http.StatusOK {
		t.Fatalf("update expected 200, got %d", code)
	}
	json.Unmarshal(env.Data, &grade)
	if grade.Score != 77 || grade.Level != "mid" {
		t.Errorf("unexpected updated grade: %+v", grade)
	}

	code, _ = do(t, r, "DELETE", path, "", nil)
	if code != http.StatusOK {
		t.Fatalf("delete expected 200, got %d", code)
	}
	code, _ = do(t, r, "DELETE", path, "", nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete expected 404, got %d", code)
	}
}

func TestRouter_UnknownStudentReportIsEmpty(t *testing.T) {
	r := setupEngine(t)

	code, env := do(t, r, "GET", "/api/v1/students/ZZZZ990101HDFRCR01/report", "", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var matrix struct {
		Student *json.RawMessage `json:"student"`
		Terms   []interface{}    `json:"terms"`
	}
	json.Unmarshal(env.Data, &matrix)
	if matrix.Student != nil || len(matrix.Terms) != 0 {
		t.Errorf("expected empty matrix, got %s", env.Data)
	}

	code, _ = do(t, r, "GET", "/api/v1/students/ZZZZ990101HDFRCR01", "", nil)
	if code != http.StatusNotFound {
		t.Errorf("student detail expected 404, got %d", code)
	}
}

func TestRouter_CatalogMutation(t *testing.T) {
	r := setupEngine(t)

	code, env := do(t, r, "POST", "/api/v1/programs/1/courses", "application/json", []byte(`{"code":"DER-103","name":"Teoría del Estado"}`))
	if code != http.StatusCreated {
		t.Fatalf("add course expected 201, got %d", code)
	}
	var course struct {
		ID       int64 `json:"id"`
		Position int   `json:"position"`
	}
	json.Unmarshal(env.Data, &course)
	if course.ID != 103 || course.Position != 3 {
		t.Errorf("expected id=103 position=3, got %+v", course)
	}

	code, env = do(t, r, "GET", "/api/v1/students/"+testCURP+"/courses", "", nil)
	if code != http.StatusOK {
		t.Fatalf("courses expected 200, got %d", code)
	}
	var list struct {
		Total int `json:"total"`
	}
	json.Unmarshal(env.Data, &list)
	if list.Total != 3 {
		t.Errorf("expected 3 courses, got %d", list.Total)
	}
}
