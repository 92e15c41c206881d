package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"kardex/internal/model"
	"kardex/internal/repository"
	"kardex/pkg/redis"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student // key: CURP
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) add(s *model.Student) {
	m.students[s.CURP] = s
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	for _, s := range m.students {
		if s.StudentID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByCURP(_ context.Context, curp string) (*model.Student, error) {
	if s, ok := m.students[curp]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListRegisteredCURPs(_ context.Context, curps []string) ([]string, error) {
	var found []string
	for _, c := range curps {
		if _, ok := m.students[c]; ok {
			found = append(found, c)
		}
	}
	return found, nil
}

func (m *mockStudentRepo) Search(_ context.Context, f repository.StudentFilter) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if f.CURP != "" && !strings.Contains(s.CURP, f.CURP) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToUpper(s.Name), strings.ToUpper(f.Name)) {
			continue
		}
		if f.ProgramID > 0 && s.ProgramID != f.ProgramID {
			continue
		}
		if f.GroupID > 0 && s.GroupID != f.GroupID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[int64]*model.Program
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[int64]*model.Program)}
}

func (m *mockProgramRepo) copyOf(p *model.Program) *model.Program {
	cp := *p
	cp.Courses = append([]model.Course(nil), p.Courses...)
	sort.SliceStable(cp.Courses, func(i, j int) bool { return cp.Courses[i].Position < cp.Courses[j].Position })
	return &cp
}

func (m *mockProgramRepo) GetByID(_ context.Context, id int64) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return m.copyOf(p), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *m.copyOf(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockProgramRepo) GetCourse(_ context.Context, programID, courseID int64) (*model.Course, error) {
	if p, ok := m.programs[programID]; ok {
		if c := p.FindCourse(courseID); c != nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) CreateCourse(_ context.Context, course *model.Course) error {
	p := m.programs[course.ProgramID]
	p.Courses = append(p.Courses, *course)
	return nil
}

func (m *mockProgramRepo) UpdateCourse(_ context.Context, course *model.Course) error {
	p := m.programs[course.ProgramID]
	if c := p.FindCourse(course.CourseID); c != nil {
		*c = *course
	}
	return nil
}

func (m *mockProgramRepo) DeleteCourse(_ context.Context, programID, courseID int64) (bool, error) {
	p, ok := m.programs[programID]
	if !ok {
		return false, nil
	}
	for i := range p.Courses {
		if p.Courses[i].CourseID == courseID {
			p.Courses = append(p.Courses[:i], p.Courses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProgramRepo) NextCourseSlot(_ context.Context, programID int64) (int64, int, error) {
	var maxID int64
	var maxPos int
	for _, c := range m.programs[programID].Courses {
		if c.CourseID > maxID {
			maxID = c.CourseID
		}
		if c.Position > maxPos {
			maxPos = c.Position
		}
	}
	return maxID + 1, maxPos + 1, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups []model.Group
}

func (m *mockGroupRepo) GetByID(_ context.Context, id int64) (*model.Group, error) {
	for i := range m.groups {
		if m.groups[i].GroupID == id {
			g := m.groups[i]
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context, programID int64) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		if programID == 0 || g.ProgramID == programID {
			result = append(result, g)
		}
	}
	return result, nil
}

// ── Mock CampusRepository ──

type mockCampusRepo struct {
	campuses []model.Campus
}

func (m *mockCampusRepo) GetByID(_ context.Context, id int64) (*model.Campus, error) {
	for i := range m.campuses {
		if m.campuses[i].CampusID == id {
			c := m.campuses[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCampusRepo) List(_ context.Context) ([]model.Campus, error) {
	return m.campuses, nil
}

// ── Mock ReportCache ──

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, redis.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mockCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *mockCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// ── 测试夹具 ──

const (
	curpMarco   = "GAMA990101HDFRCR01"
	curpBeatriz = "LOPB010315MDFPZN02"
	curpSample  = "AAAA000000HAAAAA01"
)

type fixture struct {
	repo     *repository.Repository
	students *mockStudentRepo
	programs *mockProgramRepo
}

// newFixture 构造一个专业（3 门课程）与三名学生；成绩使用内存存储
func newFixture() *fixture {
	students := newMockStudentRepo()
	programs := newMockProgramRepo()

	programs.programs[1] = &model.Program{
		ProgramID: 1,
		Name:      "Licenciatura en Derecho",
		Courses: []model.Course{
			{ProgramID: 1, CourseID: 101, Code: "DER-101", Name: "Introducción al Derecho", Position: 1},
			{ProgramID: 1, CourseID: 102, Code: "DER-102", Name: "Derecho Romano", Position: 2},
			{ProgramID: 1, CourseID: 103, Code: "DER-103", Name: "Teoría del Estado", Position: 3},
		},
	}

	students.add(&model.Student{StudentID: 1, CURP: curpMarco, Name: "Marco García", ProgramID: 1, GroupID: 1, CampusID: 1})
	students.add(&model.Student{StudentID: 2, CURP: curpBeatriz, Name: "Beatriz López", ProgramID: 1, GroupID: 1, CampusID: 1})
	students.add(&model.Student{StudentID: 3, CURP: curpSample, Name: "Alumno Prueba", ProgramID: 1, GroupID: 1, CampusID: 1})

	repo := &repository.Repository{
		Grade:   repository.NewMemoryGradeRepo(),
		Student: students,
		Program: programs,
		Group: &mockGroupRepo{groups: []model.Group{
			{GroupID: 1, Code: "DER-1A", Name: "Derecho 1A", ProgramID: 1, CampusID: 1},
		}},
		Campus: &mockCampusRepo{campuses: []model.Campus{
			{CampusID: 1, Name: "Plantel Centro"},
		}},
	}
	return &fixture{repo: repo, students: students, programs: programs}
}
