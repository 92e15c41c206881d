package repository

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"kardex/internal/model"
)

// memoryGradeRepo 进程内成绩存储
//
// 记录按写入顺序保存在切片中；ID 由单调递增计数器分配，同一批次内不会重复。
// 未找到记录时返回 gorm.ErrRecordNotFound，与 GORM 实现保持一致。
type memoryGradeRepo struct {
	mu      sync.RWMutex
	nextID  int64
	entries []model.GradeEntry
}

// NewMemoryGradeRepo 创建内存版 GradeRepository
func NewMemoryGradeRepo() GradeRepository {
	return &memoryGradeRepo{}
}

func (r *memoryGradeRepo) Create(_ context.Context, entry *model.GradeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appendLocked(entry, time.Now())
	return nil
}

func (r *memoryGradeRepo) BatchCreate(_ context.Context, entries []model.GradeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for i := range entries {
		r.appendLocked(&entries[i], now)
	}
	return nil
}

func (r *memoryGradeRepo) appendLocked(entry *model.GradeEntry, now time.Time) {
	r.nextID++
	entry.GradeID = r.nextID
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.entries = append(r.entries, *entry)
}

func (r *memoryGradeRepo) GetByID(_ context.Context, id int64) (*model.GradeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(id); i >= 0 {
		e := r.entries[i]
		return &e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryGradeRepo) ListByStudent(_ context.Context, studentID int64) ([]model.GradeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.GradeEntry
	for _, e := range r.entries {
		if e.StudentID == studentID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memoryGradeRepo) ListByStudentCURP(_ context.Context, curp string) ([]model.GradeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.GradeEntry
	for _, e := range r.entries {
		if e.StudentCURP == curp {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memoryGradeRepo) Update(_ context.Context, entry *model.GradeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(entry.GradeID)
	if i < 0 {
		return gorm.ErrRecordNotFound
	}
	entry.UpdatedAt = time.Now()
	// 原位替换，保持写入顺序不变
	r.entries[i] = *entry
	return nil
}

func (r *memoryGradeRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return true, nil
}

func (r *memoryGradeRepo) indexLocked(id int64) int {
	for i := range r.entries {
		if r.entries[i].GradeID == id {
			return i
		}
	}
	return -1
}
