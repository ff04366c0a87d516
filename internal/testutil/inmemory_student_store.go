package testutil

import (
	"context"
	"sync"

	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/student"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
)

// InMemoryStudentStore is an in-memory implementation of student.Repository
type InMemoryStudentStore struct {
	mu       sync.Mutex
	students map[string]*student.Student
}

// NewInMemoryStudentStore creates a new instance of InMemoryStudentStore
func NewInMemoryStudentStore() *InMemoryStudentStore {
	return &InMemoryStudentStore{
		students: make(map[string]*student.Student),
	}
}

func (s *InMemoryStudentStore) Create(ctx context.Context, stu *student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.students[stu.ID]; exists {
		return ierr.NewError("student already exists").
			WithHint("A student with this ID already exists").
			WithReportableDetails(map[string]interface{}{
				"student_id": stu.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.students[stu.ID] = stu
	return nil
}

func (s *InMemoryStudentStore) Get(ctx context.Context, id string) (*student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

// GetForUpdate behaves like Get; the in-memory store has no row locks
func (s *InMemoryStudentStore) GetForUpdate(ctx context.Context, id string) (*student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *InMemoryStudentStore) get(id string) (*student.Student, error) {
	stu, exists := s.students[id]
	if !exists || stu.Status == types.StatusDeleted {
		return nil, ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]interface{}{
				"student_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return stu, nil
}

func (s *InMemoryStudentStore) List(ctx context.Context) ([]*student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]*student.Student, 0, len(s.students))
	for _, stu := range s.students {
		if stu.Status != types.StatusDeleted {
			students = append(students, stu)
		}
	}
	return students, nil
}

func (s *InMemoryStudentStore) Update(ctx context.Context, stu *student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.students[stu.ID]; !exists {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]interface{}{
				"student_id": stu.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	s.students[stu.ID] = stu
	return nil
}

func (s *InMemoryStudentStore) UpdateLedger(ctx context.Context, id string, l ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stu, err := s.get(id)
	if err != nil {
		return err
	}

	stu.Ledger = l
	return nil
}

func (s *InMemoryStudentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stu, exists := s.students[id]
	if !exists {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]interface{}{
				"student_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	stu.Status = types.StatusDeleted
	return nil
}

// Clear clears all students from the in-memory store
func (s *InMemoryStudentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = make(map[string]*student.Student)
}
