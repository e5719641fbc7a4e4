package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/store"
)

// StudentStore is an in-memory implementation of store.StudentStore.
type StudentStore struct {
	mu       sync.RWMutex
	students map[uuid.UUID]*domain.Student

	// portions, when set, is used by Delete to mirror the database's
	// ON DELETE CASCADE behavior.
	portions *PortionStore
}

// NewStudentStore creates an empty in-memory student store.
func NewStudentStore() *StudentStore {
	return &StudentStore{students: make(map[uuid.UUID]*domain.Student)}
}

// SetPortionStore wires the portion store used for cascade deletes.
func (s *StudentStore) SetPortionStore(portions *PortionStore) {
	s.portions = portions
}

var _ store.StudentStore = (*StudentStore)(nil)

func (s *StudentStore) Create(ctx context.Context, student *domain.Student) error {
	if err := student.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *student
	s.students[student.ID] = &cp
	return nil
}

func (s *StudentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[id]
	if !ok {
		return nil, store.ErrStudentNotFound
	}
	cp := *student
	return &cp, nil
}

func (s *StudentStore) Update(ctx context.Context, student *domain.Student) error {
	if err := student.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[student.ID]; !ok {
		return store.ErrStudentNotFound
	}
	cp := *student
	s.students[student.ID] = &cp
	return nil
}

func (s *StudentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.students[id]; !ok {
		s.mu.Unlock()
		return store.ErrStudentNotFound
	}
	delete(s.students, id)
	s.mu.Unlock()

	if s.portions != nil {
		s.portions.mu.Lock()
		for pid, portion := range s.portions.portions {
			if portion.StudentID == id {
				delete(s.portions.portions, pid)
			}
		}
		s.portions.mu.Unlock()
	}
	return nil
}

func (s *StudentStore) FindByGroup(ctx context.Context, groupID int) ([]*domain.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*domain.Student{}
	for _, student := range s.students {
		if student.GroupID == groupID {
			cp := *student
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *StudentStore) List(ctx context.Context, filter store.StudentFilter) ([]*domain.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	result := []*domain.Student{}
	for _, student := range s.students {
		if filter.GroupID != nil && student.GroupID != *filter.GroupID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(student.FullName), search) {
			continue
		}
		cp := *student
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GroupStore is an in-memory implementation of store.GroupStore.
type GroupStore struct {
	mu     sync.RWMutex
	groups map[int]*domain.Group
}

// NewGroupStore creates an in-memory group store seeded with the given groups.
func NewGroupStore(groups ...*domain.Group) *GroupStore {
	s := &GroupStore{groups: make(map[int]*domain.Group, len(groups))}
	for _, group := range groups {
		cp := *group
		s.groups[group.ID] = &cp
	}
	return s
}

var _ store.GroupStore = (*GroupStore)(nil)

// Put inserts or replaces a group.
func (s *GroupStore) Put(group *domain.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *group
	s.groups[group.ID] = &cp
}

func (s *GroupStore) GetByID(ctx context.Context, id int) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return nil, store.ErrGroupNotFound
	}
	cp := *group
	return &cp, nil
}

func (s *GroupStore) List(ctx context.Context) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Group, 0, len(s.groups))
	for _, group := range s.groups {
		cp := *group
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
