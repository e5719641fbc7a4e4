package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/store"
)

// PortionStore is an in-memory implementation of store.PortionStore.
type PortionStore struct {
	mu       sync.RWMutex
	portions map[uuid.UUID]*domain.Portion

	// students is consulted by FindByGroup so that students without
	// portions still appear in the result. Optional.
	students *StudentStore
}

// NewPortionStore creates an empty in-memory portion store. The student
// store, when provided, lets FindByGroup include students that have no
// recorded portions.
func NewPortionStore(students *StudentStore) *PortionStore {
	return &PortionStore{
		portions: make(map[uuid.UUID]*domain.Portion),
		students: students,
	}
}

var _ store.PortionStore = (*PortionStore)(nil)

func (s *PortionStore) Create(ctx context.Context, portion *domain.Portion) error {
	if err := portion.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *portion
	s.portions[portion.ID] = &cp
	return nil
}

func (s *PortionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portion, ok := s.portions[id]
	if !ok {
		return nil, store.ErrPortionNotFound
	}
	cp := *portion
	return &cp, nil
}

func (s *PortionStore) Update(ctx context.Context, portion *domain.Portion) error {
	if err := portion.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.portions[portion.ID]; !ok {
		return store.ErrPortionNotFound
	}
	cp := *portion
	s.portions[portion.ID] = &cp
	return nil
}

func (s *PortionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.portions[id]; !ok {
		return store.ErrPortionNotFound
	}
	delete(s.portions, id)
	return nil
}

func (s *PortionStore) DeleteByStudentAndSections(
	ctx context.Context,
	studentID uuid.UUID,
	sectionIDs []int,
) (int64, error) {
	wanted := make(map[int]bool, len(sectionIDs))
	for _, id := range sectionIDs {
		wanted[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, portion := range s.portions {
		if portion.StudentID == studentID && wanted[portion.SectionID] {
			delete(s.portions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *PortionStore) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Portion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.collect(func(p *domain.Portion) bool {
		return p.StudentID == studentID
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt.After(result[j].RecordedAt)
	})
	return result, nil
}

func (s *PortionStore) FindByStudentAndSection(
	ctx context.Context,
	studentID uuid.UUID,
	sectionID int,
) ([]*domain.Portion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.collect(func(p *domain.Portion) bool {
		return p.StudentID == studentID && p.SectionID == sectionID
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartVerse < result[j].StartVerse
	})
	return result, nil
}

func (s *PortionStore) FindByGroup(ctx context.Context, groupID int) (map[uuid.UUID][]*domain.Portion, error) {
	members := map[uuid.UUID]bool{}
	if s.students != nil {
		students, err := s.students.FindByGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		for _, student := range students {
			members[student.ID] = true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	byStudent := make(map[uuid.UUID][]*domain.Portion, len(members))
	for id := range members {
		byStudent[id] = []*domain.Portion{}
	}
	for _, portion := range s.portions {
		if !members[portion.StudentID] {
			continue
		}
		cp := *portion
		byStudent[portion.StudentID] = append(byStudent[portion.StudentID], &cp)
	}
	for _, portions := range byStudent {
		sort.SliceStable(portions, func(i, j int) bool {
			return portions[i].RecordedAt.After(portions[j].RecordedAt)
		})
	}
	return byStudent, nil
}

// collect copies every portion matching the predicate. Caller must hold
// at least a read lock.
func (s *PortionStore) collect(match func(*domain.Portion) bool) []*domain.Portion {
	result := []*domain.Portion{}
	for _, portion := range s.portions {
		if match(portion) {
			cp := *portion
			result = append(result, &cp)
		}
	}
	return result
}
