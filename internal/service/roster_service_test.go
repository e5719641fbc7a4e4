package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maktab/hifdh-api/internal/store"
)

func TestCreateStudent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	student, err := f.roster.CreateStudent(ctx, "Aminah", 1)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, student.ID)
	assert.Equal(t, "Aminah", student.FullName)
	assert.Equal(t, 1, student.GroupID)

	t.Run("unknown group", func(t *testing.T) {
		_, err := f.roster.CreateStudent(ctx, "Orphan", 99)
		assert.ErrorIs(t, err, store.ErrGroupNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := f.roster.CreateStudent(ctx, "  ", 1)
		assert.Error(t, err)
	})
}

func TestUpdateStudent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Before", 1)

	updated, err := f.roster.UpdateStudent(ctx, student.ID, "After", 2)
	require.NoError(t, err)
	assert.Equal(t, "After", updated.FullName)
	assert.Equal(t, 2, updated.GroupID)

	_, err = f.roster.UpdateStudent(ctx, uuid.New(), "Ghost", 1)
	assert.ErrorIs(t, err, store.ErrStudentNotFound)

	_, err = f.roster.UpdateStudent(ctx, student.ID, "After", 99)
	assert.ErrorIs(t, err, store.ErrGroupNotFound)
}

func TestDeleteStudentCascadesPortions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Leaver", 1)

	_, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 3, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, f.roster.DeleteStudent(ctx, student.ID))

	_, err = f.roster.GetStudent(ctx, student.ID)
	assert.ErrorIs(t, err, store.ErrStudentNotFound)

	portions, err := f.portions.FindByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, portions)

	assert.ErrorIs(t, f.roster.DeleteStudent(ctx, student.ID), store.ErrStudentNotFound)
}

func TestListStudents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "Aisha Rahman", 1)
	f.enroll(t, "Bilal Khan", 1)
	f.enroll(t, "Aisha Malik", 2)

	all, err := f.roster.ListStudents(ctx, store.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	groupOne := 1
	filtered, err := f.roster.ListStudents(ctx, store.StudentFilter{GroupID: &groupOne})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	searched, err := f.roster.ListStudents(ctx, store.StudentFilter{Search: "aisha"})
	require.NoError(t, err)
	assert.Len(t, searched, 2)

	both, err := f.roster.ListStudents(ctx, store.StudentFilter{GroupID: &groupOne, Search: "aisha"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Aisha Rahman", both[0].FullName)
}

func TestListGroups(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	groups, err := f.roster.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].ID)
	assert.Equal(t, 2, groups[1].ID)
}
