package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_List(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := projects.Upsert(ctx, newProject("P-001", now), newEntry("P-001"))
	require.NoError(t, err)

	second := newEntry("P-001")
	second.CreatedAt = now.Add(time.Second)
	_, err = projects.Upsert(ctx, newProject("P-001", now.Add(time.Second)), second)
	require.NoError(t, err)

	_, err = projects.Upsert(ctx, newProject("P-002", now), newEntry("P-002"))
	require.NoError(t, err)

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjID: "P-001"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeProjectUpdated, entries[0].ActivityType)
	require.Equal(t, activity.TypeProjectCreated, entries[1].ActivityType)
	require.Equal(t, "report.xlsx", entries[0].Source)

	created := activity.TypeProjectCreated
	entries, err = repo.List(ctx, activity.ListActivityOptions{ActivityType: &created})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityRepository_DetailsAndUser(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	entry := newEntry("P-001")
	entry.Details = `{"warnings":["row 11: division_by_zero"]}`
	_, err := projects.Upsert(ctx, newProject("P-001", time.Now().UTC()), entry)
	require.NoError(t, err)

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjID: "P-001"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, entry.Details, entries[0].Details)
	require.Nil(t, entries[0].UserID)
	require.Equal(t, entry.ID, entries[0].ID)
}
