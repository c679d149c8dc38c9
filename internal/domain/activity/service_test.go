package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestActivityService_List(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	opts := activity.ListActivityOptions{ProjID: "P-001", Limit: 10}
	repo.On("List", ctx, opts).Return([]activity.ActivityEntry{
		{ID: "a1", ProjID: "P-001", ActivityType: activity.TypeProjectCreated},
	}, nil)

	svc := activity.NewService(repo, nil)
	entries, err := svc.GetRecentActivity(ctx, opts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeProjectCreated, entries[0].ActivityType)
	repo.AssertExpectations(t)
}

func TestActivityService_ListValidation(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)

	_, err := svc.GetRecentActivity(context.Background(), activity.ListActivityOptions{Limit: -1})
	require.ErrorIs(t, err, activity.ErrInvalidInput)

	_, err = svc.GetRecentActivity(context.Background(), activity.ListActivityOptions{Limit: 10_000})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_ListWrapsRepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, activity.ListActivityOptions{}).Return(nil, errors.New("boom"))

	svc := activity.NewService(repo, nil)
	_, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{})
	require.ErrorContains(t, err, "listing activity")
}
