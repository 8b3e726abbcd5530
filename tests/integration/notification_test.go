package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitTrackAPI/internal/notification"
	"fitTrackAPI/services"
	"fitTrackAPI/tests/helpers"
)

func TestNotificationDataRoundTrip(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userID, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewNotificationService(pool)
	ctx := context.Background()

	created, err := svc.CreateNotification(
		ctx,
		userID,
		notification.TypeAchievement,
		"New badge earned!",
		"You unlocked \"Early Riser\". Keep it up!",
		map[string]any{"badge": "Early Riser"},
	)
	require.NoError(t, err)
	assert.Equal(t, "Early Riser", created.Data["badge"])

	list, err := svc.GetNotifications(ctx, clerkID, 1, 20, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)

	// The payload must survive the jsonb column intact.
	assert.Equal(t, "Early Riser", list.Notifications[0].Data["badge"])
	assert.Equal(t, 1, list.UnreadCount)

	err = svc.MarkAsRead(ctx, created.ID, clerkID)
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
