package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
)

func TestSyncProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	principal := &shared.Principal{Subject: "auth0|42", Email: "ana@example.com", DisplayName: "Ana"}

	t.Run("first contact registers a client", func(t *testing.T) {
		user, err := env.users.SyncProfile(ctx, principal, inbound.SyncProfileRequest{})
		require.NoError(t, err)
		assert.Equal(t, shared.RoleClient, user.Role)
		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("later calls update the same record", func(t *testing.T) {
		before, err := env.users.GetProfile(ctx, principal)
		require.NoError(t, err)

		after, err := env.users.SyncProfile(ctx, principal, inbound.SyncProfileRequest{
			Role:      shared.RoleHandyman,
			Name:      "  Ana Maria ",
			PushToken: "device-1",
			Location:  &shared.Location{Lat: 4.65, Lng: -74.05},
		})
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, shared.RoleHandyman, after.Role)
		assert.Equal(t, "Ana Maria", after.Name)
		assert.Equal(t, "device-1", after.PushToken)
		require.NotNil(t, after.Location)
	})

	t.Run("omitted fields are kept", func(t *testing.T) {
		user, err := env.users.SyncProfile(ctx, principal, inbound.SyncProfileRequest{})
		require.NoError(t, err)
		assert.Equal(t, shared.RoleHandyman, user.Role)
		assert.Equal(t, "device-1", user.PushToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := env.users.SyncProfile(ctx, principal, inbound.SyncProfileRequest{Role: "admin"})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("missing principal", func(t *testing.T) {
		_, err := env.users.SyncProfile(ctx, nil, inbound.SyncProfileRequest{})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}

func TestGetProfileUnknownSubject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.GetProfile(context.Background(), &shared.Principal{Subject: "nobody"})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestNotificationInbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, ownerUser := env.seedUser(t, shared.RoleClient)
	stranger, _ := env.seedUser(t, shared.RoleClient)

	first := notification.New(ownerUser.ID, notification.TypeSystem, "Welcome", "hello", nil, env.clock.Now())
	second := notification.New(ownerUser.ID, notification.TypeSystem, "Reminder", "again", nil, env.clock.Now())
	require.NoError(t, env.repos.Notifications.Append(ctx, first, second))

	all, err := env.users.ListNotifications(ctx, owner, false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := env.users.ListNotifications(ctx, owner, false, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	err = env.users.MarkNotificationRead(ctx, stranger, first.ID)
	assert.ErrorIs(t, err, shared.ErrNotOwner)

	require.NoError(t, env.users.MarkNotificationRead(ctx, owner, first.ID))

	unread, err := env.users.ListNotifications(ctx, owner, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	err = env.users.MarkNotificationRead(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
