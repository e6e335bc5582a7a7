package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHistoryService_AppendAndList(t *testing.T) {
	db := setupTestDB(t)
	service := NewSecurityHistoryService(db)

	_, err := service.Append(1, "login", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = service.Append(1, "2fa_enabled", "via settings page")
	require.NoError(t, err)
	_, err = service.Append(2, "login", "")
	require.NoError(t, err)

	events, err := service.List(1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Newest first.
	assert.Equal(t, "2fa_enabled", events[0].Action)
	assert.Equal(t, "via settings page", events[0].Details)
	assert.Equal(t, "login", events[1].Action)
}

func TestSecurityHistoryService_MissingAction(t *testing.T) {
	db := setupTestDB(t)
	service := NewSecurityHistoryService(db)

	_, err := service.Append(1, "", "details without action")
	assert.ErrorIs(t, err, ErrMissingAction)
}
