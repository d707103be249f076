package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserListAndSetRole(t *testing.T) {
	db := testutil.OpenDB(t)
	users := NewUserService(db)

	jane := testutil.CreateUser(t, db, "jane@example.com", models.RoleUser)
	testutil.CreateUser(t, db, "john@example.com", models.RoleUser)
	testutil.CreateUser(t, db, "mod@example.com", models.RoleModerator)

	found, total, err := users.List("JANE", "", database.NewPage(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, jane.ID, found[0].ID)

	require.NoError(t, db.Model(jane).Update("username", "quality_lead").Error)
	found, total, err = users.List("Quality_", "", database.NewPage(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, jane.ID, found[0].ID)

	_, total, err = users.List("", models.RoleModerator, database.NewPage(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	promoted, err := users.SetRole(jane.ID.String(), models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, promoted.Role)

	byEmail, err := users.SetRole("JOHN@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, byEmail.Role)

	_, err = users.SetRole("nobody@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.SetRole(jane.ID.String(), "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
