package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tmbbs/tmbbs/models"
)

func TestDuplicateUsernameOrEmailRejected(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")

	// The unique indexes are the enforcement mechanism behind the
	// ErrDuplicatedKey branches in registration and profile edit; a
	// concurrent duplicate must fail at the schema, not just a pre-check.
	dupName := models.User{Username: "alice", Email: "other@example.com", Role: models.RoleMember}
	require.ErrorIs(t, db.Create(&dupName).Error, gorm.ErrDuplicatedKey)

	dupEmail := models.User{Username: "alice2", Email: "alice@example.com", Role: models.RoleMember}
	require.ErrorIs(t, db.Create(&dupEmail).Error, gorm.ErrDuplicatedKey)

	renamed := seedUser(t, db, "bob")
	err := db.Model(&renamed).Update("username", "alice").Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
