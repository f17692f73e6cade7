package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nekomata/guildpoints/config"
	dbadapter "github.com/nekomata/guildpoints/db"
	"github.com/nekomata/guildpoints/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory SQLite DB and runs AutoMigrate.
// Each call gets a uniquely named shared-cache database, so tests stay
// isolated even though gorm pools connections.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: dsn,
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}
