package database_test

import (
	"bytes"
	"testing"

	"catalogo/internal/config"
	"catalogo/internal/database"
	"catalogo/internal/logger"
	"catalogo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteSyncsSchema(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info", "json")

	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, log)
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { database.Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.Contains(t, buf.String(), "Connection has been established successfully")
}

func TestConnect_UnreachableDatabaseIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info", "json")

	// Nothing listens on port 1; the ping fails with connection refused.
	cfg := config.DatabaseConfig{
		Driver: "postgres",
		URL:    "host=127.0.0.1 port=1 user=postgres password=postgres dbname=catalogo sslmode=disable connect_timeout=1",
	}
	db, err := database.Connect(cfg, log)

	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Contains(t, buf.String(), "Unable to connect to the database")
	assert.NotContains(t, buf.String(), "established successfully")
}

func TestConnect_UnknownDriver(t *testing.T) {
	db, err := database.Connect(config.DatabaseConfig{Driver: "oracle", URL: "x"}, logger.NewWithWriter(&bytes.Buffer{}, "info", "json"))
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "unsupported database driver")
}
