package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curtail/internal/database"
)

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "curtail.db")
	t.Setenv("CURTAILING_DB_URL", dbPath)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	require.NoError(t, cmd.Execute())

	db, err := database.Connect(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	count, err := db.CountLinks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMigrateCommand_BadConfig(t *testing.T) {
	t.Setenv("CURTAILING_LISTEN_ON", "nowhere")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	assert.ErrorContains(t, cmd.Execute(), "config error")
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	t.Setenv("CURTAILING_LISTEN_ON", "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(300*time.Millisecond, cancel)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve"})
	assert.NoError(t, cmd.ExecuteContext(ctx))
}
