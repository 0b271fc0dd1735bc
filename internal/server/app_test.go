package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/blob"
	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/config"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = "127.0.0.1:0"
	c.StoreDriver = config.StoreMemory
	c.BlobDriver = config.BlobMemory
	return c
}

func TestOpenStore_Drivers(t *testing.T) {
	ctx := context.Background()

	c := testConfig(t)
	s, err := openStore(ctx, c)
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	c.StoreDriver = config.StoreSQLite
	c.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "lifelog.db")
	s, err = openStore(ctx, c)
	require.NoError(t, err)
	defer s.Close(ctx)
	_, err = s.Collection("journal_entries").Find(ctx, store.Query{})
	assert.NoError(t, err, "migrations created the tables")

	c.StoreDriver = "cassandra"
	_, err = openStore(ctx, c)
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestOpenBlobs_Drivers(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	b, err := openBlobs(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, blob.DriverMemory, b.Driver())

	c.BlobDriver = config.BlobFS
	c.UploadDir = t.TempDir()
	b, err = openBlobs(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, blob.DriverFilesystem, b.Driver())

	c.BlobDriver = "tape"
	_, err = openBlobs(ctx, c)
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	ctx := context.Background()
	app, err := newApp(ctx, testConfig(t), logging.Discard())
	require.NoError(t, err)

	_, err = app.services.Users.Register(ctx, "alice", "pw", "")
	require.NoError(t, err)
	owner, err := app.services.Identity.Resolve(ctx, "alice")
	require.NoError(t, err)
	_, err = app.services.Journal.Create(ctx, owner, &models.JournalEntry{Content: "hi", Mood: models.MoodCalm})
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		app.Run(runCtx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestNewApp_BadLogLevel(t *testing.T) {
	c := testConfig(t)
	c.LogLevel = "loud"
	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}
