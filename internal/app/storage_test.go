package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenStorageSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pto.db")

	storage, err := OpenStorage(ctx, "sqlite://"+path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer storage.Close()

	assert.Equal(t, "sqlite3", storage.Driver)

	require.NoError(t, storage.Links.Put(ctx, &model.PTOLink{
		MessageID: "1718000000.000100",
		ChannelID: "C1",
		EventID:   "evt-1",
		StartISO:  "2024-06-10",
		EndISO:    "2024-06-11",
		CreatedAt: time.Now(),
	}))

	link, err := storage.Links.Find(ctx, "1718000000.000100")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "evt-1", link.EventID)
}

func TestOpenStorageSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pto.db")
	logger := zaptest.NewLogger(t)

	storage, err := OpenStorage(ctx, path, logger)
	require.NoError(t, err)
	require.NoError(t, storage.Channels.Upsert(ctx, &model.ChannelCalendar{
		ChannelID:  "C1",
		CalendarID: "team@group",
		UpdatedAt:  time.Now(),
	}))
	storage.Close()

	reopened, err := OpenStorage(ctx, path, logger)
	require.NoError(t, err)
	defer reopened.Close()

	mapping, err := reopened.Channels.Get(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, "team@group", mapping.CalendarID)
}

func TestOpenStorageRelocatesCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "pto.db")

	garbage := bytes.Repeat([]byte("this is not a sqlite database "), 200)
	require.NoError(t, os.WriteFile(path, garbage, 0o600))

	storage, err := OpenStorage(ctx, "sqlite://"+path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer storage.Close()

	moved, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, moved, 1)

	content, err := os.ReadFile(moved[0])
	require.NoError(t, err)
	assert.Equal(t, garbage, content)

	link, err := storage.Links.Find(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestRelocateCorruptMovesWALFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pto.db")
	for _, name := range []string{path, path + "-wal"} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o600))
	}

	now := time.Date(2024, 6, 10, 12, 30, 0, 0, time.UTC)
	target, err := relocateCorrupt(path, now)
	require.NoError(t, err)

	assert.Equal(t, path+".corrupt-20240610T123000Z", target)
	assert.FileExists(t, target)
	assert.FileExists(t, target+"-wal")
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+"-wal")
}
