package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

const syncCSVHeader = "jdl_id,player_name,participation_count,current_class,last_updated\n"

type fakeSyncBatch struct {
	updates   map[string]repositories.PlayerSyncFields
	commitErr error
	committed bool
}

func (b *fakeSyncBatch) Update(docID string, fields repositories.PlayerSyncFields) {
	b.updates[docID] = fields
}

func (b *fakeSyncBatch) Len() int { return len(b.updates) }

func (b *fakeSyncBatch) Commit(ctx context.Context) error {
	b.committed = true
	return b.commitErr
}

type fakeSyncStore struct {
	docs        []repositories.PlayerSyncDoc
	streamErr   error
	streamCalls int
	batch       *fakeSyncBatch
}

func (s *fakeSyncStore) StreamAll(ctx context.Context) ([]repositories.PlayerSyncDoc, error) {
	s.streamCalls++
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return s.docs, nil
}

func (s *fakeSyncStore) NewBatch() repositories.PlayerSyncBatch { return s.batch }

func newFakeSyncStore(docs ...repositories.PlayerSyncDoc) *fakeSyncStore {
	return &fakeSyncStore{
		docs:  docs,
		batch: &fakeSyncBatch{updates: map[string]repositories.PlayerSyncFields{}},
	}
}

func newTestSyncService(store repositories.PlayerSyncStore) *MasterSyncService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMasterSyncService(store, logger)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustMasterTime(t *testing.T, value string) *models.MasterTime {
	t.Helper()
	mt, err := models.ParseMasterTime(value)
	require.NoError(t, err)
	return &mt
}

func TestSyncFromCSV_MixedUpdatesAndSkips(t *testing.T) {
	store := newFakeSyncStore(
		// Снимок новее хранимой отметки: обновляется.
		repositories.PlayerSyncDoc{
			ID:                   "65f000000000000000000001",
			JDLID:                "JDL000001",
			LastSyncedFromMaster: mustMasterTime(t, "2024-01-01T00:00:00Z"),
		},
		// Снимок старше: пропускается.
		repositories.PlayerSyncDoc{
			ID:                   "65f000000000000000000002",
			JDLID:                "JDL000002",
			LastSyncedFromMaster: mustMasterTime(t, "2025-01-01T00:00:00Z"),
		},
		// Отметки ещё нет: обновляется безусловно.
		repositories.PlayerSyncDoc{
			ID:    "65f000000000000000000003",
			JDLID: "JDL000003",
		},
	)
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n"+
		"JDL000002,Suzuki,3,C,2024-06-01T00:00:00Z\n"+
		"JDL000003,Watanabe,1,E,2024-06-01T00:00:00Z\n"+
		"JDL000099,Ghost,0,A,2024-06-01T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, skipped)
	assert.Empty(t, errs)
	assert.True(t, store.batch.committed)

	require.Contains(t, store.batch.updates, "65f000000000000000000001")
	staged := store.batch.updates["65f000000000000000000001"]
	assert.Equal(t, "Tanaka", staged.Name)
	assert.Equal(t, 5, staged.ParticipationCount)
	assert.Equal(t, "B", staged.CurrentClass)
	assert.True(t, staged.LastSyncedFromMaster.HasOffset)

	assert.Contains(t, store.batch.updates, "65f000000000000000000003")
	assert.NotContains(t, store.batch.updates, "65f000000000000000000002")
}

func TestSyncFromCSV_RowValidationErrors(t *testing.T) {
	store := newFakeSyncStore(repositories.PlayerSyncDoc{
		ID:    "65f000000000000000000001",
		JDLID: "JDL000001",
	})
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n"+ // L2: валидная
		"BAD123,Suzuki,3,C,2024-06-01T00:00:00Z\n"+ // L3: формат jdl_id
		"JDL000003,,3,C,2024-06-01T00:00:00Z\n"+ // L4: пустое имя
		"JDL000004,Sato,3,F,2024-06-01T00:00:00Z\n"+ // L5: класс
		"JDL000005,Kato,-1,C,2024-06-01T00:00:00Z\n"+ // L6: отрицательный счётчик
		"JDL000006,Mori,many,C,2024-06-01T00:00:00Z\n"+ // L7: не число
		"JDL000007,Hara,3,C,tomorrow\n") // L8: метка времени

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 1, updated)
	assert.Equal(t, 6, skipped)
	require.Len(t, errs, 6)
	for i, line := range []string{"L3", "L4", "L5", "L6", "L7", "L8"} {
		assert.Contains(t, errs[i], "CSV "+line+": validation error")
	}
}

func TestSyncFromCSV_FileNotFound(t *testing.T) {
	store := newFakeSyncStore()
	path := filepath.Join(t.TempDir(), "missing.csv")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), path)

	assert.Equal(t, 0, updated)
	assert.Equal(t, 0, skipped)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "CSV file not found")
	assert.Zero(t, store.streamCalls, "store must not be touched when the snapshot is unreadable")
	assert.False(t, store.batch.committed)
}

func TestSyncFromCSV_EmptyCSV(t *testing.T) {
	store := newFakeSyncStore()
	csvPath := writeCSV(t, syncCSVHeader)

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 0, updated)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, errs)
	assert.Zero(t, store.streamCalls)
}

func TestSyncFromCSV_StoreReadError(t *testing.T) {
	store := newFakeSyncStore()
	store.streamErr = errors.New("connection reset")
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 0, updated)
	assert.Equal(t, 0, skipped)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "failed to load players from store")
	assert.False(t, store.batch.committed)
}

func TestSyncFromCSV_CommitFailureReportsZeroUpdates(t *testing.T) {
	store := newFakeSyncStore(repositories.PlayerSyncDoc{
		ID:    "65f000000000000000000001",
		JDLID: "JDL000001",
	})
	store.batch.commitErr = errors.New("transaction aborted")
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 0, updated, "a failed commit applied nothing")
	assert.Equal(t, 0, skipped)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "batch write to store failed")
	assert.True(t, store.batch.committed)
}

func TestSyncFromCSV_EqualTimestampSkips(t *testing.T) {
	store := newFakeSyncStore(repositories.PlayerSyncDoc{
		ID:                   "65f000000000000000000001",
		JDLID:                "JDL000001",
		LastSyncedFromMaster: mustMasterTime(t, "2024-06-01T00:00:00Z"),
	})
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 0, updated, "equal timestamps are not strictly newer")
	assert.Equal(t, 1, skipped)
	assert.Empty(t, errs)
}

func TestSyncFromCSV_OffsetMismatchForcesUpdate(t *testing.T) {
	// Хранимая наивная отметка «новее» по числам, но сравнение с aware-меткой
	// небезопасно: строка из мастера побеждает принудительно.
	store := newFakeSyncStore(repositories.PlayerSyncDoc{
		ID:                   "65f000000000000000000001",
		JDLID:                "JDL000001",
		LastSyncedFromMaster: mustMasterTime(t, "2025-12-31T00:00:00"),
	})
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 1, updated)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, errs)
}

func TestSyncFromCSV_DuplicateJDLIDLastRowWins(t *testing.T) {
	store := newFakeSyncStore(repositories.PlayerSyncDoc{
		ID:    "65f000000000000000000001",
		JDLID: "JDL000001",
	})
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000001,First,1,B,2024-06-01T00:00:00Z\n"+
		"JDL000001,Second,2,C,2024-06-02T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 1, updated)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, errs)

	staged := store.batch.updates["65f000000000000000000001"]
	assert.Equal(t, "Second", staged.Name)
	assert.Equal(t, 2, staged.ParticipationCount)
	assert.Equal(t, "C", staged.CurrentClass)
}

func TestSyncFromCSV_RowParseErrorIsRowScoped(t *testing.T) {
	store := newFakeSyncStore(repositories.PlayerSyncDoc{
		ID:    "65f000000000000000000001",
		JDLID: "JDL000001",
	})
	// L2 содержит лишнее поле, L3 валидна.
	csvPath := writeCSV(t, syncCSVHeader+
		"JDL000009,Broken,1,B,2024-06-01T00:00:00Z,extra\n"+
		"JDL000001,Tanaka,5,B,2024-06-01T00:00:00Z\n")

	updated, skipped, errs := newTestSyncService(store).SyncFromCSV(context.Background(), csvPath)

	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, skipped)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "CSV L2")
}
