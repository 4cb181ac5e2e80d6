package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

var jdlIDPattern = regexp.MustCompile(`^JDL\d{6}$`)

// masterEntry keeps the validated record together with its source line so
// skip/update logs can point back into the CSV.
type masterEntry struct {
	record models.MasterRecord
	line   int
}

// MasterSyncService reconciles the external JDL master snapshot against the
// players collection. Existing players are updated when the master row is
// newer than the stored watermark; players are never created or deleted here.
type MasterSyncService struct {
	store  repositories.PlayerSyncStore
	logger *slog.Logger
}

func NewMasterSyncService(store repositories.PlayerSyncStore, logger *slog.Logger) *MasterSyncService {
	return &MasterSyncService{store: store, logger: logger}
}

// SyncFromCSV runs one full sync pass: parse and validate the snapshot, load
// the current players, reconcile per jdl_id and commit one atomic batch.
//
// Row-level problems never abort the run; they are accumulated into the
// returned error list and the row is skipped. Only three conditions are fatal:
// an unreadable snapshot, a store read failure and a batch commit failure. A
// failed commit reports zero updates no matter how many were staged.
func (s *MasterSyncService) SyncFromCSV(ctx context.Context, csvPath string) (updated int, skipped int, errs []string) {
	errs = []string{}

	master, skipped, errs, fatal := s.parseSnapshot(csvPath, errs)
	if fatal {
		return 0, skipped, errs
	}

	if len(master) == 0 {
		if len(errs) == 0 {
			s.logger.Warn("no valid data rows in CSV file", slog.String("path", csvPath))
		}
		return 0, skipped, errs
	}

	existing, err := s.loadExisting(ctx)
	if err != nil {
		msg := fmt.Sprintf("failed to load players from store: %v", err)
		s.logger.Error(msg)
		errs = append(errs, msg)
		return 0, skipped, errs
	}

	batch := s.store.NewBatch()
	syncTime := time.Now().UTC()

	for jdlID, entry := range master {
		doc, ok := existing[jdlID]
		if !ok {
			s.logger.Warn(fmt.Sprintf("CSV L%d: JDL ID %s does not exist in the system, skipping", entry.line, jdlID))
			skipped++
			continue
		}

		if !s.shouldUpdate(jdlID, doc.LastSyncedFromMaster, entry.record.LastUpdated) {
			s.logger.Info(fmt.Sprintf("CSV L%d: JDL ID %s is already up to date, skipping", entry.line, jdlID))
			skipped++
			continue
		}

		batch.Update(doc.ID, repositories.PlayerSyncFields{
			Name:                 entry.record.Name,
			ParticipationCount:   entry.record.ParticipationCount,
			CurrentClass:         entry.record.CurrentClass,
			LastSyncedFromMaster: entry.record.LastUpdated,
			UpdatedAt:            syncTime,
		})
		updated++
		s.logger.Info(fmt.Sprintf("CSV L%d: JDL ID %s staged for update", entry.line, jdlID))
	}

	if batch.Len() > 0 {
		if err := batch.Commit(ctx); err != nil {
			msg := fmt.Sprintf("batch write to store failed: %v", err)
			s.logger.Error(msg)
			errs = append(errs, msg)
			// Nothing was applied; a staged update is not an applied one.
			updated = 0
		} else {
			s.logger.Info("batch write completed", slog.Int("updated_players", updated))
		}
	} else {
		s.logger.Info("no players to update")
	}

	return updated, skipped, errs
}

// parseSnapshot reads and validates every data row. It returns the validated
// records keyed by jdl_id, the running skipped count and error list, and
// whether the failure was fatal to the run (snapshot unreadable).
func (s *MasterSyncService) parseSnapshot(csvPath string, errs []string) (map[string]masterEntry, int, []string, bool) {
	skipped := 0
	master := make(map[string]masterEntry)

	file, err := os.Open(csvPath)
	if err != nil {
		var msg string
		if errors.Is(err, os.ErrNotExist) {
			msg = fmt.Sprintf("CSV file not found: %s", csvPath)
		} else {
			msg = fmt.Sprintf("failed to open CSV file %s: %v", csvPath, err)
		}
		s.logger.Error(msg)
		return nil, 0, append(errs, msg), true
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		msg := fmt.Sprintf("failed to read CSV header from %s: %v", csvPath, err)
		s.logger.Error(msg)
		return nil, 0, append(errs, msg), true
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	field := func(rec []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			msg := fmt.Sprintf("CSV L%d: row parse error - %v", line, err)
			s.logger.Error(msg)
			errs = append(errs, msg)
			skipped++
			continue
		}

		record, err := validateRow(
			field(rec, "jdl_id"),
			field(rec, "player_name"),
			field(rec, "participation_count"),
			field(rec, "current_class"),
			field(rec, "last_updated"),
		)
		if err != nil {
			msg := fmt.Sprintf("CSV L%d: validation error - %v", line, err)
			s.logger.Error(msg)
			errs = append(errs, msg)
			skipped++
			continue
		}

		master[record.JDLID] = masterEntry{record: record, line: line}
	}

	return master, skipped, errs, false
}

// validateRow applies the row checks in a fixed order so a row with several
// problems reports a deterministic one.
func validateRow(jdlID, name, count, class, lastUpdated string) (models.MasterRecord, error) {
	if !jdlIDPattern.MatchString(jdlID) {
		return models.MasterRecord{}, fmt.Errorf("jdl_id must be \"JDL\" followed by exactly 6 digits, got %q", jdlID)
	}
	if name == "" {
		return models.MasterRecord{}, fmt.Errorf("player_name is required")
	}
	if !models.IsValidClass(class) {
		return models.MasterRecord{}, fmt.Errorf("current_class must be one of A, B, C, D, E, got %q", class)
	}
	participation, err := strconv.Atoi(count)
	if err != nil {
		return models.MasterRecord{}, fmt.Errorf("participation_count must be a non-negative integer, got %q", count)
	}
	if participation < 0 {
		return models.MasterRecord{}, fmt.Errorf("participation_count must not be negative, got %d", participation)
	}
	if lastUpdated == "" {
		return models.MasterRecord{}, fmt.Errorf("last_updated field is missing")
	}
	parsed, err := models.ParseMasterTime(lastUpdated)
	if err != nil {
		return models.MasterRecord{}, err
	}

	return models.MasterRecord{
		JDLID:              jdlID,
		Name:               name,
		ParticipationCount: participation,
		CurrentClass:       class,
		LastUpdated:        parsed,
	}, nil
}

// loadExisting builds the comparison baseline keyed by jdl_id. Documents
// without a jdl_id cannot be matched and are skipped with a warning.
func (s *MasterSyncService) loadExisting(ctx context.Context) (map[string]repositories.PlayerSyncDoc, error) {
	docs, err := s.store.StreamAll(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]repositories.PlayerSyncDoc, len(docs))
	for _, doc := range docs {
		if doc.JDLID == "" {
			s.logger.Warn("player document has no jdl_id, skipping", slog.String("doc_id", doc.ID))
			continue
		}
		existing[doc.JDLID] = doc
	}
	return existing, nil
}

// shouldUpdate decides whether the master row wins over the stored watermark.
//
// The three-way policy: an absent watermark always loses; timestamps with
// matching offset tags compare directly and the master wins only when
// strictly newer; mismatched tags (one aware, one naive) cannot be compared
// safely, so the master wins with a warning rather than hiding a potentially
// real change behind a silent skip.
func (s *MasterSyncService) shouldUpdate(jdlID string, stored *models.MasterTime, master models.MasterTime) bool {
	if stored == nil {
		return true
	}

	if stored.HasOffset == master.HasOffset {
		return master.After(*stored)
	}

	s.logger.Warn(fmt.Sprintf(
		"JDL ID %s: offset information mismatch between master (%v) and stored watermark (%v), forcing update",
		jdlID, master.HasOffset, stored.HasOffset))
	return true
}
