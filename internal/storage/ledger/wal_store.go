// Package ledger persists the append-only balance history. Rows are never
// updated or deleted; history is a pure log.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
)

const (
	historySegmentLimit = 1000
	historyMaxSegments  = 100
	historyKeyPrefix    = "balance_row_"
)

// HashIdentifier one-way hashes raw identifying material (API keys, wallet
// addresses) to the first 16 hex chars of its SHA-256. Used only for
// correlating rows, never reversible.
func HashIdentifier(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// WALStore is the append-only balance history backed by a WAL. Opening an
// existing directory is idempotent.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes the history store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "history_",
		SegmentThreshold: historySegmentLimit,
		MaxSegments:      historyMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init balance history WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one history row. CreatedAt is stamped at write time.
func (s *WALStore) Append(row domain.LedgerRow) error {
	if s == nil || s.wal == nil {
		return errors.New("balance history store is not initialized")
	}
	if row.SourceKind == "" {
		return errors.New("ledger row source kind is required")
	}

	row.CreatedAt = time.Now()

	payload, err := json.Marshal(row)
	if err != nil {
		return errors.Wrap(err, "marshal ledger row")
	}

	key := historyKeyPrefix + row.SourceKind

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// Rows returns every history row in insertion order.
func (s *WALStore) Rows() ([]domain.LedgerRow, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("balance history store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []domain.LedgerRow
	for msg := range s.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, historyKeyPrefix) {
			continue
		}
		var row domain.LedgerRow
		if err := json.Unmarshal(msg.Value, &row); err != nil {
			return nil, errors.Wrap(err, "decode ledger row")
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("balance history store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
