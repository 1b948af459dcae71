// Package storage provides the local submission journal.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
)

// Supported journal backends.
const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"
)

// Receipt is a journaled submission outcome.
type Receipt struct {
	ID        string                 `json:"id"`
	Event     domain.SubmissionEvent `json:"event"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Store records submission outcomes for audit. Nothing in the wallet client reads it
// back, so journal contents never influence a rendered result.
type Store interface {
	Close() error
	Record(evt domain.SubmissionEvent) (Receipt, error)
	Recent(limit int) ([]Receipt, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ReceiptTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultReceiptTTL      = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ReceiptTTL <= 0 {
		opts.ReceiptTTL = defaultReceiptTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore accepts every event and remembers none of them.
type noopStore struct{}

func (noopStore) Close() error                  { return nil }
func (noopStore) Recent(int) ([]Receipt, error) { return nil, nil }

func (noopStore) Record(evt domain.SubmissionEvent) (Receipt, error) {
	return Receipt{Event: evt}, nil
}
