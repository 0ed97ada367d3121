package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sacamantecas"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sacamantecas.SkimService = (*SkimService)(nil)

// SkimService implements sacamantecas.SkimService using SQLite.
// Entries and warnings are stored as JSON arrays.
type SkimService struct {
	db *DB
}

// NewSkimService creates a new SkimService.
func NewSkimService(db *DB) *SkimService {
	return &SkimService{db: db}
}

const skimColumns = "id, uri, profile, content_hash, entries, warnings, error_code, error, created_at"

// CreateSkim records a new skim, assigning its ID and creation time.
func (s *SkimService) CreateSkim(ctx context.Context, skim *sacamantecas.Skim) error {
	if err := skim.Validate(); err != nil {
		return err
	}

	entries, err := marshalList(skim.Entries)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	warnings, err := marshalList(skim.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	skim.ID = uuid.New().String()
	skim.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO skims (`+skimColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, skim.ID, skim.URI, skim.Profile, skim.ContentHash, entries, warnings,
		skim.ErrorCode, skim.Error, skim.CreatedAt.Format(time.RFC3339))

	return err
}

// FindSkimByID retrieves a skim by ID.
func (s *SkimService) FindSkimByID(ctx context.Context, id string) (*sacamantecas.Skim, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+skimColumns+" FROM skims WHERE id = ?", id)
	skim, err := scanSkim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sacamantecas.Errorf(sacamantecas.ENOTFOUND, "skim not found")
	}
	return skim, err
}

// FindSkims retrieves skims matching the filter, newest first.
func (s *SkimService) FindSkims(ctx context.Context, filter sacamantecas.SkimFilter) ([]*sacamantecas.Skim, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + skimColumns + " FROM skims WHERE 1=1")

	if filter.URI != nil {
		query.WriteString(" AND uri = ?")
		args = append(args, *filter.URI)
	}
	if filter.Profile != nil {
		query.WriteString(" AND profile = ?")
		args = append(args, *filter.Profile)
	}
	if filter.Succeeded != nil {
		if *filter.Succeeded {
			query.WriteString(" AND error_code = ''")
		} else {
			query.WriteString(" AND error_code != ''")
		}
	}

	// rowid breaks ties between skims created within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skims []*sacamantecas.Skim
	for rows.Next() {
		skim, err := scanSkim(rows)
		if err != nil {
			return nil, err
		}
		skims = append(skims, skim)
	}

	return skims, rows.Err()
}

// SkimmedURIs returns every URI that has at least one successful skim.
func (s *SkimService) SkimmedURIs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT uri FROM skims WHERE error_code = '' ORDER BY uri")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uris []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}
	return uris, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSkim(row scanner) (*sacamantecas.Skim, error) {
	var skim sacamantecas.Skim
	var entries, warnings, createdAt string

	if err := row.Scan(&skim.ID, &skim.URI, &skim.Profile, &skim.ContentHash,
		&entries, &warnings, &skim.ErrorCode, &skim.Error, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(entries), &skim.Entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &skim.Warnings); err != nil {
		return nil, fmt.Errorf("failed to decode warnings: %w", err)
	}

	var err error
	if skim.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &skim, nil
}

// marshalList encodes a slice as a JSON array, never as null.
func marshalList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}
