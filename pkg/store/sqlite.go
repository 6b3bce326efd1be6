// Copyright 2026 Lotdrop
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store persists auctions, lots, attachments, and sequence records.
// Record data lives in SQLite; blob bytes are written through an afero
// filesystem next to the database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	"github.com/lotdrop/lotdrop/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS auctions (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS lots (
	id         TEXT PRIMARY KEY,
	auction_id TEXT NOT NULL REFERENCES auctions(id),
	lot_key    TEXT NOT NULL,
	title      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (auction_id, lot_key)
);
CREATE TABLE IF NOT EXISTS attachments (
	id           TEXT PRIMARY KEY,
	auction_id   TEXT NOT NULL REFERENCES auctions(id),
	owner_kind   TEXT NOT NULL,
	lot_id       TEXT REFERENCES lots(id),
	category     TEXT NOT NULL,
	filename     TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size         INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS sequence_records (
	attachment_id TEXT PRIMARY KEY REFERENCES attachments(id),
	value         INTEGER NOT NULL
);
`

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the SQLite-backed implementation of the LotDirectory,
// StorageSink, and OrderingQuery collaborators.
type Store struct {
	db      *sql.DB
	fs      afero.Fs
	blobDir string
}

// Open opens (creating when necessary) the database at dbPath and prepares
// the blob directory. The caller owns the returned Store and must Close it.
func Open(fs afero.Fs, dbPath, blobDir string) (*Store, error) {
	if err := fs.MkdirAll(blobDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory %s: %w", blobDir, err)
	}
	if err := fs.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db, fs: fs, blobDir: blobDir}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateAuction inserts a new auction and returns it.
func (s *Store) CreateAuction(ctx context.Context, title string) (*domain.Auction, error) {
	auction := &domain.Auction{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO auctions (id, title, created_at) VALUES (?, ?, ?)",
		auction.ID, auction.Title, auction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting auction: %w", err)
	}
	return auction, nil
}

// GetAuction fetches one auction by ID.
func (s *Store) GetAuction(ctx context.Context, id string) (*domain.Auction, error) {
	auction := &domain.Auction{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, created_at FROM auctions WHERE id = ?", id).
		Scan(&auction.ID, &auction.Title, &auction.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying auction %s: %w", id, err)
	}
	return auction, nil
}

// CreateLot inserts a new lot under an auction. The key must be unique
// within the auction.
func (s *Store) CreateLot(ctx context.Context, auctionID, key, title string) (*domain.Lot, error) {
	lot := &domain.Lot{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		Key:       key,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lots (id, auction_id, lot_key, title, created_at) VALUES (?, ?, ?, ?, ?)",
		lot.ID, lot.AuctionID, lot.Key, lot.Title, lot.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting lot %q: %w", key, err)
	}
	return lot, nil
}

// ListLots returns an auction's lots ordered by key.
func (s *Store) ListLots(ctx context.Context, auctionID string) ([]*domain.Lot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, auction_id, lot_key, title, created_at FROM lots WHERE auction_id = ? ORDER BY lot_key",
		auctionID)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	defer rows.Close()

	var lots []*domain.Lot
	for rows.Next() {
		lot := &domain.Lot{}
		if err := rows.Scan(&lot.ID, &lot.AuctionID, &lot.Key, &lot.Title, &lot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning lot: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// LookupLot resolves a lot key within an auction. Matching is exact and
// case-sensitive; a miss returns (nil, nil).
func (s *Store) LookupLot(ctx context.Context, auctionID, key string) (*domain.Lot, error) {
	lot := &domain.Lot{}
	err := s.db.QueryRowContext(ctx,
		// BINARY collation keeps the match case-sensitive regardless of
		// column collation.
		"SELECT id, auction_id, lot_key, title, created_at FROM lots WHERE auction_id = ? AND lot_key = ? COLLATE BINARY",
		auctionID, key).
		Scan(&lot.ID, &lot.AuctionID, &lot.Key, &lot.Title, &lot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up lot %q: %w", key, err)
	}
	return lot, nil
}

// Attach executes one attach instruction: the attachment row, the optional
// sequence record, and the blob bytes are persisted as one unit. A failure
// rolls everything for this file back and leaves other files untouched.
func (s *Store) Attach(ctx context.Context, auctionID string, instr *domain.AttachInstruction, content []byte) (*domain.Attachment, error) {
	attachment := &domain.Attachment{
		ID:          uuid.NewString(),
		AuctionID:   auctionID,
		OwnerKind:   instr.OwnerKind,
		LotID:       instr.LotID,
		Category:    instr.Category,
		Filename:    instr.StoredFilename,
		ContentType: instr.ContentType,
		Size:        int64(len(content)),
		Sequence:    instr.Sequence,
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var lotID sql.NullString
	if instr.LotID != "" {
		lotID = sql.NullString{String: instr.LotID, Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO attachments (id, auction_id, owner_kind, lot_id, category, filename, content_type, size, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		attachment.ID, attachment.AuctionID, attachment.OwnerKind, lotID,
		attachment.Category, attachment.Filename, attachment.ContentType,
		attachment.Size, attachment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting attachment: %w", err)
	}

	if instr.Sequence != nil {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO sequence_records (attachment_id, value) VALUES (?, ?)",
			attachment.ID, *instr.Sequence)
		if err != nil {
			return nil, fmt.Errorf("inserting sequence record: %w", err)
		}
	}

	blobPath := s.blobPath(attachment.ID)
	if err := afero.WriteFile(s.fs, blobPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("writing blob %s: %w", blobPath, err)
	}

	if err := tx.Commit(); err != nil {
		// Do not leave an orphaned blob behind.
		_ = s.fs.Remove(blobPath)
		return nil, fmt.Errorf("committing attachment: %w", err)
	}
	return attachment, nil
}

// GetAttachment fetches one attachment by ID, including its sequence value
// when present.
func (s *Store) GetAttachment(ctx context.Context, id string) (*domain.Attachment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.auction_id, a.owner_kind, a.lot_id, a.category,
		       a.filename, a.content_type, a.size, s.value, a.created_at
		FROM attachments a
		LEFT JOIN sequence_records s ON s.attachment_id = a.id
		WHERE a.id = ?`, id)
	attachment, err := scanAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return attachment, err
}

// LotPictures returns a lot's picture attachments sorted ascending by the
// numeric sequence value. Attachments without a sequence record sort after
// all attachments that have one. Ties break on creation time then ID, so
// repeated queries return the same order.
func (s *Store) LotPictures(ctx context.Context, lotID string) ([]*domain.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.auction_id, a.owner_kind, a.lot_id, a.category,
		       a.filename, a.content_type, a.size, s.value, a.created_at
		FROM attachments a
		LEFT JOIN sequence_records s ON s.attachment_id = a.id
		WHERE a.lot_id = ? AND a.category = ?
		ORDER BY s.value IS NULL, s.value, a.created_at, a.id`,
		lotID, domain.CategoryPictures)
	if err != nil {
		return nil, fmt.Errorf("querying lot pictures: %w", err)
	}
	defer rows.Close()

	var attachments []*domain.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

// OpenBlob opens the stored bytes of an attachment for reading.
func (s *Store) OpenBlob(id string) (io.ReadCloser, error) {
	file, err := s.fs.Open(s.blobPath(id))
	if err != nil {
		return nil, fmt.Errorf("opening blob %s: %w", id, err)
	}
	return file, nil
}

func (s *Store) blobPath(id string) string {
	return filepath.Join(s.blobDir, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttachment(row rowScanner) (*domain.Attachment, error) {
	attachment := &domain.Attachment{}
	var lotID sql.NullString
	var sequence sql.NullInt64
	err := row.Scan(&attachment.ID, &attachment.AuctionID, &attachment.OwnerKind,
		&lotID, &attachment.Category, &attachment.Filename,
		&attachment.ContentType, &attachment.Size, &sequence, &attachment.CreatedAt)
	if err != nil {
		return nil, err
	}
	attachment.LotID = lotID.String
	if sequence.Valid {
		value := int(sequence.Int64)
		attachment.Sequence = &value
	}
	return attachment, nil
}
