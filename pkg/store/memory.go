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

package store

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lotdrop/lotdrop/pkg/domain"
)

// Memory is an in-memory counterpart of Store, implementing the same
// collaborator interfaces. It backs unit tests and ephemeral setups.
type Memory struct {
	mu          sync.RWMutex
	auctions    map[string]*domain.Auction
	lots        map[string]*domain.Lot
	attachments map[string]*domain.Attachment
	blobs       map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		auctions:    make(map[string]*domain.Auction),
		lots:        make(map[string]*domain.Lot),
		attachments: make(map[string]*domain.Attachment),
		blobs:       make(map[string][]byte),
	}
}

// CreateAuction inserts a new auction and returns it.
func (m *Memory) CreateAuction(_ context.Context, title string) (*domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	auction := &domain.Auction{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	m.auctions[auction.ID] = auction
	return auction, nil
}

// GetAuction fetches one auction by ID.
func (m *Memory) GetAuction(_ context.Context, id string) (*domain.Auction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	auction, ok := m.auctions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return auction, nil
}

// CreateLot inserts a new lot under an auction.
func (m *Memory) CreateLot(_ context.Context, auctionID, key, title string) (*domain.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lot := &domain.Lot{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		Key:       key,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	m.lots[lot.ID] = lot
	return lot, nil
}

// ListLots returns an auction's lots ordered by key.
func (m *Memory) ListLots(_ context.Context, auctionID string) ([]*domain.Lot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lots []*domain.Lot
	for _, lot := range m.lots {
		if lot.AuctionID == auctionID {
			lots = append(lots, lot)
		}
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].Key < lots[j].Key })
	return lots, nil
}

// LookupLot resolves a lot key within an auction, exact match only.
func (m *Memory) LookupLot(_ context.Context, auctionID, key string) (*domain.Lot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, lot := range m.lots {
		if lot.AuctionID == auctionID && lot.Key == key {
			return lot, nil
		}
	}
	return nil, nil
}

// Attach executes one attach instruction against the in-memory state.
func (m *Memory) Attach(_ context.Context, auctionID string, instr *domain.AttachInstruction, content []byte) (*domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.attachments[attachment.ID] = attachment
	m.blobs[attachment.ID] = append([]byte(nil), content...)
	return attachment, nil
}

// GetAttachment fetches one attachment by ID.
func (m *Memory) GetAttachment(_ context.Context, id string) (*domain.Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	attachment, ok := m.attachments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return attachment, nil
}

// LotPictures returns a lot's pictures ordered ascending by numeric sequence
// value, unsequenced attachments last.
func (m *Memory) LotPictures(_ context.Context, lotID string) ([]*domain.Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pictures []*domain.Attachment
	for _, attachment := range m.attachments {
		if attachment.LotID == lotID && attachment.Category == domain.CategoryPictures {
			pictures = append(pictures, attachment)
		}
	}
	sort.SliceStable(pictures, func(i, j int) bool {
		a, b := pictures[i], pictures[j]
		switch {
		case a.Sequence == nil && b.Sequence == nil:
			return a.ID < b.ID
		case a.Sequence == nil:
			return false
		case b.Sequence == nil:
			return true
		case *a.Sequence != *b.Sequence:
			return *a.Sequence < *b.Sequence
		default:
			return a.ID < b.ID
		}
	})
	return pictures, nil
}

// OpenBlob opens the stored bytes of an attachment for reading.
func (m *Memory) OpenBlob(id string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}
