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

// Package domain holds the value records and collaborator interfaces shared
// across the routing core, the stores, and the HTTP surface.
package domain

import "time"

// Category is the logical grouping a stored file is filed under.
type Category string

const (
	CategoryPictures  Category = "pictures"
	CategoryDocuments Category = "documents"
)

// OwnerKind identifies which entity an attachment belongs to.
type OwnerKind string

const (
	OwnerLot     OwnerKind = "lot"
	OwnerAuction OwnerKind = "auction"
)

// Auction is a sale event that owns lots and fallback attachments.
type Auction struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Lot is a sub-item of an auction that can independently own attachments.
// Key is the short identifier referenced in upload filenames (e.g. "1A").
type Lot struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auctionId"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// RawUpload is one inbound file, owned by the router for a single call.
type RawUpload struct {
	// Original filename from client
	Filename string `json:"filename"`

	// MIME type as supplied or detected
	ContentType string `json:"contentType"`

	// File size in bytes
	Size int64 `json:"size"`

	// File content
	Content []byte `json:"-"`
}

// DecodedName is the result of decoding one upload filename. OwnerKey is the
// segment before the first underscore; Sequence is non-nil only when the
// remainder carried a syntactically valid digit run in sequence position.
type DecodedName struct {
	OwnerKey       string `json:"ownerKey"`
	Sequence       *int   `json:"sequence,omitempty"`
	StoredFilename string `json:"storedFilename"`
}

// AttachInstruction is the sole output of the routing core, handed to the
// storage sink for execution.
type AttachInstruction struct {
	OwnerKind      OwnerKind `json:"ownerKind"`
	LotID          string    `json:"lotId,omitempty"`
	LotKey         string    `json:"lotKey,omitempty"`
	Category       Category  `json:"category"`
	StoredFilename string    `json:"storedFilename"`
	Sequence       *int      `json:"sequence,omitempty"`
	ContentType    string    `json:"contentType"`
}

// Attachment is a stored file record as persisted by a storage sink.
type Attachment struct {
	ID          string    `json:"id"`
	AuctionID   string    `json:"auctionId"`
	OwnerKind   OwnerKind `json:"ownerKind"`
	LotID       string    `json:"lotId,omitempty"`
	Category    Category  `json:"category"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Sequence    *int      `json:"sequence,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
