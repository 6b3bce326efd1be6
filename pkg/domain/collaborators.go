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

package domain

import "context"

// LotDirectory resolves lot keys within one auction. A lookup miss returns
// (nil, nil); only infrastructure failures surface as errors.
type LotDirectory interface {
	LookupLot(ctx context.Context, auctionID, key string) (*Lot, error)
}

// StorageSink executes one attach instruction: it persists the attachment
// record, the blob bytes, and the sequence record (when present) as a single
// logical unit. Failures for one file must not affect other files in a batch.
type StorageSink interface {
	Attach(ctx context.Context, auctionID string, instr *AttachInstruction, content []byte) (*Attachment, error)
}

// OrderingQuery is the read path for a lot's pictures, sorted ascending by
// the numeric sequence value. Attachments without a sequence record sort
// after all attachments that have one.
type OrderingQuery interface {
	LotPictures(ctx context.Context, lotID string) ([]*Attachment, error)
}
