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

package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lotdrop/lotdrop/pkg/domain"
	"github.com/lotdrop/lotdrop/pkg/logging"
)

// AttachmentEvent is broadcast once per stored attachment.
type AttachmentEvent struct {
	AttachmentID string           `json:"attachmentId"`
	AuctionID    string           `json:"auctionId"`
	OwnerKind    domain.OwnerKind `json:"ownerKind"`
	LotKey       string           `json:"lotKey,omitempty"`
	Category     domain.Category  `json:"category"`
	Filename     string           `json:"filename"`
	SizeBytes    int64            `json:"sizeBytes"`
	Sequence     *int             `json:"sequence,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func newAttachmentEvent(attachment *domain.Attachment, lotKey string) AttachmentEvent {
	return AttachmentEvent{
		AttachmentID: attachment.ID,
		AuctionID:    attachment.AuctionID,
		OwnerKind:    attachment.OwnerKind,
		LotKey:       lotKey,
		Category:     attachment.Category,
		Filename:     attachment.Filename,
		SizeBytes:    attachment.Size,
		Sequence:     attachment.Sequence,
		CreatedAt:    attachment.CreatedAt,
	}
}

// EventHub fans attachment events out to websocket subscribers. Delivery is
// best effort: a client that errors on write is dropped.
type EventHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewEventHub creates an empty hub.
func NewEventHub(logger *logging.Logger) *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *EventHub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("event subscriber connected", "remote", conn.RemoteAddr())

	// Drain reads until the peer closes; subscribers never send payloads.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("event subscriber read error", "error", err)
				}
				return
			}
		}
	}()
}

// Subscribers reports the number of connected clients.
func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to every subscriber, dropping any that fail.
func (h *EventHub) Broadcast(event AttachmentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("dropping event subscriber", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *EventHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		conn.Close()
		delete(h.clients, conn)
	}
}
