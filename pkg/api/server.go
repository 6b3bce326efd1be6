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

// Package api exposes the auction upload service over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lotdrop/lotdrop/pkg/attach"
	"github.com/lotdrop/lotdrop/pkg/domain"
	"github.com/lotdrop/lotdrop/pkg/environment"
	"github.com/lotdrop/lotdrop/pkg/logging"
	"github.com/lotdrop/lotdrop/pkg/store"
)

const (
	defaultCORSMaxAge        = 12 * time.Hour
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

// Backend bundles the collaborators the HTTP surface needs. Both the SQLite
// store and the in-memory store satisfy it.
type Backend interface {
	domain.LotDirectory
	domain.StorageSink
	domain.OrderingQuery

	CreateAuction(ctx context.Context, title string) (*domain.Auction, error)
	GetAuction(ctx context.Context, id string) (*domain.Auction, error)
	CreateLot(ctx context.Context, auctionID, key, title string) (*domain.Lot, error)
	ListLots(ctx context.Context, auctionID string) ([]*domain.Lot, error)
	GetAttachment(ctx context.Context, id string) (*domain.Attachment, error)
	OpenBlob(id string) (io.ReadCloser, error)
}

// Server wires the routing core and a backend into a gin engine.
type Server struct {
	backend   Backend
	router    *attach.Router
	hub       *EventHub
	logger    *logging.Logger
	maxUpload int64
	env       *environment.Environment
}

// NewServer creates a Server around the given backend.
func NewServer(backend Backend, env *environment.Environment, logger *logging.Logger) *Server {
	return &Server{
		backend:   backend,
		router:    attach.NewRouter(backend, logger),
		hub:       NewEventHub(logger),
		logger:    logger,
		maxUpload: env.MaxUploadBytes(),
		env:       env,
	}
}

// Hub returns the event hub backing the websocket feed.
func (s *Server) Hub() *EventHub {
	return s.hub
}

// Engine builds the gin engine with all routes registered.
func (s *Server) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if origins := splitList(s.env.CORSOrigins); len(origins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           defaultCORSMaxAge,
		}))
	}
	if proxies := splitList(s.env.TrustedProxies); len(proxies) > 0 {
		engine.ForwardedByClientIP = true
		if err := engine.SetTrustedProxies(proxies); err != nil {
			s.logger.Error("unable to set trusted proxies", "error", err)
		}
	}

	v1 := engine.Group("/api/v1")
	v1.POST("/auctions", s.handleCreateAuction)
	v1.POST("/auctions/:auction/lots", s.handleCreateLot)
	v1.GET("/auctions/:auction/lots", s.handleListLots)
	v1.POST("/auctions/:auction/files", s.handleUploadFiles)
	v1.GET("/auctions/:auction/lots/:lot/pictures", s.handleLotPictures)
	v1.GET("/attachments/:id", s.handleDownload)
	v1.GET("/events", s.hub.Handle)

	return engine
}

// Run starts the API server and blocks until ctx is cancelled or the
// listener fails. Cancellation drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	addr := s.env.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	// Shutdown when ctx is cancelled.
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("starting API server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type createAuctionRequest struct {
	Title string `json:"title" binding:"required"`
}

func (s *Server) handleCreateAuction(c *gin.Context) {
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	auction, err := s.backend.CreateAuction(c.Request.Context(), req.Title)
	if err != nil {
		s.logger.Error("failed to create auction", "error", err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "failed to create auction"))
		return
	}
	c.JSON(http.StatusCreated, NewResponse(auction))
}

type createLotRequest struct {
	Key   string `json:"key" binding:"required"`
	Title string `json:"title"`
}

func (s *Server) handleCreateLot(c *gin.Context) {
	var req createLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	auction, ok := s.requireAuction(c)
	if !ok {
		return
	}

	lot, err := s.backend.CreateLot(c.Request.Context(), auction.ID, req.Key, req.Title)
	if err != nil {
		s.logger.Error("failed to create lot", "key", req.Key, "error", err)
		c.JSON(http.StatusConflict, NewErrorResponse(http.StatusConflict, "failed to create lot"))
		return
	}
	c.JSON(http.StatusCreated, NewResponse(lot))
}

func (s *Server) handleListLots(c *gin.Context) {
	auction, ok := s.requireAuction(c)
	if !ok {
		return
	}

	lots, err := s.backend.ListLots(c.Request.Context(), auction.ID)
	if err != nil {
		s.logger.Error("failed to list lots", "error", err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "failed to list lots"))
		return
	}
	c.JSON(http.StatusOK, NewResponse(asAny(lots)...))
}

func (s *Server) handleLotPictures(c *gin.Context) {
	auction, ok := s.requireAuction(c)
	if !ok {
		return
	}

	lot, err := s.backend.LookupLot(c.Request.Context(), auction.ID, c.Param("lot"))
	if err != nil {
		s.logger.Error("lot lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "lot lookup failed"))
		return
	}
	if lot == nil {
		c.JSON(http.StatusNotFound, NewErrorResponse(http.StatusNotFound, "unknown lot"))
		return
	}

	pictures, err := s.backend.LotPictures(c.Request.Context(), lot.ID)
	if err != nil {
		s.logger.Error("failed to query lot pictures", "lot", lot.Key, "error", err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "failed to query lot pictures"))
		return
	}
	c.JSON(http.StatusOK, NewResponse(asAny(pictures)...))
}

func (s *Server) handleDownload(c *gin.Context) {
	attachment, err := s.backend.GetAttachment(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse(http.StatusNotFound, "unknown attachment"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "failed to fetch attachment"))
		return
	}

	blob, err := s.backend.OpenBlob(attachment.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "failed to open blob"))
		return
	}
	defer blob.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Filename})
	c.DataFromReader(http.StatusOK, attachment.Size, attachment.ContentType, blob, map[string]string{
		"Content-Disposition": disposition,
	})
}

// requireAuction resolves the :auction path parameter and writes the error
// response on failure.
func (s *Server) requireAuction(c *gin.Context) (*domain.Auction, bool) {
	auction, err := s.backend.GetAuction(c.Request.Context(), c.Param("auction"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse(http.StatusNotFound, "unknown auction"))
		return nil, false
	}
	if err != nil {
		s.logger.Error("auction lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "auction lookup failed"))
		return nil, false
	}
	return auction, true
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func asAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
