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
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/lotdrop/lotdrop/pkg/domain"
)

// MaxMemory is the maximum memory for parsing a multipart form (32MB).
const MaxMemory = 32 << 20

// Upload statuses reported per file in a batch response.
const (
	StatusAttached = "attached"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// UploadResult reports the outcome for one file of a batch.
type UploadResult struct {
	Filename       string           `json:"filename"`
	Status         string           `json:"status"`
	OwnerKind      domain.OwnerKind `json:"ownerKind,omitempty"`
	LotKey         string           `json:"lotKey,omitempty"`
	Category       domain.Category  `json:"category,omitempty"`
	StoredFilename string           `json:"storedFilename,omitempty"`
	Sequence       *int             `json:"sequence,omitempty"`
	AttachmentID   string           `json:"attachmentId,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// handleUploadFiles routes every file of a multipart batch independently.
// Files in unsupported categories are reported as skipped; a storage failure
// for one file never aborts the rest of the batch.
func (s *Server) handleUploadFiles(c *gin.Context) {
	auction, ok := s.requireAuction(c)
	if !ok {
		return
	}

	headers, err := s.collectFileHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	results := make([]*UploadResult, 0, len(headers))
	for _, header := range headers {
		results = append(results, s.processUpload(c, auction, header))
	}

	c.JSON(http.StatusOK, NewResponse(asAny(results)...))
}

// collectFileHeaders gathers the batch from the multipart form, accepting
// the field names "file[]", "files", and "file" in that order, then any
// remaining file fields.
func (s *Server) collectFileHeaders(c *gin.Context) ([]*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(MaxMemory); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	form := c.Request.MultipartForm
	if form == nil || form.File == nil {
		return nil, nil
	}

	for _, field := range []string{"file[]", "files", "file"} {
		if headers, ok := form.File[field]; ok && len(headers) > 0 {
			return headers, nil
		}
	}

	var headers []*multipart.FileHeader
	for _, fieldHeaders := range form.File {
		headers = append(headers, fieldHeaders...)
	}
	return headers, nil
}

func (s *Server) processUpload(c *gin.Context, auction *domain.Auction, header *multipart.FileHeader) *UploadResult {
	result := &UploadResult{Filename: header.Filename}

	if header.Size > s.maxUpload {
		result.Status = StatusFailed
		result.Error = fmt.Sprintf("file too large: %s (max %s)",
			humanize.Bytes(uint64(header.Size)), humanize.Bytes(uint64(s.maxUpload)))
		return result
	}

	content, err := readFileHeader(header)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	upload := domain.RawUpload{
		Filename:    header.Filename,
		ContentType: detectContentType(header, content),
		Size:        int64(len(content)),
		Content:     content,
	}

	instr, err := s.router.Route(c.Request.Context(), auction.ID, upload)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if instr == nil {
		s.logger.Debug("skipping upload with unsupported category", "filename", header.Filename)
		result.Status = StatusSkipped
		return result
	}

	attachment, err := s.backend.Attach(c.Request.Context(), auction.ID, instr, content)
	if err != nil {
		s.logger.Error("failed to store attachment", "filename", header.Filename, "error", err)
		result.Status = StatusFailed
		result.Error = "failed to store attachment"
		return result
	}

	s.logger.Info("stored attachment",
		"filename", attachment.Filename,
		"owner", instr.OwnerKind,
		"lot", instr.LotKey,
		"category", instr.Category,
		"size", humanize.Bytes(uint64(attachment.Size)))
	s.hub.Broadcast(newAttachmentEvent(attachment, instr.LotKey))

	result.Status = StatusAttached
	result.OwnerKind = instr.OwnerKind
	result.LotKey = instr.LotKey
	result.Category = instr.Category
	result.StoredFilename = instr.StoredFilename
	result.Sequence = instr.Sequence
	result.AttachmentID = attachment.ID
	return result
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return content, nil
}

// detectContentType prefers the client-supplied Content-Type when it is
// specific, falling back to sniffing the bytes.
func detectContentType(header *multipart.FileHeader, content []byte) string {
	declared := header.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(content).String()
}
