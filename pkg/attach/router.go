package attach

import (
	"context"
	"fmt"

	"github.com/lotdrop/lotdrop/pkg/domain"
	"github.com/lotdrop/lotdrop/pkg/logging"
)

// Router turns raw uploads into attach instructions. It owns no storage;
// the returned instruction is executed by an external storage sink.
type Router struct {
	directory domain.LotDirectory
	logger    *logging.Logger
}

// NewRouter creates a router backed by the given lot directory.
func NewRouter(directory domain.LotDirectory, logger *logging.Logger) *Router {
	return &Router{
		directory: directory,
		logger:    logger,
	}
}

// Route classifies and decodes one upload and decides its owner. A file in
// an unsupported category is dropped: the instruction and the error are both
// nil, and no owner lookup is attempted. Every supported file yields exactly
// one instruction; malformed filenames are not errors, they route to the
// auction fallback with the original name preserved and no sequence.
func (r *Router) Route(ctx context.Context, auctionID string, upload domain.RawUpload) (*domain.AttachInstruction, error) {
	category, ok := Classify(upload.ContentType, upload.Filename)
	if !ok {
		r.logger.Debug("dropping upload with unsupported category",
			"filename", upload.Filename, "content-type", upload.ContentType)
		return nil, nil
	}

	decoded := Decode(upload.Filename)

	var lot *domain.Lot
	if decoded.Sequence != nil {
		var err error
		lot, err = Resolve(ctx, r.directory, auctionID, decoded.OwnerKey)
		if err != nil {
			return nil, fmt.Errorf("resolving lot %q in auction %s: %w", decoded.OwnerKey, auctionID, err)
		}
	}

	// Lot routing requires both a decoded sequence and a known lot key;
	// anything less falls back to the auction as a whole.
	routeToLot := decoded.Sequence != nil && lot != nil
	if !routeToLot {
		return &domain.AttachInstruction{
			OwnerKind:      domain.OwnerAuction,
			Category:       category,
			StoredFilename: upload.Filename,
			ContentType:    upload.ContentType,
		}, nil
	}

	return &domain.AttachInstruction{
		OwnerKind:      domain.OwnerLot,
		LotID:          lot.ID,
		LotKey:         lot.Key,
		Category:       category,
		StoredFilename: decoded.StoredFilename,
		Sequence:       decoded.Sequence,
		ContentType:    upload.ContentType,
	}, nil
}
