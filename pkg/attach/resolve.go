package attach

import (
	"context"

	"github.com/lotdrop/lotdrop/pkg/domain"
)

// Resolve looks up an owner key candidate against the auction's known lots.
// Matching is exact and case-sensitive; a miss returns (nil, nil). Only
// directory infrastructure failures surface as errors.
func Resolve(ctx context.Context, dir domain.LotDirectory, auctionID, key string) (*domain.Lot, error) {
	if key == "" {
		return nil, nil
	}
	return dir.LookupLot(ctx, auctionID, key)
}
