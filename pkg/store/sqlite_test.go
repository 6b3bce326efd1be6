package store_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotdrop/lotdrop/pkg/domain"
	"github.com/lotdrop/lotdrop/pkg/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(afero.NewOsFs(), filepath.Join(dir, "lotdrop.db"), filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAuctionAndLotLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	auction, err := s.CreateAuction(ctx, "Autumn sale")
	require.NoError(t, err)
	require.NotEmpty(t, auction.ID)

	fetched, err := s.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, auction.Title, fetched.Title)

	_, err = s.GetAuction(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	for _, key := range []string{"1A", "1B", "4", "9"} {
		_, err := s.CreateLot(ctx, auction.ID, key, "Lot "+key)
		require.NoError(t, err)
	}

	lots, err := s.ListLots(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, lots, 4)

	// Duplicate keys within one auction are rejected.
	_, err = s.CreateLot(ctx, auction.ID, "1A", "Duplicate")
	assert.Error(t, err)
}

func TestStoreLookupLotCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	auction, err := s.CreateAuction(ctx, "Autumn sale")
	require.NoError(t, err)
	created, err := s.CreateLot(ctx, auction.ID, "1A", "Vase")
	require.NoError(t, err)

	lot, err := s.LookupLot(ctx, auction.ID, "1A")
	require.NoError(t, err)
	require.NotNil(t, lot)
	assert.Equal(t, created.ID, lot.ID)

	miss, err := s.LookupLot(ctx, auction.ID, "1a")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestStoreAttachPersistsSequenceAndBlob(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	auction, err := s.CreateAuction(ctx, "Autumn sale")
	require.NoError(t, err)
	lot, err := s.CreateLot(ctx, auction.ID, "1A", "Vase")
	require.NoError(t, err)

	sequence := 2
	attachment, err := s.Attach(ctx, auction.ID, &domain.AttachInstruction{
		OwnerKind:      domain.OwnerLot,
		LotID:          lot.ID,
		LotKey:         lot.Key,
		Category:       domain.CategoryPictures,
		StoredFilename: "some_name.png",
		Sequence:       &sequence,
		ContentType:    "image/png",
	}, []byte("image bytes"))
	require.NoError(t, err)

	fetched, err := s.GetAttachment(ctx, attachment.ID)
	require.NoError(t, err)
	assert.Equal(t, "some_name.png", fetched.Filename)
	assert.Equal(t, lot.ID, fetched.LotID)
	require.NotNil(t, fetched.Sequence)
	assert.Equal(t, 2, *fetched.Sequence)

	blob, err := s.OpenBlob(attachment.ID)
	require.NoError(t, err)
	defer blob.Close()
	content, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), content)
}

func TestStoreLotPicturesNumericOrdering(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	auction, err := s.CreateAuction(ctx, "Autumn sale")
	require.NoError(t, err)
	lot, err := s.CreateLot(ctx, auction.ID, "1A", "Vase")
	require.NoError(t, err)

	for _, p := range []struct {
		filename string
		sequence *int
	}{
		{"1A_11.jpg", seqPtr(11)},
		{"some.name.jpeg", seqPtr(1)},
		{"unsequenced.png", nil},
		{"some_name.png", seqPtr(2)},
	} {
		_, err := s.Attach(ctx, auction.ID, pictureInstr(lot.ID, p.filename, p.sequence), []byte("img"))
		require.NoError(t, err)
	}

	pictures, err := s.LotPictures(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, pictures, 4)
	// Numeric comparison: 2 sorts before 11.
	assert.Equal(t, "some.name.jpeg", pictures[0].Filename)
	assert.Equal(t, "some_name.png", pictures[1].Filename)
	assert.Equal(t, "1A_11.jpg", pictures[2].Filename)
	assert.Equal(t, "unsequenced.png", pictures[3].Filename)

	again, err := s.LotPictures(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, again, 4)
	for i := range pictures {
		assert.Equal(t, pictures[i].ID, again[i].ID)
	}
}

func TestStoreAuctionFallbackAttachmentsCarryNoLot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	auction, err := s.CreateAuction(ctx, "Autumn sale")
	require.NoError(t, err)

	attachment, err := s.Attach(ctx, auction.ID, &domain.AttachInstruction{
		OwnerKind:      domain.OwnerAuction,
		Category:       domain.CategoryDocuments,
		StoredFilename: "5G_11_hello_world.pdf",
		ContentType:    "application/pdf",
	}, []byte("pdf"))
	require.NoError(t, err)

	fetched, err := s.GetAttachment(ctx, attachment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerAuction, fetched.OwnerKind)
	assert.Empty(t, fetched.LotID)
	assert.Nil(t, fetched.Sequence)
}
