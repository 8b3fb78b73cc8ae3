package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	postID := int64(9)
	a := &Attachment{
		GUID:      "guid-1",
		SourceURL: "https://images.pexels.com/photos/1/a.jpeg",
		Path:      "2024/03/a.jpeg",
		MimeType:  "image/jpeg",
		Width:     300,
		Height:    200,
		Title:     "A",
		PostID:    &postID,
		CreatedAt: fixedNow,
	}
	require.NoError(t, store.AddAttachment(ctx, a))
	assert.NotZero(t, a.ID)

	got, err := store.GetAttachment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.SourceURL, got.SourceURL)
	assert.Equal(t, 300, got.Width)
	require.NotNil(t, got.PostID)
	assert.Equal(t, postID, *got.PostID)
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	_, err = store.GetAttachment(ctx, a.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DuplicateGUID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddAttachment(ctx, &Attachment{GUID: "same", SourceURL: "u", Path: "p"}))
	err := store.AddAttachment(ctx, &Attachment{GUID: "same", SourceURL: "u", Path: "p"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStore_ListAttachments(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	post := int64(1)
	require.NoError(t, store.AddAttachment(ctx, &Attachment{GUID: "a", SourceURL: "u1", Path: "p1", PostID: &post}))
	require.NoError(t, store.AddAttachment(ctx, &Attachment{GUID: "b", SourceURL: "u2", Path: "p2"}))

	all, err := store.ListAttachments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u1", all[0].SourceURL)
	assert.Nil(t, all[1].PostID)

	attached, err := store.ListAttachments(ctx, &post)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "a", attached[0].GUID)
}

func TestStore_FeaturedImage(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.FeaturedImage(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	first := &Attachment{GUID: "a", SourceURL: "u", Path: "p"}
	second := &Attachment{GUID: "b", SourceURL: "u", Path: "p"}
	require.NoError(t, store.AddAttachment(ctx, first))
	require.NoError(t, store.AddAttachment(ctx, second))

	require.NoError(t, store.SetFeaturedImage(ctx, 1, first.ID))
	require.NoError(t, store.SetFeaturedImage(ctx, 1, second.ID))

	id, err := store.FeaturedImage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, id)
}

func TestStore_FeaturedImages(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	featured, err := store.FeaturedImages(ctx)
	require.NoError(t, err)
	assert.Empty(t, featured)

	first := &Attachment{GUID: "a", SourceURL: "u", Path: "p"}
	second := &Attachment{GUID: "b", SourceURL: "u", Path: "p"}
	require.NoError(t, store.AddAttachment(ctx, first))
	require.NoError(t, store.AddAttachment(ctx, second))
	require.NoError(t, store.SetFeaturedImage(ctx, 1, first.ID))
	require.NoError(t, store.SetFeaturedImage(ctx, 2, second.ID))

	featured, err = store.FeaturedImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: first.ID, 2: second.ID}, featured)
}

func TestStore_TxRollback(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddAttachment(ctx, &Attachment{GUID: "a", SourceURL: "u", Path: "p"}))
	require.NoError(t, tx.Rollback())

	all, err := store.ListAttachments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenStore_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "library.db")

	store, err := OpenStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.AddAttachment(ctx, &Attachment{GUID: "a", SourceURL: "u", Path: "p"}))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListAttachments(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
