package library

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"pexelsimport/pkg/errors"
	"pexelsimport/pkg/logger"
	"pexelsimport/pkg/resolver"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestImport_Single(t *testing.T) {
	server := newImageServer(t)
	lib, store, files := newTestLibrary(t, logger.NewTestLogger(), Options{Concurrency: 2, ThumbnailSize: 150, StampEXIF: true})
	ctx := context.Background()

	src := server.URL + "/photos/3604268/pexels-photo-3604268.jpeg?auto=compress&h=650&w=940"
	result, err := lib.Import(ctx, resolver.ImportRequest{
		URLs: []string{src},
		Options: resolver.Options{
			resolver.OptTitle:         "Snow Covered Pine Trees",
			resolver.OptAlt:           "Trees",
			resolver.OptDesc:          `Photo by <a href="https://www.pexels.com/@jane">Jane Doe</a> on <a href="https://www.pexels.com/">Pexels</a>.`,
			resolver.OptPostID:        "5",
			resolver.OptFeaturedImage: "true",
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	imported := result.Files[0]
	assert.Equal(t, src, imported.SourceURL)
	assert.Equal(t, "2024/03/pexels-photo-3604268.jpeg", imported.Path)
	assert.FileExists(t, files.Abs(imported.Path))

	a, err := store.GetAttachment(ctx, imported.AttachmentID)
	require.NoError(t, err)
	assert.Equal(t, "Snow Covered Pine Trees", a.Title)
	assert.Equal(t, "Trees", a.Alt)
	assert.Equal(t, "image/jpeg", a.MimeType)
	assert.Equal(t, 300, a.Width)
	assert.Equal(t, 200, a.Height)
	assert.Positive(t, a.FileSize)
	assert.NotEmpty(t, a.GUID)
	require.NotNil(t, a.PostID)
	assert.Equal(t, int64(5), *a.PostID)

	thumb, err := imaging.Open(files.Abs(a.ThumbnailPath))
	require.NoError(t, err)
	assert.Equal(t, 150, thumb.Bounds().Dx())
	assert.Equal(t, 150, thumb.Bounds().Dy())

	featured, err := store.FeaturedImage(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, imported.AttachmentID, featured)
}

func TestImport_BatchKeepsOrder(t *testing.T) {
	server := newImageServer(t)
	lib, store, _ := newTestLibrary(t, logger.NewNopLogger(), Options{Concurrency: 3})
	ctx := context.Background()

	urls := []string{
		server.URL + "/photos/slow/first.jpeg",
		server.URL + "/photos/2/second.jpeg",
		server.URL + "/photos/3/third.jpeg",
	}
	result, err := lib.Import(ctx, resolver.ImportRequest{
		URLs:    urls,
		Options: resolver.Options{resolver.OptAlt: "City", resolver.OptPostID: "1"},
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	ids := result.AttachmentIDs()
	for i, f := range result.Files {
		assert.Equal(t, urls[i], f.SourceURL)
		if i > 0 {
			assert.Greater(t, ids[i], ids[i-1])
		}
	}

	post := int64(1)
	attached, err := store.ListAttachments(ctx, &post)
	require.NoError(t, err)
	require.Len(t, attached, 3)
	assert.Equal(t, "first", attached[0].Title)
	assert.Equal(t, "City", attached[2].Alt)
	assert.Empty(t, attached[0].ThumbnailPath)
}

func TestImport_FailureLeavesNothing(t *testing.T) {
	server := newImageServer(t)
	lib, store, files := newTestLibrary(t, logger.NewNopLogger(), Options{Concurrency: 1, ThumbnailSize: 64})
	ctx := context.Background()

	_, err := lib.Import(ctx, resolver.ImportRequest{
		URLs: []string{
			server.URL + "/photos/1/ok.jpeg",
			server.URL + "/missing.jpeg",
		},
	})
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.ErrorTypeImport, e.Type)
	assert.Equal(t, 404, e.Code)

	assert.Zero(t, countFiles(t, files.Root()))
	all, err := store.ListAttachments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImport_NotAnImage(t *testing.T) {
	lib, _, files := newTestLibrary(t, logger.NewNopLogger(), Options{})
	server := newTextServer(t)

	_, err := lib.Import(context.Background(), resolver.ImportRequest{URLs: []string{server.URL + "/photos/readme.txt"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeImport))
	assert.Zero(t, countFiles(t, files.Root()))
}

func TestImport_FeaturedWithoutPostWarns(t *testing.T) {
	server := newImageServer(t)
	log := logger.NewTestLogger()
	lib, _, _ := newTestLibrary(t, log, Options{})

	_, err := lib.Import(context.Background(), resolver.ImportRequest{
		URLs:    []string{server.URL + "/photos/1/a.jpeg"},
		Options: resolver.Options{resolver.OptFeaturedImage: "true"},
	})
	require.NoError(t, err)
	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
	assert.True(t, log.HasMessage("Import completed"))
}

func TestImport_InvalidPostID(t *testing.T) {
	lib, _, _ := newTestLibrary(t, logger.NewNopLogger(), Options{})

	_, err := lib.Import(context.Background(), resolver.ImportRequest{
		URLs:    []string{"http://127.0.0.1:1/never.jpeg"},
		Options: resolver.Options{resolver.OptPostID: "abc"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeImport))
	assert.Contains(t, err.Error(), "invalid post ID 'abc'")
}

func TestThumbnail(t *testing.T) {
	img, err := imaging.Decode(bytes.NewReader(testJPEG(t, 300, 200)))
	require.NoError(t, err)

	for _, smart := range []bool{true, false} {
		lib, _, _ := newTestLibrary(t, logger.NewNopLogger(), Options{SmartCrop: smart})
		thumb := lib.thumbnail(img, 80)
		assert.Equal(t, 80, thumb.Bounds().Dx(), "smart=%v", smart)
		assert.Equal(t, 80, thumb.Bounds().Dy(), "smart=%v", smart)
	}
}

func TestPlainDescription(t *testing.T) {
	got := plainDescription(`Photo by <a href="https://www.pexels.com/@jane" target="_blank" rel="noopener">Jane Doe</a> on <a href="https://www.pexels.com/" target="_blank" rel="noopener">Pexels</a>.`)
	assert.Equal(t, "Photo by Jane Doe on Pexels.", got)
}

func TestWriteResult(t *testing.T) {
	result := &resolver.ImportResult{Files: []resolver.ImportedFile{
		{SourceURL: "https://images.pexels.com/a.jpeg", AttachmentID: 3},
		{SourceURL: "https://images.pexels.com/b.jpeg", AttachmentID: 4},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, result, false))
	assert.Equal(t,
		"Imported file 'https://images.pexels.com/a.jpeg' as attachment ID 3.\n"+
			"Imported file 'https://images.pexels.com/b.jpeg' as attachment ID 4.\n"+
			"Success: Imported 2 of 2 items.\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteResult(&buf, result, true))
	assert.Equal(t, "3\n4\n", buf.String())
}
