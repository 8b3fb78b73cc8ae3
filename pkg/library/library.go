package library

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pexelsimport/pkg/errors"
	"pexelsimport/pkg/logger"
	"pexelsimport/pkg/resolver"
)

// Options controls how files are fetched and post-processed
type Options struct {
	Concurrency   int
	ThumbnailSize int
	SmartCrop     bool
	StampEXIF     bool
	Timeout       time.Duration
	UserAgent     string
}

// Library is a local media library: files on disk plus attachment records
type Library struct {
	store      *Store
	files      *FileStore
	httpClient *http.Client
	opts       Options
	logger     logger.Logger
	now        func() time.Time
}

// New creates a Library over an attachment store and a file store
func New(store *Store, files *FileStore, opts Options, log logger.Logger) *Library {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Library{
		store:      store,
		files:      files,
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		logger:     log,
		now:        time.Now,
	}
}

// importOptions is the parsed form of the options an import accepts
type importOptions struct {
	title         string
	caption       string
	alt           string
	description   string
	postID        *int64
	featuredImage bool
}

func parseImportOptions(opts resolver.Options) (importOptions, error) {
	parsed := importOptions{
		title:         opts.Get(resolver.OptTitle),
		caption:       opts.Get(resolver.OptCaption),
		alt:           opts.Get(resolver.OptAlt),
		description:   opts.Get(resolver.OptDesc),
		featuredImage: opts.Flag(resolver.OptFeaturedImage, false),
	}

	if raw := opts.Get(resolver.OptPostID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return importOptions{}, &errors.Error{
				Type:    errors.ErrorTypeImport,
				Message: fmt.Sprintf("invalid post ID '%s'", raw),
				Token:   raw,
			}
		}
		parsed.postID = &id
	}
	return parsed, nil
}

// stored is a downloaded file awaiting its attachment record
type stored struct {
	sourceURL string
	path      string
	mimeType  string
	size      int64
	info      imageInfo
}

// Import downloads every URL, then records all attachments in one
// transaction. Any failure removes the files already written and no
// records are kept.
func (l *Library) Import(ctx context.Context, req resolver.ImportRequest) (*resolver.ImportResult, error) {
	opts, err := parseImportOptions(req.Options)
	if err != nil {
		return nil, err
	}
	if opts.featuredImage && opts.postID == nil {
		l.logger.Warn("featured_image needs post_id; the image will not be set as featured")
	}

	files, err := l.fetchAll(ctx, req.URLs)
	if err != nil {
		return nil, err
	}

	if l.opts.StampEXIF && opts.description != "" {
		l.stampAll(files, plainDescription(opts.description))
	}

	result, err := l.record(ctx, files, opts)
	if err != nil {
		l.cleanup(files)
		return nil, err
	}
	return result, nil
}

// stampAll writes the description into every JPEG. Failures only warn.
func (l *Library) stampAll(files []*stored, description string) {
	for _, f := range files {
		if !isJPEG(f.path, f.mimeType) {
			continue
		}
		abs := l.files.Abs(f.path)
		if err := stampDescription(abs, description); err != nil {
			l.logger.WarnWithFields("failed to write EXIF description", map[string]interface{}{
				"path":  f.path,
				"error": err.Error(),
			})
			continue
		}
		if st, err := os.Stat(abs); err == nil {
			f.size = st.Size()
		}
	}
}

// fetchAll downloads URLs with bounded concurrency, returning them in input order
func (l *Library) fetchAll(ctx context.Context, urls []string) ([]*stored, error) {
	results := make([]*stored, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, u := range urls {
		g.Go(func() error {
			f, err := l.fetch(gctx, u)
			if err != nil {
				return err
			}
			results[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.cleanup(results)
		return nil, err
	}
	return results, nil
}

// fetch downloads one URL into the file store
func (l *Library) fetch(ctx context.Context, rawURL string) (*stored, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, importError(rawURL, "invalid URL", err)
	}
	if l.opts.UserAgent != "" {
		req.Header.Set("User-Agent", l.opts.UserAgent)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(rawURL, err)
	}
	defer resp.Body.Close()

	logger.LogRequest(l.logger, req.Method, rawURL, resp.StatusCode, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeImport,
			Message: "couldn't download file",
			URL:     rawURL,
			Code:    resp.StatusCode,
		}
	}

	rel, size, err := l.files.Save(resp.Body, fileNameFromURL(rawURL), l.now())
	if err != nil {
		return nil, importError(rawURL, "couldn't store file", err)
	}

	f := &stored{
		sourceURL: rawURL,
		path:      rel,
		mimeType:  mimeType(resp.Header.Get("Content-Type")),
		size:      size,
	}

	info, err := l.processImage(rel)
	if err != nil {
		l.cleanup([]*stored{f})
		return nil, importError(rawURL, "file is not a usable image", err)
	}
	f.info = info
	return f, nil
}

// record inserts attachment records and the featured image in one transaction
func (l *Library) record(ctx context.Context, files []*stored, opts importOptions) (*resolver.ImportResult, error) {
	tx, err := l.store.Begin(ctx)
	if err != nil {
		return nil, importError("", "couldn't start transaction", err)
	}
	defer tx.Rollback()

	result := &resolver.ImportResult{Files: make([]resolver.ImportedFile, 0, len(files))}
	for _, f := range files {
		title := opts.title
		if title == "" {
			title = strings.TrimSuffix(path.Base(f.path), path.Ext(f.path))
		}

		a := &Attachment{
			GUID:          uuid.NewString(),
			SourceURL:     f.sourceURL,
			Path:          f.path,
			ThumbnailPath: f.info.ThumbnailPath,
			MimeType:      f.mimeType,
			Width:         f.info.Width,
			Height:        f.info.Height,
			FileSize:      f.size,
			Title:         title,
			Caption:       opts.caption,
			Alt:           opts.alt,
			Description:   opts.description,
			PostID:        opts.postID,
			CreatedAt:     l.now(),
		}
		if err := tx.AddAttachment(ctx, a); err != nil {
			return nil, importError(f.sourceURL, "couldn't record attachment", err)
		}

		if opts.featuredImage && opts.postID != nil {
			if err := tx.SetFeaturedImage(ctx, *opts.postID, a.ID); err != nil {
				return nil, importError(f.sourceURL, "couldn't set featured image", err)
			}
		}

		result.Files = append(result.Files, resolver.ImportedFile{
			SourceURL:    f.sourceURL,
			AttachmentID: a.ID,
			Path:         f.path,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, importError("", "couldn't commit attachments", err)
	}

	for _, f := range result.Files {
		logger.LogImport(l.logger, f.SourceURL, f.AttachmentID, nil)
	}
	return result, nil
}

// cleanup removes files and thumbnails of a failed import
func (l *Library) cleanup(files []*stored) {
	var wg sync.WaitGroup
	for _, f := range files {
		if f == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range []string{f.path, f.info.ThumbnailPath} {
				if err := l.files.Remove(p); err != nil {
					l.logger.WarnWithFields("failed to remove file", map[string]interface{}{
						"path":  p,
						"error": err.Error(),
					})
				}
			}
		}()
	}
	wg.Wait()
}

func importError(rawURL, msg string, cause error) *errors.Error {
	return &errors.Error{
		Type:    errors.ErrorTypeImport,
		Message: fmt.Sprintf("%s: %v", msg, cause),
		URL:     rawURL,
		Err:     cause,
	}
}

// fileNameFromURL uses the last path segment of the URL, ignoring the query
func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "image.jpg"
	}
	name := path.Base(u.Path)
	if path.Ext(name) == "" {
		name += ".jpg"
	}
	return name
}

// mimeType strips parameters from a Content-Type header
func mimeType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(strings.ToLower(mt))
}
