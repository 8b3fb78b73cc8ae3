package resolver

//go:generate mockgen -source=resolver.go -destination=mocks/resolver.go -package=mocks

import (
	"context"

	"pexelsimport/pkg/errors"
	"pexelsimport/pkg/logger"
	"pexelsimport/pkg/pexels"
)

// PhotoFetcher resolves one identifier into photo metadata
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, id pexels.Identifier) (*pexels.Photo, error)
}

// Importer downloads and stores the resolved URLs
type Importer interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

// ImportRequest is the resolved URL list plus the options forwarded to an Importer
type ImportRequest struct {
	URLs    []string `yaml:"urls" json:"urls"`
	Options Options  `yaml:"options" json:"options"`
}

// ImportedFile describes one stored attachment
type ImportedFile struct {
	SourceURL    string
	AttachmentID int64
	Path         string
}

// ImportResult is what an Importer reports back, in request order
type ImportResult struct {
	Files []ImportedFile
}

// AttachmentIDs returns the IDs of every imported file in order
func (r *ImportResult) AttachmentIDs() []int64 {
	ids := make([]int64, 0, len(r.Files))
	for _, f := range r.Files {
		ids = append(ids, f.AttachmentID)
	}
	return ids
}

// Resolver turns identifier tokens into an ImportRequest
type Resolver struct {
	fetcher PhotoFetcher
	logger  logger.Logger
}

// New creates a Resolver backed by fetcher
func New(fetcher PhotoFetcher, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{fetcher: fetcher, logger: log}
}

// Validate checks every token and the size options without touching the
// network. It returns the parsed identifiers and size spec.
func Validate(tokens []string, opts Options) ([]pexels.Identifier, SizeSpec, error) {
	if len(tokens) == 0 {
		return nil, SizeSpec{}, &errors.Error{
			Type:    errors.ErrorTypeInvalidIdentifier,
			Message: "at least one photo ID, page URL or 'random' is required",
		}
	}

	spec, err := NewSizeSpec(opts)
	if err != nil {
		return nil, SizeSpec{}, err
	}

	ids, err := pexels.ParseIdentifiers(tokens)
	if err != nil {
		return nil, SizeSpec{}, err
	}
	return ids, spec, nil
}

// Resolve validates every token and option, fetches each photo in order and
// returns the request to hand to an Importer. Nothing is fetched unless all
// tokens and size options are valid, and the first failure aborts the batch.
func (r *Resolver) Resolve(ctx context.Context, tokens []string, opts Options) (*ImportRequest, error) {
	ids, spec, err := Validate(tokens, opts)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(ids))
	var last *pexels.Photo
	for _, id := range ids {
		photo, err := r.fetcher.FetchPhoto(ctx, id)
		if err != nil {
			return nil, err
		}

		url, rule := selectWithRule(photo, spec)
		r.logger.DebugWithFields("selected photo URL", map[string]interface{}{
			"identifier": id.String(),
			"photo_id":   photo.ID,
			"rule":       rule,
			"url":        url,
		})

		urls = append(urls, url)
		last = photo
	}

	forwarded := opts
	if len(urls) == 1 {
		forwarded = ApplySingleDefaults(forwarded, last)
	} else {
		forwarded = StripSingleOnlyOptions(forwarded)
	}
	forwarded = StripResolutionOptions(forwarded)

	r.logger.DebugWithFields("photo URLs to import", map[string]interface{}{
		"urls": urls,
	})
	r.logger.DebugWithFields("photo import params", map[string]interface{}{
		"options": map[string]string(forwarded),
	})

	return &ImportRequest{URLs: urls, Options: forwarded}, nil
}

// Run resolves tokens and dispatches the result to importer
func (r *Resolver) Run(ctx context.Context, tokens []string, opts Options, importer Importer) (*ImportResult, error) {
	req, err := r.Resolve(ctx, tokens, opts)
	if err != nil {
		return nil, err
	}
	return importer.Import(ctx, *req)
}
