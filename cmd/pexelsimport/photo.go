package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pexelsimport/pkg/auth"
	"pexelsimport/pkg/config"
	"pexelsimport/pkg/library"
	"pexelsimport/pkg/logger"
	"pexelsimport/pkg/pexels"
	"pexelsimport/pkg/resolver"
	"pexelsimport/pkg/ui"
)

// libraryDBName is the attachment database inside the library directory
const libraryDBName = "library.db"

// photoFlags holds the values bound to the photo command's flags
type photoFlags struct {
	size          string
	customSize    string
	crop          bool
	credit        bool
	noCredit      bool
	title         string
	caption       string
	alt           string
	desc          string
	postID        string
	featuredImage bool
	porcelain     bool
	dryRun        bool
	apiKey        string
	concurrency   int
}

func init() {
	rootCmd.AddCommand(newPhotoCmd(&photoFlags{}))
}

// newPhotoCmd builds the photo command with its flags bound to f
func newPhotoCmd(f *photoFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "photo <id|page_url|random>...",
		Aliases: []string{"image"},
		Short:   "Import one or more Pexels photos",
		Long: `Import one or more Pexels photos into the media library.

Each argument is a numeric photo ID, a photo page URL such as
https://www.pexels.com/photo/sunset-over-the-sea-1234567/, or the word
"random" for a random curated photo.

A single imported photo gets a title derived from its page URL and, unless
--no-credit is given, a description crediting the photographer. Title,
caption and featured image only apply to single imports.`,
		Example: `  # Import a photo at its original size
  pexelsimport photo 1234567

  # Import a random curated photo, cropped to 800x600
  pexelsimport photo random --custom_size=800x600 --crop

  # Import two photos for post 42 and print only the attachment IDs
  pexelsimport photo 1234567 7654321 --size=large --post_id=42 --porcelain`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhoto(cmd, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.size, resolver.OptSize, pexels.SizeOriginal, "named size: original, large2x, large, medium, small, portrait, landscape, tiny")
	flags.StringVar(&f.customSize, resolver.OptCustomSize, "", "downsize to WIDTHxHEIGHT (never upscales)")
	flags.BoolVar(&f.crop, resolver.OptCrop, false, "crop to the custom size instead of fitting inside it")
	flags.BoolVar(&f.credit, resolver.OptCredit, true, "credit the photographer and Pexels in the description")
	flags.BoolVar(&f.noCredit, "no-credit", false, "do not add a credit description")
	flags.StringVar(&f.title, resolver.OptTitle, "", "attachment title")
	flags.StringVar(&f.caption, resolver.OptCaption, "", "attachment caption")
	flags.StringVar(&f.alt, resolver.OptAlt, "", "alternative text")
	flags.StringVar(&f.desc, resolver.OptDesc, "", "attachment description")
	flags.StringVar(&f.postID, resolver.OptPostID, "", "attach the imported files to this post")
	flags.BoolVar(&f.featuredImage, resolver.OptFeaturedImage, false, "make the imported photo the post's featured image")
	flags.BoolVar(&f.porcelain, resolver.OptPorcelain, false, "print only the attachment IDs")
	flags.BoolVar(&f.dryRun, "dry-run", false, "print the resolved import request as YAML instead of importing")
	flags.StringVar(&f.apiKey, "api-key", "", "Pexels API key (overrides stored keys)")
	flags.IntVar(&f.concurrency, "concurrency", 0, "parallel downloads")

	return cmd
}

// buildOptions turns the flags the user actually set into the option mapping.
// size always carries its default and credit is only recorded when disabled or
// given explicitly.
func buildOptions(cmd *cobra.Command, f *photoFlags) resolver.Options {
	opts := resolver.Options{resolver.OptSize: f.size}
	changed := cmd.Flags().Changed

	strs := map[string]string{
		resolver.OptCustomSize: f.customSize,
		resolver.OptTitle:      f.title,
		resolver.OptCaption:    f.caption,
		resolver.OptAlt:        f.alt,
		resolver.OptDesc:       f.desc,
		resolver.OptPostID:     f.postID,
	}
	for key, value := range strs {
		if changed(key) {
			opts[key] = value
		}
	}

	bools := map[string]bool{
		resolver.OptCrop:          f.crop,
		resolver.OptFeaturedImage: f.featuredImage,
		resolver.OptPorcelain:     f.porcelain,
	}
	for key, value := range bools {
		if changed(key) {
			opts.SetFlag(key, value)
		}
	}

	switch {
	case f.noCredit:
		opts.SetFlag(resolver.OptCredit, false)
	case changed(resolver.OptCredit):
		opts.SetFlag(resolver.OptCredit, f.credit)
	}

	return opts
}

func runPhoto(cmd *cobra.Command, f *photoFlags, args []string) error {
	opts := buildOptions(cmd, f)
	if _, _, err := resolver.Validate(args, opts); err != nil {
		return err
	}

	cfg, err := loadConfig(map[string]interface{}{
		"api-key":     f.apiKey,
		"concurrency": f.concurrency,
	})
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		return err
	}
	if apiKey == "" {
		auth.ShowAPIKeyGuide(ui.Output)
		return pexels.ErrMissingAPIKey
	}

	client := pexels.NewClient(apiKey, cfg.Pexels.Timeout, log)
	client.SetBaseURL(cfg.Pexels.BaseURL)
	client.SetHeader("User-Agent", userAgent())

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if f.dryRun {
		_, err := resolver.New(client, log).Run(ctx, args, opts, &resolver.DryRunImporter{Out: out})
		return err
	}

	lib, closeLib, err := openLibrary(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLib()

	if !f.porcelain {
		ui.PrintInfo("Library", cfg.Import.LibraryDir)
	}

	result, err := resolver.New(client, log).Run(ctx, args, opts, lib)
	if err != nil {
		return err
	}
	return library.WriteResult(out, result, f.porcelain)
}

// resolveAPIKey prefers a configured key and falls back to the credential stores
func resolveAPIKey(cfg *config.Config) (string, error) {
	if cfg.Pexels.APIKey != "" {
		return cfg.Pexels.APIKey, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return "", fmt.Errorf("failed to open credential stores: %w", err)
	}
	key, err := manager.APIKey(cfg.Pexels.Profile)
	if err != nil {
		logger.GetLogger().DebugWithFields("no stored API key", map[string]interface{}{
			"profile": cfg.Pexels.Profile,
			"error":   err.Error(),
		})
		return "", nil
	}
	return key, nil
}

// openLibrary opens the attachment database and file store under the library directory
func openLibrary(ctx context.Context, cfg *config.Config, log logger.Logger) (*library.Library, func(), error) {
	files, err := library.NewFileStore(cfg.Import.LibraryDir)
	if err != nil {
		return nil, nil, err
	}

	store, err := library.OpenStore(ctx, filepath.Join(files.Root(), libraryDBName))
	if err != nil {
		return nil, nil, err
	}

	lib := library.New(store, files, library.Options{
		Concurrency:   cfg.Import.Concurrency,
		ThumbnailSize: cfg.Import.ThumbnailSize,
		SmartCrop:     cfg.Import.SmartCrop,
		StampEXIF:     cfg.Import.StampEXIF,
		Timeout:       cfg.Pexels.Timeout,
		UserAgent:     userAgent(),
	}, log)

	closeFn := func() {
		if err := store.Close(); err != nil {
			log.WarnWithFields("failed to close library database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return lib, closeFn, nil
}

func userAgent() string {
	return pexels.DefaultUserAgent + "/" + version
}
