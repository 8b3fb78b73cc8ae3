package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"pexelsimport/pkg/library"
	"pexelsimport/pkg/logger"
	"pexelsimport/pkg/ui"
)

// libraryCmd represents the library command
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the local media library",
}

var (
	listPostID    int64
	listPorcelain bool
)

// listCmd represents the library list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported attachments",
	Example: `  # Everything in the library
  pexelsimport library list

  # Attachments of post 42, IDs only
  pexelsimport library list --post_id 42 --porcelain`,
	Args: cobra.NoArgs,
	RunE: runLibraryList,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(listCmd)

	listCmd.Flags().Int64Var(&listPostID, "post_id", 0, "only list attachments of this post")
	listCmd.Flags().BoolVar(&listPorcelain, "porcelain", false, "print only attachment IDs")
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := library.OpenStore(ctx, filepath.Join(cfg.Import.LibraryDir, libraryDBName))
	if err != nil {
		return err
	}
	defer store.Close()

	var postID *int64
	if cmd.Flags().Changed("post_id") {
		postID = &listPostID
	}

	attachments, err := store.ListAttachments(ctx, postID)
	if err != nil {
		return err
	}
	logger.GetLogger().DebugWithFields("listed attachments", map[string]interface{}{
		"count": len(attachments),
	})

	out := cmd.OutOrStdout()
	if listPorcelain {
		for _, a := range attachments {
			fmt.Fprintln(out, a.ID)
		}
		return nil
	}

	if len(attachments) == 0 {
		ui.PrintWarning("No attachments found")
		return nil
	}

	featured, err := store.FeaturedImages(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Title", "Size", "Post", "Path"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, a := range attachments {
		post := ""
		if a.PostID != nil {
			post = strconv.FormatInt(*a.PostID, 10)
			if featured[*a.PostID] == a.ID {
				post += " *"
			}
		}
		table.Append([]string{
			strconv.FormatInt(a.ID, 10),
			a.Title,
			fmt.Sprintf("%dx%d", a.Width, a.Height),
			post,
			a.Path,
		})
	}
	table.Render()
	return nil
}
