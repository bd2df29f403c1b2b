package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

const timeFormat = "2006-01-02 15:04:05"

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage wiki pages",
	Long:  `Add, list, view, or delete pages in the local corpus.`,
}

var pageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a page",
	Long: `Stores a rendered HTML page in the corpus. An existing page with the same
path is replaced. Use --file - to read the render from stdin.

The index is not updated incrementally; run 'wikisearch rebuild' afterwards.`,
	Args: cobra.NoArgs,
	RunE: runPageAdd,
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages",
	Args:  cobra.NoArgs,
	RunE:  runPageList,
}

var pageShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show page info",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageShow,
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete [path]",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageDelete,
}

// Flags for page add.
var (
	pagePath        string
	pageTitle       string
	pageDescription string
	pageLocale      string
	pageFile        string
	pageDraft       bool
	pagePrivate     bool
)

// pageShowRender prints the stored HTML in page show.
var pageShowRender bool

func init() {
	pageAddCmd.Flags().StringVar(&pagePath, "path", "", "page path (e.g. guides/install)")
	pageAddCmd.Flags().StringVar(&pageTitle, "title", "", "page title")
	pageAddCmd.Flags().StringVar(&pageDescription, "description", "", "short page summary")
	pageAddCmd.Flags().StringVar(&pageLocale, "locale", domain.DefaultLocale, "page locale")
	pageAddCmd.Flags().StringVarP(&pageFile, "file", "f", "", "rendered HTML file, or - for stdin")
	pageAddCmd.Flags().BoolVar(&pageDraft, "draft", false, "store the page unpublished")
	pageAddCmd.Flags().BoolVar(&pagePrivate, "private", false, "mark the page private")
	_ = pageAddCmd.MarkFlagRequired("path")
	_ = pageAddCmd.MarkFlagRequired("file")

	pageShowCmd.Flags().BoolVar(&pageShowRender, "render", false, "print the rendered HTML")

	pageCmd.AddCommand(pageAddCmd)
	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageShowCmd)
	pageCmd.AddCommand(pageDeleteCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageAdd(cmd *cobra.Command, _ []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	render, err := readRender(cmd, pageFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	_, getErr := pageService.Get(ctx, pagePath)
	existed := getErr == nil

	doc := &domain.Document{
		Path:        pagePath,
		LocaleCode:  pageLocale,
		Title:       pageTitle,
		Description: pageDescription,
		Render:      render,
		IsPublished: !pageDraft,
		IsPrivate:   pagePrivate,
	}
	if err := pageService.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}
	cmd.Printf("Saved page: %s\n", doc.Path)

	if searchEngine == nil {
		return nil
	}
	if existed {
		return notifyEngine(cmd, searchEngine.Updated(ctx, *doc))
	}
	return notifyEngine(cmd, searchEngine.Created(ctx, *doc))
}

func runPageList(cmd *cobra.Command, _ []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	pages, err := pageService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if len(pages) == 0 {
		cmd.Println("No pages found.")
		return nil
	}

	cmd.Println("Pages:")
	cmd.Println()
	for i := range pages {
		cmd.Printf("  %s\n", pages[i].Path)
		cmd.Printf("    Title: %s\n", pages[i].Title)
		cmd.Printf("    Status: %s\n", pageStatus(pages[i]))
		cmd.Println()
	}

	cmd.Printf("Total: %d pages\n", len(pages))
	return nil
}

func runPageShow(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	doc, err := pageService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	cmd.Printf("Page: %s\n\n", doc.Path)
	cmd.Printf("  Title:       %s\n", doc.Title)
	cmd.Printf("  Description: %s\n", doc.Description)
	cmd.Printf("  Locale:      %s\n", doc.LocaleCode)
	cmd.Printf("  Status:      %s\n", pageStatus(*doc))
	cmd.Printf("  Updated:     %s\n", doc.UpdatedAt.Format(timeFormat))
	cmd.Printf("  Render:      %d bytes\n", len(doc.Render))

	if pageShowRender {
		cmd.Println()
		cmd.Println(doc.Render)
	}
	return nil
}

func runPageDelete(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	ctx := cmd.Context()
	doc, err := pageService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}
	if err := pageService.Delete(ctx, doc.Path); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	cmd.Printf("Deleted page: %s\n", doc.Path)

	if searchEngine == nil {
		return nil
	}
	return notifyEngine(cmd, searchEngine.Deleted(ctx, *doc))
}

// notifyEngine reports the outcome of a page hook.
// Hooks without incremental indexing only need a rebuild hint.
func notifyEngine(cmd *cobra.Command, err error) error {
	if errors.Is(err, domain.ErrNotImplemented) {
		cmd.Println("Run 'wikisearch rebuild' to update the search index.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update search index: %w", err)
	}
	return nil
}

func readRender(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read page render: %w", err)
	}
	return string(data), nil
}

func pageStatus(doc domain.Document) string {
	switch {
	case doc.IsPrivate:
		return "private"
	case !doc.IsPublished:
		return "draft"
	default:
		return "published"
	}
}
