package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/podhub/internal/services/feeds"
	"github.com/killallgit/podhub/internal/services/upstream"
)

// ingestCmd normalizes a single feed
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Normalize a single feed",
	Long: `Normalize one feed and print the result.

With --file the RSS document is read from disk and no network access is
made. With --slug the document is fetched from the content API, using
--token for private feeds.

Example:
  podhub ingest --file ./show.xml
  podhub ingest --slug my-show --format table
  podhub ingest --slug members-only --token abc123`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("file", "", "read the RSS document from a file")
	ingestCmd.Flags().String("slug", "", "feed slug")
	ingestCmd.Flags().String("token", "", "private feed token")
	ingestCmd.Flags().String("format", "json", "output format (json, table)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	slug, _ := cmd.Flags().GetString("slug")
	token, _ := cmd.Flags().GetString("token")
	format, _ := cmd.Flags().GetString("format")

	if file == "" && slug == "" {
		return fmt.Errorf("either --file or --slug is required")
	}
	if format != "json" && format != "table" {
		return fmt.Errorf("unknown format %q", format)
	}

	var (
		feed *feeds.Feed
		err  error
	)
	if file != "" {
		feed, err = ingestFile(file, slug)
	} else {
		feed, err = ingestRemote(cmd, slug, token)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "table" {
		printFeed(out, feed)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(feed)
}

func ingestFile(path, slug string) (*feeds.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed document: %w", err)
	}
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return feeds.Normalize(string(data), &feeds.FeedSummary{Slug: slug})
}

func ingestRemote(cmd *cobra.Command, slug, token string) (*feeds.Feed, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cmd, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := upstream.NewClient(cfg.Upstream)
	return feeds.NewIngestor(client).Ingest(ctx, slug, token, nil)
}

func printFeed(out io.Writer, feed *feeds.Feed) {
	fmt.Fprintf(out, "%s (%s)\n", feed.Title, feed.Slug)
	if feed.Cover != "" {
		fmt.Fprintf(out, "Cover: %s\n", feed.Cover)
	}
	fmt.Fprintf(out, "Public: %t  Episodes: %d\n\n", feed.IsPublic, len(feed.Episodes))

	rows := make([][]string, 0, len(feed.Episodes))
	for i, ep := range feed.Episodes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ep.GUID,
			ep.Title,
			feeds.FormatDuration(ep.DurationSeconds),
			ep.ReleasedAt,
		})
	}

	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "GUID", "Title", "Duration", "Released"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
}
