package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/killallgit/podhub/internal/services/catalog"
	"github.com/killallgit/podhub/internal/services/feeds"
)

// feedsCmd lists the catalog
var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "List all feeds",
	Long: `Load the feed catalog from the content API and print it.

Public feeds are always listed. Pass --jwt (and --token for the feed
documents) to include a user's private feeds.

Example:
  podhub feeds
  podhub feeds --jwt eyJhbGci... --token abc123
  podhub feeds --format json`,
	RunE: runFeeds,
}

func init() {
	rootCmd.AddCommand(feedsCmd)

	feedsCmd.Flags().String("jwt", "", "content API JWT for private feeds")
	feedsCmd.Flags().String("token", "", "private feed token")
	feedsCmd.Flags().String("format", "table", "output format (table, json)")
}

func runFeeds(cmd *cobra.Command, args []string) error {
	jwt, _ := cmd.Flags().GetString("jwt")
	token, _ := cmd.Flags().GetString("token")
	format, _ := cmd.Flags().GetString("format")

	if format != "json" && format != "table" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg)

	svc, err := buildServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cat, err := svc.catalog.Load(ctx, jwt, token)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}

	printCatalog(out, cat)
	return nil
}

func printCatalog(out io.Writer, cat *catalog.Catalog) {
	failed := lo.SliceToMap(cat.Errors, func(e catalog.FeedError) (string, string) {
		return e.Slug, e.Message
	})

	var rows [][]string
	appendRows := func(visibility string, list []*feeds.Feed) {
		for _, f := range list {
			status := "ok"
			if msg, ok := failed[f.Slug]; ok {
				status = msg
			}
			rows = append(rows, []string{visibility, f.Slug, f.Title, strconv.Itoa(len(f.Episodes)), status})
		}
	}
	appendRows("public", cat.Public)
	appendRows("private", cat.Private)

	fmt.Fprintln(out, renderTable(out,
		[]string{"Visibility", "Slug", "Title", "Episodes", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))

	if cat.Stale {
		fmt.Fprintln(out, "Content API unreachable, public list served from the store")
	}
	for _, e := range cat.Errors {
		if e.Slug == "" {
			fmt.Fprintf(out, "Error: %s\n", e.Message)
		}
	}
}
