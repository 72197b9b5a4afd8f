package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/client"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

var (
	warningsSource   string
	warningsBureau   string
	warningsNotified string
	warningsWithGeo  bool
	warningsSince    string
	warningsPage     int
	warningsPageSize int
)

// NewWarningsCmd creates the warnings command for inspecting stored
// navigation warnings through the HTTP API.
func NewWarningsCmd() *cobra.Command {
	warningsCmd := &cobra.Command{
		Use:   "warnings",
		Short: "Inspect stored navigation warnings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarningsList(cmd)
		},
	}
	listCmd.Flags().StringVar(&warningsSource, "source", "", "Filter by authority source (CN_MSA, TW_MPB)")
	listCmd.Flags().StringVar(&warningsBureau, "bureau", "", "Filter by issuing bureau")
	listCmd.Flags().StringVar(&warningsNotified, "notified", "", "Filter by notification state: true|false")
	listCmd.Flags().BoolVar(&warningsWithGeo, "with-coordinates", false, "Only warnings with extracted coordinates")
	listCmd.Flags().StringVar(&warningsSince, "since", "", "Only warnings scraped after this RFC 3339 time")
	listCmd.Flags().IntVar(&warningsPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&warningsPageSize, "page-size", 20, "Warnings per page (1-100)")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one warning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarningsGet(cmd, args[0])
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate warning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarningsStats(cmd)
		},
	}

	dispatchCmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Deliver notifications for unnotified warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarningsDispatch(cmd)
		},
	}
	dispatchCmd.Flags().StringVar(&warningsSource, "source", "", "Only dispatch warnings from one authority source")

	warningsCmd.AddCommand(listCmd, getCmd, statsCmd, dispatchCmd)
	return warningsCmd
}

func runWarningsList(cmd *cobra.Command) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	opts := client.ListOptions{
		Source:          warningsSource,
		Bureau:          warningsBureau,
		WithCoordinates: warningsWithGeo,
		Page:            warningsPage,
		PageSize:        warningsPageSize,
	}
	switch strings.ToLower(warningsNotified) {
	case "":
	case "true":
		v := true
		opts.Notified = &v
	case "false":
		v := false
		opts.Notified = &v
	default:
		return errors.New(errors.CodeInvalidParam, "--notified must be true or false, got "+warningsNotified)
	}
	if warningsSince != "" {
		since, parseErr := time.Parse(time.RFC3339, warningsSince)
		if parseErr != nil {
			return errors.Wrap(parseErr, errors.CodeInvalidParam, "--since must be an RFC 3339 timestamp")
		}
		opts.Since = since
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	warnings, pagination, err := cliCtx.Client.Warnings().List(ctx, opts)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, warnings)
	}
	renderWarningList(cmd, warnings, pagination)
	return nil
}

func runWarningsGet(cmd *cobra.Command, id string) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	w, err := cliCtx.Client.Warnings().Get(ctx, id)
	if err != nil {
		return err
	}
	return PrintResult(cmd, w)
}

func runWarningsStats(cmd *cobra.Command) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	stats, err := cliCtx.Client.Warnings().Stats(ctx)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, stats)
	}
	renderStatistics(cmd, stats)
	return nil
}

func runWarningsDispatch(cmd *cobra.Command) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	result, err := cliCtx.Client.Warnings().Dispatch(ctx, warningsSource)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pending: %d  delivered: %d  suppressed: %d\n",
		result.Pending, result.Delivered, result.Suppressed)
	return nil
}

func renderWarningList(cmd *cobra.Command, warnings []client.Warning, pagination *client.Pagination) {
	out := cmd.OutOrStdout()
	if len(warnings) == 0 {
		fmt.Fprintln(out, "No warnings found.")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Source", "Bureau", "Title", "Coords", "Notified"})
	table.SetBorder(false)
	for _, w := range warnings {
		table.Append([]string{
			w.ID,
			w.Source,
			w.Bureau,
			truncate(w.Title, 40),
			fmt.Sprintf("%d", len(w.Coordinates)),
			fmt.Sprintf("%t", w.Notified),
		})
	}
	table.Render()
	if pagination != nil {
		fmt.Fprintf(out, "page %d (%d per page), %d total\n",
			pagination.Page, pagination.PageSize, pagination.Total)
	}
}

func renderStatistics(cmd *cobra.Command, stats *client.Statistics) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total warnings:    %d\n", stats.Total)
	fmt.Fprintf(out, "Notified:          %d\n", stats.Notified)
	fmt.Fprintf(out, "Unnotified:        %d\n", stats.Unnotified)
	fmt.Fprintf(out, "With coordinates:  %d\n", stats.WithCoordinates)
	fmt.Fprintf(out, "Coordinate points: %d\n", stats.CoordinatePoints)

	renderCountTable(out, "Source", stats.BySource)
	renderCountTable(out, "Bureau", stats.ByBureau)
	renderCountTable(out, "Keyword", stats.ByKeyword)
}

func renderCountTable(out io.Writer, label string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{label, "Count"})
	table.SetBorder(false)
	for key, n := range counts {
		table.Append([]string{key, fmt.Sprintf("%d", n)})
	}
	table.Render()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
