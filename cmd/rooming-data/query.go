package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"rooming-data/internal/browse"
	"rooming-data/internal/export"
	"rooming-data/internal/models"
	"rooming-data/internal/querystate"
	"rooming-data/internal/service"
	"rooming-data/internal/viewmode"

	"github.com/spf13/cobra"
)

var (
	querySearch   string
	queryStatuses []string
	queryJSON     bool
	exportFormat  string
	exportOut     string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print rooming lists matching a search and status filter, grouped by event",
	Example: `  rooming-data query --search gala
  rooming-data query --statuses Approved,Pending --json`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "List the distinct statuses present in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runStatuses,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered rooming lists as xlsx or csv",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive terminal dashboard",
	Long: `browse reads commands from stdin and redraws the grouped view after
each change. Type help for the command list.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	for _, c := range []*cobra.Command{queryCmd, exportCmd, browseCmd} {
		c.Flags().StringVarP(&querySearch, "search", "s", "", "case-insensitive search over RFP name and agreement type")
		c.Flags().StringSliceVar(&queryStatuses, "statuses", nil, "comma-separated status filter")
	}
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the API result as JSON")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatXLSX), "xlsx or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default rooming-lists.<format>, - for stdout)")
}

func flagQuery() querystate.State {
	return querystate.New(querySearch, queryStatuses...)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	q := flagQuery()
	resp, err := a.svc.ListRoomingLists(ctx, service.ListRoomingListsRequest{Query: q})
	if err != nil {
		return err
	}
	result := models.NewGetRoomingListsModel(q.Search(), q.Statuses(), resp.Groups, resp.Matched, resp.Total, resp.Statuses)
	if queryJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printGroups(cmd.OutOrStdout(), result)
	return nil
}

func printGroups(w io.Writer, m models.GetRoomingListsModel) {
	fmt.Fprintln(w, m.Summary)
	if len(m.Groups) == 0 {
		fmt.Fprintln(w, "No events found matching your criteria.")
		return
	}
	for _, g := range m.Groups {
		fmt.Fprintf(w, "\n%s (%s)\n", g.EventName, g.EventID)
		for _, c := range g.Items {
			fmt.Fprintf(w, "  #%d  %-30s  %-10s  %-10s  cut-off %s %2d  %s  (%d bookings)\n",
				c.RoomingListID, c.RFPName, c.AgreementType, c.Status, c.CutOffMonth, c.CutOffDay, c.StayRange, c.BookingCount)
		}
	}
}

func runStatuses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	statuses, err := a.svc.ListStatuses(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(statuses, "\n"))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.svc.ListRoomingLists(ctx, service.ListRoomingListsRequest{Query: flagQuery()})
	if err != nil {
		return err
	}
	data, err := export.Render(format, resp.Groups)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = format.Filename()
	}
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rooming lists to %s\n", resp.Matched, out)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	b := browse.New(a.svc, flagQuery(), viewmode.New(), a.cfg.SearchDebounce, cmd.OutOrStdout(), a.logger)
	return b.Run(ctx, cmd.InOrStdin())
}
