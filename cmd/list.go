package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/productdevbook/serial-logger/internal/pipeline"
	"github.com/productdevbook/serial-logger/internal/record"
	"github.com/productdevbook/serial-logger/internal/scanner"
	"github.com/productdevbook/serial-logger/internal/ui"
)

var jsonOutput bool

var listCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List connected serial ports",
	Long: `List the serial ports attached to this machine without writing a report.
An optional filter fuzzy-matches port, description, manufacturer, serial and vid:pid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func runList(cmd *cobra.Command, args []string) error {
	ports, err := scanner.New().Scan()
	if err != nil {
		return fmt.Errorf("failed to scan ports: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(ports) == 0 {
		if jsonOutput {
			fmt.Fprintln(out, "[]")
		} else {
			fmt.Fprintln(out, "No serial ports found.")
		}
		return nil
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = pipeline.UnknownHost
	}

	var query string
	if len(args) > 0 {
		query = args[0]
	}

	records := record.Normalize(ports, hostname)

	if jsonOutput {
		return printJSON(out, ui.Filter(records, query))
	}

	if interactive(cmd) {
		return ui.RunBrowser(records, query, out)
	}

	return printTable(out, ui.Filter(records, query))
}

func printJSON(w io.Writer, records []record.PortRecord) error {
	if records == nil {
		records = []record.PortRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func printTable(w io.Writer, records []record.PortRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tVID:PID\tDESCRIPTION\tMANUFACTURER\tSERIAL")
	fmt.Fprintln(tw, "----\t-------\t-----------\t------------\t------")

	for _, r := range records {
		ids := "-"
		if r.VID != nil && r.PID != nil {
			ids = *r.VID + ":" + *r.PID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Port, ids, r.Description, dash(r.Manufacturer), dash(r.SerialNumber))
	}

	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
