package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/solatis/disku/internal/core/api"
	"github.com/solatis/disku/internal/sizes"
	"github.com/spf13/cobra"
)

var statusURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current state known to a disku server",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusURL, "url", "u", "http://127.0.0.1:8080", "server base URL")
}

func runStatus(cmd *cobra.Command, args []string) error {
	endpoint, err := url.JoinPath(statusURL, "/disku/status")
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var reports []api.StoredReport
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return fmt.Errorf("cannot decode status response: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "MACHINE\tPATH\tUSED\tFREE\tTOTAL\tRATE\tALARM\tRECEIVED")
	for _, r := range reports {
		rate := "-"
		if r.TotalBytes > 0 {
			rate = fmt.Sprintf("%.1f%%", float64(r.UsedBytes)/float64(r.TotalBytes)*100)
		}
		alarm := ""
		if r.Triggered {
			alarm = r.Matched
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Machine,
			r.Path,
			sizes.FormatBytes(uint64(r.UsedBytes)),
			sizes.FormatBytes(uint64(r.FreeBytes)),
			sizes.FormatBytes(uint64(r.TotalBytes)),
			rate,
			alarm,
			r.ReceivedAt,
		)
	}
	return w.Flush()
}
