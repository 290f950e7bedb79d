package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	printOut(stats, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s, %d keys)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)), stats.TotalKeys)
		for _, k := range stats.Keys {
			fmt.Fprintf(w, "  %-32s %8s  %s\n", k.Key, humanize.Bytes(uint64(k.Bytes)), k.UpdatedAt)
		}
	})
}
