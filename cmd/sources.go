package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/registry"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available data sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := newClient()
		reg := registry.New(cfg, client)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UID\tNAME\tREALTIME\tCONFIG KEYS")
		for _, info := range reg.Infos() {
			realtime := "no"
			if info.HasRealtimeData {
				realtime = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				info.UID, info.Name, realtime, strings.Join(info.RequiredConfigKeys, ","))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
