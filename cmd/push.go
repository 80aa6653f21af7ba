package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/registry"
)

var pushCmd = &cobra.Command{
	Use:   "push <source-uid> <payload-file>",
	Short: "Convert a pushed payload file for a push source",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		uid, path := args[0], args[1]

		client := newClient()
		reg := registry.New(cfg, client)

		conv, err := reg.Push(uid)
		if err != nil {
			return err
		}

		payload, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "push: read %s", path)
		}

		runner := converter.NewRunner(cfg, client)
		result, err := runner.RunPush(conv, payload)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
