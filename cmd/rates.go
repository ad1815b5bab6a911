package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sourcing-cli/internal/rates"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect the duty-rate table",
}

var ratesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Dump the loaded duty table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("rates"); err != nil {
			return err
		}
		table, err := rates.LoadXLSX(cfg.Rates.XLSXPath)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table.Rates())
	},
}

var ratesLookupCmd = &cobra.Command{
	Use:   "lookup <hs-code>",
	Short: "Look up the duty range for an HS code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("rates"); err != nil {
			return err
		}
		table, err := rates.LoadXLSX(cfg.Rates.XLSXPath)
		if err != nil {
			return err
		}
		r, ok := table.Lookup(args[0])
		if !ok {
			return eris.Errorf("no duty rate for HS code %s", args[0])
		}
		return json.NewEncoder(os.Stdout).Encode(r)
	},
}

func init() {
	ratesCmd.AddCommand(ratesShowCmd, ratesLookupCmd)
	rootCmd.AddCommand(ratesCmd)
}
