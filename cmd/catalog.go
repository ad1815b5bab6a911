package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/sourcing-cli/internal/content"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the embedded verdict content catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse the embedded catalog and report its shape",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := content.Load()
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]int{
			"templates": c.Size(),
			"nudges":    len(c.Nudges()),
		})
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}
