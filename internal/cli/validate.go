// internal/cli/validate.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without scraping",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Configuration OK: %d sources", len(cfg.Sources))
		byCat := map[string]int{}
		for _, s := range cfg.Sources {
			byCat[s.Category]++
		}
		fmt.Printf(" (business=%d news=%d event=%d)\n",
			byCat["business"], byCat["news"], byCat["event"])
		return nil
	},
}
