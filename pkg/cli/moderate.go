package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fragen-dev/fragen/pkg/moderations"
)

var moderateCmd = &cobra.Command{
	Use:   "moderate <text>",
	Short: "Check text against the moderation endpoint",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		apiClient, err := newAPIClient(cfg)
		if err != nil {
			return err
		}

		input := strings.Join(args, " ")
		sp := NewSpinner("Moderating...")
		sp.Start()
		result, err := moderations.New(apiClient).Create(cmd.Context(), &moderations.Request{Input: input})
		sp.Stop()
		if err != nil {
			return err
		}

		for _, r := range result.Results {
			if r.Flagged {
				color.New(color.FgRed, color.Bold).Println("flagged")
			} else {
				color.New(color.FgGreen).Println("ok")
			}
			scores, err := json.MarshalIndent(r.CategoryScores, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(scores))
		}
		return nil
	},
}
