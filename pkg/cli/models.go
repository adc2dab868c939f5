package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/fragen-dev/fragen/pkg/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available on the configured endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		apiClient, err := newAPIClient(cfg)
		if err != nil {
			return err
		}

		sp := NewSpinner("Fetching models...")
		sp.Start()
		list, err := models.New(apiClient).List(cmd.Context())
		sp.Stop()
		if err != nil {
			return err
		}

		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		for _, m := range list {
			created := time.Unix(m.Created, 0).Format("2006-01-02")
			fmt.Printf("%-40s  %-12s  %s\n", m.ID, m.OwnedBy, created)
		}
		return nil
	},
}
