package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fragen-dev/fragen/pkg/embeddings"
)

var embedModel string

var embedCmd = &cobra.Command{
	Use:   "embed <text>",
	Short: "Compute an embedding vector for the given text",
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
		sp := NewSpinner("Embedding...")
		sp.Start()
		vector, err := embeddings.New(apiClient).Embed(cmd.Context(), embedModel, input)
		sp.Stop()
		if err != nil {
			return err
		}

		fmt.Printf("dimensions: %d\n", len(vector))
		for i, v := range vector {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Printf("%g", v)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	embedCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "Embedding model to use")
}
