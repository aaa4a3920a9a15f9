package cli

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/advait-mulye/medner/internal/model"
)

const serviceTimeout = 10 * time.Second

var entityTypesCmd = &cobra.Command{
	Use:   "entity-types",
	Short: "List the entity types the service recognizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), serviceTimeout)
		defer cancel()

		types, err := newClient(cfg).EntityTypes(ctx)
		if err != nil {
			return fmt.Errorf("fetch entity types: %w", err)
		}

		labels := make([]string, 0, len(types))
		for label := range types {
			labels = append(labels, label)
		}
		slices.Sort(labels)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, label := range labels {
			fmt.Fprintf(tw, "%s %s\t%s\n", model.StyleFor(label).Icon, label, types[label])
		}
		return tw.Flush()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), serviceTimeout)
		defer cancel()

		c := newClient(cfg)
		status, err := c.Health(ctx)
		if err != nil {
			return fmt.Errorf("%s unreachable: %w", c.BaseURL(), err)
		}
		if !status.Healthy() {
			return fmt.Errorf("%s reports %q: %s", c.BaseURL(), status.Status, status.Message)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is %s\n", c.BaseURL(), status.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(entityTypesCmd)
	rootCmd.AddCommand(healthCmd)
}
