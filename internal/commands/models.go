package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models hosted on the router",
	Long: `List the models the inference router currently hosts. Any listed id can
be used with --model or the /model chat command. Without a token only the
built-in shortlist is shown.`,
	RunE: runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("config unreadable, using defaults")
		fmt.Fprintf(os.Stderr, "warning: config unreadable (%v), using defaults\n", err)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		// No token: still useful to show the known-good shortlist
		fmt.Println("No token configured; showing the built-in model shortlist.")
		fmt.Println()
		return printModelTable(models.AllModels(), cfg.DefaultModel)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	spin := newSpinner("Fetching model list")
	spin.start()

	list, err := client.ListModels(ctx)
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to list models"))
		return err
	}
	spin.stopWithSuccess(fmt.Sprintf("%d models available", len(list)))

	return printModelTable(list, cfg.DefaultModel)
}

func printModelTable(list []models.Model, defaultName string) error {
	if defaultName == "" {
		defaultName = models.DefaultModel.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tDESCRIPTION\tDEFAULT")
	_, _ = fmt.Fprintln(w, "-----\t-----------\t-------")

	for _, m := range list {
		isDefault := ""
		if m.Name == defaultName {
			isDefault = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Description, isDefault)
	}

	return w.Flush()
}
