package commands

import (
	"github.com/rmarques/wildchat/internal/api"
	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/models"
)

// newAPIClient builds a client from the resolved token and user config.
// Token resolution failing here is the startup-time configuration error;
// nothing network-related has happened yet.
func newAPIClient(cfg config.Config) (*api.Client, error) {
	token, err := config.ResolveToken()
	if err != nil {
		return nil, err
	}

	clientOpts := []api.ClientOption{
		api.WithModel(models.ModelFromName(getModel())),
		api.WithGeneration(cfg.Generation),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(cfg.BaseURL))
	}

	return api.NewClient(token, clientOpts...)
}
