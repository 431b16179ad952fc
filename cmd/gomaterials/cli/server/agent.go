package server

import (
	"context"
	"fmt"

	"github.com/mwantia/gomaterials/internal/agent"
	"github.com/spf13/cobra"

	config "github.com/mwantia/gomaterials/internal/config/server"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the materials API server",
		Long:  `Start the materials API server with the configured metadata, storage and event backends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			agent := agent.NewAgent(cfg)
			return agent.Serve(context.Background())
		},
	}

	return cmd
}
