package main

import (
	"github.com/handiism/addprompt/internal/config"
	"github.com/handiism/addprompt/internal/tui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "addprompt-tui",
		Short:        "Interactive front end for addprompt",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return tui.Run(settings)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "settings file, JSON or YAML")

	if err := cmd.Execute(); err != nil {
		log.WithField("error", err.Error()).Fatal("application exited with an error")
	}
}
