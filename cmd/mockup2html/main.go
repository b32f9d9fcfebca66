package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Abraxas-365/mockup2html/app"
	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/logx"
)

var (
	configPath string
	logLevel   string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logx.Error("%s", errx.Print(err))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mockup2html",
		Short:         "Turn UI mockup images into absolutely positioned HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				level, err := logx.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				logx.SetLevel(level)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "mockup2html.yaml", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")

	root.AddCommand(serveCmd(), convertCmd(), classesCmd())
	return root
}

func loadSettings() (app.Settings, error) {
	return app.Load(configPath)
}
