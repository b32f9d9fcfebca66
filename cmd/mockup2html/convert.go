package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Abraxas-365/mockup2html/app"
	"github.com/Abraxas-365/mockup2html/fsx/fsxlocal"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/project"
)

func convertCmd() *cobra.Command {
	var (
		outDir      string
		skipUnknown bool
	)

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert one image and write output_<millis>.txt and .html",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if skipUnknown {
				settings.SkipUnknown = true
			}

			out, err := fsxlocal.New(outDir)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := app.Build(ctx, settings, project.WithDownloader(project.NewFSDownloader(out, ".")))
			if err != nil {
				return err
			}
			defer func() {
				waitCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				if err := c.Close(waitCtx); err != nil {
					logx.Warn("archive writes still pending: %v", err)
				}
			}()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			up, err := c.Service.Upload(ctx, f.Name(), f)
			if err != nil {
				return err
			}
			logx.Info("Generated %d elements from %d predictions", up.Elements, len(up.Predictions))

			res, err := c.Service.Download(ctx)
			if err != nil {
				return err
			}
			for _, file := range res.Files {
				fmt.Fprintln(cmd.OutOrStdout(), file.Location)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the generated files")
	cmd.Flags().BoolVar(&skipUnknown, "skip-unknown", false, "drop unmapped classes instead of failing")
	return cmd
}
