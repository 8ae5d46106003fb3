package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soocke/griddle-bot-go/app"
	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/capture"
	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/headless"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var width, height int
	var still string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the control window and the griddle display",
		RunE: func(cmd *cobra.Command, args []string) error {
			var grabber capture.Grabber
			if still != "" {
				g, err := capture.LoadStillSource(still)
				if err != nil {
					return err
				}
				grabber = g
			}
			app.NewApp(width, height, ctx.cfg, ctx.cfgPath, grabber, ctx.logger).Start()
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 1024, "Main window width")
	cmd.Flags().IntVar(&height, "height", 700, "Main window height")
	cmd.Flags().StringVar(&still, "still", "", "Use this image as the camera instead of the screen")
	return cmd
}

func newSimulateCommand(ctx *commandContext) *cobra.Command {
	var patties []string
	var speed float64
	var maxSeconds int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run patty timers without a display and print every second",
		Example: `  griddle simulate --patty 200,300,12 --patty 600,300@4 --speed 10
  griddle simulate --patty 100,100,8 --max-seconds 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := headless.Options{MaxTicks: maxSeconds}
			for _, p := range patties {
				req, err := headless.ParsePatty(p)
				if err != nil {
					return err
				}
				opts.Patties = append(opts.Patties, req)
			}
			if speed <= 0 {
				return fmt.Errorf("speed must be positive, got %v", speed)
			}
			opts.Tick = time.Duration(float64(time.Duration(ctx.cfg.TickIntervalMs)*time.Millisecond) / speed)
			opts.Blink = time.Duration(float64(time.Duration(ctx.cfg.BlinkIntervalMs)*time.Millisecond) / speed)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			out := cmd.OutOrStdout()
			sum, err := headless.Simulate(runCtx, ctx.cfg, opts, func(f headless.Frame) {
				fmt.Fprintln(out, headless.FormatFrame(f))
			}, ctx.logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, headless.SummaryReport(sum).Render())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&patties, "patty", "p", nil, "Patty as x,y[,seconds][@second]; repeatable")
	cmd.Flags().Float64Var(&speed, "speed", 1, "Time multiplier")
	cmd.Flags().IntVar(&maxSeconds, "max-seconds", 0, "Stop after this many simulated seconds (0 = until empty)")
	return cmd
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [raw half-cooked fully-cooked]",
		Short: "Print the dominant hue of the three reference images",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected 0 or 3 image paths, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := ctx.cfg.ReferencePaths()
			if len(args) == 3 {
				copy(paths[:], args)
			}
			c := cooking.NewClassifier(ctx.cfg, nil, ctx.logger)
			res := c.ClassifyFiles(paths)
			if len(res) == 0 {
				return c.LastError()
			}
			fmt.Fprintln(cmd.OutOrStdout(), headless.ClassificationReport(res).Render())
			return nil
		},
	}
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var noLabels bool
	cmd := &cobra.Command{
		Use:   "detect <image>...",
		Short: "Find browned regions in still frames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath != "" && len(args) > 1 {
				return fmt.Errorf("--out needs exactly one input image")
			}
			classifier := cooking.NewClassifier(ctx.cfg, nil, ctx.logger)
			var refs []cooking.Classification
			if !noLabels {
				// Missing references only cost the labels.
				refs = classifier.ClassifyFiles(ctx.cfg.ReferencePaths())
			}
			out := cmd.OutOrStdout()
			for _, path := range args {
				img, err := imaging.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				regions := headless.DetectImage(img, ctx.cfg, classifier, refs)
				fmt.Fprintf(out, "%s: %d region(s)\n", filepath.Base(path), len(regions))
				if len(regions) > 0 {
					fmt.Fprintln(out, headless.RegionReport(regions).Render())
				}
				if outPath != "" {
					if err := headless.SaveAnnotated(outPath, img, regions); err != nil {
						return err
					}
					fmt.Fprintf(out, "Wrote %s\n", outPath)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write an annotated copy of the image")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "Skip labelling regions against the reference images")
	return cmd
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", ctx.cfgPath)
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(ctx.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultPath()
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.DefaultConfig().Save(target); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination (.json, .toml or .yaml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}
