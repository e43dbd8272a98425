package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"

	"github.com/shin1244/BubbleTrans/internal/archive"
	"github.com/shin1244/BubbleTrans/internal/cli"
	"github.com/shin1244/BubbleTrans/internal/models"
	"github.com/shin1244/BubbleTrans/internal/processor"
	"github.com/shin1244/BubbleTrans/internal/render"
	"github.com/shin1244/BubbleTrans/internal/viewer"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)
	renderCmd := cli.CreateRenderCommand(flags)
	viewCmd := cli.CreateViewCommand(flags)
	rootCmd.AddCommand(renderCmd, viewCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.ApplyConfig(flags)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), flags)
	}
	renderCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runRender(flags)
	}
	viewCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return viewer.Run(&viewer.Config{
			Dir:      flags.Dir,
			Font:     flags.RenderFont,
			FontSize: flags.RenderFontSize,
			Warn:     os.Stderr,
		})
	}

	// Ctrl-C aborts the region in flight; its page is left as .partial
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	// Handle --archive flag
	if flags.Archive {
		if _, err := archive.ArchiveOutputs(flags.Dir, os.Stdout); err != nil {
			return fmt.Errorf("failed to archive results: %w", err)
		}
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	if info, err := os.Stat(flags.Dir); err != nil || !info.IsDir() {
		return fmt.Errorf("image directory does not exist: %s", flags.Dir)
	}

	logger := cli.NewLogger(flags.Verbose, os.Stderr)
	deps, err := cli.BuildDeps(flags, logger)
	if err != nil {
		return err
	}

	proc, err := processor.New(deps, cli.ProcessorOptions(flags))
	if err != nil {
		return err
	}

	fmt.Printf("Translating %s (%s -> %s) with %s/%s/%s\n",
		flags.Dir, flags.SourceLang, flags.TargetLang,
		deps.Detector.Name(), deps.Recognizer.Name(), deps.Translator.Name())

	summary, err := proc.ProcessDirectory(ctx, flags.Dir)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d page(s) failed", summary.Failed)
	}

	fmt.Printf("\nDone! Results saved next to the images in: %s\n", flags.Dir)
	return nil
}

func runRender(flags *cli.Flags) error {
	var face font.Face
	if !flags.RenderNoText {
		var err error
		if face, err = render.OverlayFace(flags.RenderFont, flags.RenderFontSize, os.Stderr); err != nil {
			return err
		}
	}

	n, err := render.Directory(flags.Dir, flags.RenderOut, face, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("\nRendered %d page(s) to: %s\n", n, flags.RenderOut)
	return nil
}
