// Package main provides the CLI entry point for xlembed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/javajack/xlembed"
	"github.com/javajack/xlembed/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	sheet       string
	idColumn    string
	imageColumn string
	workers     int
	verbose     bool

	workbookPath string
	archivePath  string
	outputPath   string
	strict       bool

	addr string
)

// errNotices makes --strict runs exit non-zero after writing the output.
var errNotices = errors.New("some rows were not embedded")

func main() {
	rootCmd := &cobra.Command{
		Use:           "xlembed",
		Short:         "Embed part screenshots into an Excel workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", "", "Sheet to process (default: active sheet)")
	rootCmd.PersistentFlags().StringVar(&idColumn, "id-column", "", "Identifier column header (default: \"Property ID\")")
	rootCmd.PersistentFlags().StringVar(&imageColumn, "image-column", "", "Image column header (default: \"Screenshot\")")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Parallel image decoders")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed images from a zip archive into a workbook",
		Args:  cobra.NoArgs,
		RunE:  runEmbed,
	}
	embedCmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Input .xlsx file")
	embedCmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Zip archive of part_<id>.jpg images")
	embedCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: <workbook>_with_images.xlsx)")
	embedCmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any row was not embedded")
	embedCmd.MarkFlagRequired("workbook")
	embedCmd.MarkFlagRequired("archive")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a workbook and archive without writing output",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Input .xlsx file")
	validateCmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Zip archive of images")
	validateCmd.MarkFlagRequired("workbook")
	validateCmd.MarkFlagRequired("archive")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the embedder over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	rootCmd.AddCommand(embedCmd, validateCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// options merges the config file with flags; flags win.
func options(log zerolog.Logger) ([]xlembed.Option, error) {
	var opts []xlembed.Option
	if configPath != "" {
		cfg, err := xlembed.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cfg.Options()...)
	}
	opts = append(opts, xlembed.WithColumns(idColumn, imageColumn), xlembed.WithLogger(log))
	if sheet != "" {
		opts = append(opts, xlembed.WithSheet(sheet))
	}
	if workers > 0 {
		opts = append(opts, xlembed.WithConcurrency(workers))
	}
	return opts, nil
}

func runEmbed(cmd *cobra.Command, args []string) error {
	log := newLogger()
	opts, err := options(log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := xlembed.EmbedFiles(ctx, workbookPath, archivePath, outputPath, opts...)
	if err != nil {
		return fmt.Errorf("%s error: %w", xlembed.Kind(err), err)
	}
	fmt.Print(res.Describe())
	if strict && len(res.Notices) > 0 {
		return fmt.Errorf("%w: %d notices", errNotices, len(res.Notices))
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := newLogger()
	opts, err := options(log)
	if err != nil {
		return err
	}
	workbook, err := os.ReadFile(workbookPath)
	if err != nil {
		return err
	}
	archive, err := os.ReadFile(archivePath)
	if err != nil {
		return err
	}
	issues, err := xlembed.Validate(workbook, archive, opts...)
	if err != nil {
		return fmt.Errorf("%s error: %w", xlembed.Kind(err), err)
	}
	failed := false
	for _, issue := range issues {
		fmt.Println(issue)
		if issue.Severity == xlembed.SeverityError {
			failed = true
		}
	}
	if failed {
		return errors.New("validation failed")
	}
	fmt.Printf("%d issues\n", len(issues))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()
	opts, err := options(log)
	if err != nil {
		return err
	}
	e := server.New(log, opts...).Echo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		e.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
