package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	printingapp "github.com/swissbill/backend/internal/application/printing"
	"github.com/swissbill/backend/internal/domain/document"
	domainprinting "github.com/swissbill/backend/internal/domain/printing"
	"github.com/swissbill/backend/internal/domain/shared/valueobject"
	"github.com/swissbill/backend/internal/infrastructure/cache"
	"github.com/swissbill/backend/internal/infrastructure/config"
	"github.com/swissbill/backend/internal/infrastructure/logger"
	"github.com/swissbill/backend/internal/infrastructure/printing"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
	"github.com/swissbill/backend/internal/infrastructure/storage"
	"github.com/swissbill/backend/internal/interfaces/http/middleware"
)

// app carries the state shared by all subcommands
type app struct {
	configPath string
	account    string
	verbose    bool

	cfg     *config.Config
	log     *zap.Logger
	service *printingapp.DocumentService
	closers []func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "docgen",
		Short: "Render Swiss invoices, quotes and orders from JSON",
		Long: `docgen reads the same JSON request bodies as the document HTTP API and
writes PDFs, totals, document numbers or QR-bill payloads.

Configuration is read from config.toml (or --config) and SWB_* environment
variables. A .env file in the working directory is loaded first.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ./config.toml)")
	root.PersistentFlags().StringVar(&a.account, "account", middleware.DefaultAccountID, "account that scopes document numbers")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(
		newRenderCmd(a),
		newTotalsCmd(a),
		newNumberCmd(a),
		newPayloadCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logger.FromConfig(cfg.Log, cfg.App.Env)
	logCfg.Output = "stderr"
	if a.verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log
	middleware.SetupValidator()

	service, err := a.newDocumentService(context.Background())
	if err != nil {
		return err
	}
	a.service = service
	return nil
}

func (a *app) teardown() error {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = logger.Sync(a.log)
	}
	return nil
}

// newDocumentService builds the same pipeline as the server. The redis
// sequence falls back to memory so offline runs never need Redis.
func (a *app) newDocumentService(ctx context.Context) (*printingapp.DocumentService, error) {
	cfg := a.cfg

	store, err := cache.NewNumberStoreFactory(cfg.Redis,
		cache.WithLogger(a.log),
		cache.WithReservationTTL(cfg.Billing.NumberReserveTTL),
	).CreateStore(cfg.Billing.NumberSequence)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	archive, err := storage.NewArchive(ctx, &cfg.Storage, a.log)
	if err != nil {
		return nil, err
	}

	margins, err := domainprinting.NewMargins(
		cfg.Printing.MarginTop, cfg.Printing.MarginRight,
		cfg.Printing.MarginBottom, cfg.Printing.MarginLeft,
	)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(cfg.Billing.Currency)
	calculator := document.NewTotalsCalculator(cfg.Billing.StandardTaxRate)
	encoder := qrbill.NewEncoder(qrbill.EncoderConfig{
		Currency:        cfg.Billing.Currency,
		DefaultCountry:  cfg.Billing.DefaultCountry,
		DefaultLanguage: qrbill.Language(cfg.Billing.DefaultLanguage),
	}, a.log)

	renderer := printing.NewRenderer(printing.RendererConfig{
		PaperSize: domainprinting.PaperSizeA4,
		Margins:   margins,
		Currency:  currency,
		Creator:   cfg.Printing.Creator,
	}, printing.RendererDeps{
		Calculator: calculator,
		Encoder:    encoder,
		Logos: printing.NewLogoFetcher(printing.LogoFetcherConfig{
			Timeout:  cfg.Printing.LogoTimeout,
			MaxBytes: cfg.Printing.LogoMaxBytes,
		}),
		Logger: a.log,
	})

	return printingapp.NewDocumentService(printingapp.ServiceDeps{
		Renderer:   renderer,
		Calculator: calculator,
		Encoder:    encoder,
		Numbers: document.NewNumberGenerator(store.Sequence,
			document.WithMaxRetries(cfg.Billing.NumberMaxRetries),
		),
		Registry: store.Registry,
		Archive:  archive,
		Currency: currency,
		Logger:   a.log,
	}), nil
}

// readRequest decodes a JSON request from path ("-" reads stdin) and
// validates it with the same binding rules as the HTTP API.
func readRequest(cmd *cobra.Command, path string, out any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("request is not valid JSON: %w", err)
	}
	if err := binding.Validator.ValidateStruct(out); err != nil {
		resp := middleware.FormatValidationErrors(err, "")
		if resp.Error != nil && len(resp.Error.Details) > 0 {
			d := resp.Error.Details[0]
			return fmt.Errorf("invalid request: %s: %s", d.Field, d.Message)
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// writeJSON prints v indented to the command's output
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
