package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/facture-dev/facture/internal/config"
	"github.com/facture-dev/facture/internal/id"
	"github.com/facture-dev/facture/internal/layout"
	"github.com/facture-dev/facture/internal/logger"
	"github.com/facture-dev/facture/internal/rates"
)

const (
	defaultConfigName = "config.json"
	outputDirName     = "invoices"
	emissionLayout    = "02/01/2006"
)

func newGenerateCommand() *cobra.Command {
	var (
		configName string
		dateStr    string
		rateURL    string
		stylePath  string
	)

	cmd := &cobra.Command{
		Use:   "generate [directory]",
		Short: "Generate the English and French invoice PDFs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			emission := time.Now()
			if dateStr != "" {
				emission, err = time.Parse(emissionLayout, dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
			}

			return runGenerate(absDir, generateOptions{
				ConfigName: configName,
				Emission:   emission,
				RateURL:    rateURL,
				StylePath:  stylePath,
			})
		},
	}

	cmd.Flags().StringVar(&configName, "config", defaultConfigName, "config file name inside the directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "emission date as DD/MM/YYYY (default today)")
	cmd.Flags().StringVar(&rateURL, "rate-url", rates.DefaultFeedURL, "exchange rate feed URL")
	cmd.Flags().StringVar(&stylePath, "style", "", "optional YAML style overrides file")

	return cmd
}

type generateOptions struct {
	ConfigName string
	Emission   time.Time
	RateURL    string
	StylePath  string
}

// runGenerate is the whole pipeline: load, reconcile, number, resolve rate,
// render both languages, write files, persist the updated config. Fatal
// errors return before anything is written; only the rate lookup is allowed
// to fail softly.
func runGenerate(dir string, opts generateOptions) error {
	log := logger.WithComponent("generate")

	cfgPath := filepath.Join(dir, opts.ConfigName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := cfg.Reconcile(); err != nil {
		return err
	}

	invoiceID, nextNumber := id.Next(opts.Emission, cfg.Invoice.LastInvoiceNumber)
	log.Info().Str("invoice_id", invoiceID).Msg("generating invoice")

	resolver := rates.NewResolver()
	if opts.RateURL != "" {
		resolver.URL = opts.RateURL
	}
	res := resolver.Resolve(opts.Emission)
	if res.OK {
		rate := res.Rate
		cfg.ExchangeRate = &rate
		log.Info().Str("rate", rate.StringFixed(4)).Msg("exchange rate resolved")
	} else {
		cfg.ExchangeRate = nil
		log.Warn().Str("note", res.Note).Msg("exchange rate unavailable")
	}
	cfg.ExchangeRateNote = res.Note

	style := layout.DefaultStyle()
	if opts.StylePath != "" {
		style, err = layout.LoadStyle(opts.StylePath)
		if err != nil {
			return err
		}
	}
	renderer := layout.NewRenderer(style)

	// Render both variants before touching the filesystem so a failure in
	// either leaves no partial output and no persisted state change.
	english, err := renderer.Render(cfg, invoiceID, opts.Emission, layout.English)
	if err != nil {
		return fmt.Errorf("rendering English invoice: %w", err)
	}
	french, err := renderer.Render(cfg, invoiceID, opts.Emission, layout.French)
	if err != nil {
		return fmt.Errorf("rendering French invoice: %w", err)
	}

	outDir := filepath.Join(dir, outputDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	month := opts.Emission.Month().String()
	englishPath := filepath.Join(outDir, fmt.Sprintf("%s - %s.pdf", cfg.OutputName, month))
	frenchPath := filepath.Join(outDir, fmt.Sprintf("%s - %s fr.pdf", cfg.OutputName, month))

	if err := os.WriteFile(englishPath, english, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", englishPath, err)
	}
	if err := os.WriteFile(frenchPath, french, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", frenchPath, err)
	}

	// Persist the numbering increment and resolved rate only now, after
	// both renders and writes succeeded.
	cfg.Invoice.LastInvoiceNumber = nextNumber
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("persisting config: %w", err)
	}

	fmt.Printf("Invoice generated: %s\n", englishPath)
	fmt.Printf("Invoice generated (French): %s\n", frenchPath)
	return nil
}
