package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	printingapp "github.com/swissbill/backend/internal/application/printing"
)

func newRenderCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "render <request.json|->",
		Short: "Render a document request to PDF",
		Example: `  # Write INV-2503-001.pdf to the current directory
  docgen render invoice.json

  # Choose the output file
  docgen render invoice.json -o out/invoice.pdf

  # Pipe the PDF
  cat invoice.json | docgen render - -o - > invoice.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req printingapp.RenderRequest
			if err := readRequest(cmd, args[0], &req); err != nil {
				return err
			}

			out, err := a.service.Render(cmd.Context(), a.account, req)
			if err != nil {
				return err
			}

			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(out.PDFData)
				return err
			}
			if outPath == "" {
				outPath = out.Filename
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(outPath, out.PDFData, 0o644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}

			a.log.Info("document rendered",
				zap.String("file", outPath),
				zap.Int("pages", out.PageCount),
				zap.String("payment_slip", out.SlipStatus),
			)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d page(s), payment slip %s, total %s %s\n",
				outPath, out.PageCount, out.SlipStatus, out.Totals.Total, out.Totals.Currency)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", `output file, "-" for stdout (default: <number>.pdf)`)
	return cmd
}

func newTotalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "totals <request.json|->",
		Short: "Compute line and document totals",
		Long: `Reads a request with an "items" array (a render request works too) and
prints the rounded line totals, document totals and tax rate summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req printingapp.TotalsRequest
			if err := readRequest(cmd, args[0], &req); err != nil {
				return err
			}
			result, err := a.service.CalculateTotals(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}
}

func newNumberCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:       "number <invoice|quote|order>",
		Short:     "Generate document numbers",
		Long:      `Generates and reserves the next document number for --account.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"invoice", "quote", "order"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			for i := 0; i < count; i++ {
				result, err := a.service.GenerateNumber(cmd.Context(), a.account,
					printingapp.GenerateNumberRequest{Type: args[0]})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Number)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "how many numbers to generate")
	return cmd
}

func newPayloadCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "payload <request.json|->",
		Short: "Show the QR-bill payload of an invoice request",
		Long: `Prints the Swiss QR-bill payload the rendered invoice would carry, or
the reason its payment slip would be skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req printingapp.QRPayloadRequest
			if err := readRequest(cmd, args[0], &req); err != nil {
				return err
			}
			result, err := a.service.QRPayload(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !raw {
				return writeJSON(cmd, result)
			}
			if result.Payload == "" {
				return fmt.Errorf("payment slip skipped: %s", result.Reason)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), result.Payload)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print only the payload text")
	return cmd
}
