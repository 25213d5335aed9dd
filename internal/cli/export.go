package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/batch"
	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/export"
)

// exportCommand creates the export command group.
func (c *CLI) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as a PDF sheet, PNG archive, or JSON",
	}
	cmd.AddCommand(c.exportPDFCommand())
	cmd.AddCommand(c.exportZipCommand())
	cmd.AddCommand(c.exportJSONCommand())
	return cmd
}

// exportPDFCommand creates the "export pdf" subcommand.
func (c *CLI) exportPDFCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export labels as a multi-page PDF sheet",
		Long: `Export labels as a multi-page PDF sheet.

Valid records fill the page grid left to right, top to bottom; a new
page starts whenever the grid is full. Invalid records are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExportPDF(cmd.Context(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: labels_<timestamp>.pdf)")
	return cmd
}

func (c *CLI) runExportPDF(ctx context.Context, output string) error {
	if output == "" {
		output = defaultOutputName("pdf")
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	// Records may have been added under a different configured format.
	col.Revalidate(c.cfg.Label.Format)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	exp := c.newExporter(ctx)
	err = c.runWithProgress("Exporting PDF", func(report export.ProgressFunc) error {
		exp.Progress = report
		return exp.Document(ctx, f, col, c.cfg.Label, c.cfg.Page, c.cfg.LayoutOptions())
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(output)
		if errors.IsPrecondition(err) {
			printWarning("%s", errors.UserMessage(err))
			return nil
		}
		return err
	}

	printSuccess("Exported %d labels", len(col.Valid()))
	printFile(output)
	return nil
}

// exportZipCommand creates the "export zip" subcommand.
func (c *CLI) exportZipCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "zip",
		Short: "Export labels as a ZIP archive of PNG images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExportZip(cmd.Context(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: labels_<timestamp>.zip)")
	return cmd
}

func (c *CLI) runExportZip(ctx context.Context, output string) error {
	if output == "" {
		output = defaultOutputName("zip")
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	// Records may have been added under a different configured format.
	col.Revalidate(c.cfg.Label.Format)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	exp := c.newExporter(ctx)
	err = c.runWithProgress("Exporting archive", func(report export.ProgressFunc) error {
		exp.Progress = report
		return exp.Archive(ctx, f, col, c.cfg.Label)
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(output)
		if errors.IsPrecondition(err) {
			printWarning("%s", errors.UserMessage(err))
			return nil
		}
		return err
	}

	printSuccess("Exported %d labels", len(col.Valid()))
	printFile(output)
	return nil
}

// exportJSONCommand creates the "export json" subcommand.
func (c *CLI) exportJSONCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export the collection as JSON (writes to stdout by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExportJSON(cmd.Context(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) runExportJSON(ctx context.Context, output string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}

	if output == "" {
		return batch.WriteJSON(os.Stdout, col)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := batch.WriteJSON(f, col); err != nil {
		return err
	}
	printSuccess("Exported %d records", col.Len())
	printFile(output)
	return nil
}

// defaultOutputName builds a timestamped output filename.
func defaultOutputName(ext string) string {
	return fmt.Sprintf("labels_%s.%s", time.Now().Format("20060102-150405"), ext)
}
