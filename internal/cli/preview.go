package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/errors"
)

// previewCommand creates the preview command for rendering one record.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		position int
		output   string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a single record to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), position, output)
		},
	}
	cmd.Flags().IntVarP(&position, "position", "p", 1, "record position to render")
	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output file")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, position int, output string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	if position < 1 || position > col.Len() {
		return errors.New(errors.ErrCodeNotFound, "no record at position %d", position)
	}
	col.Revalidate(c.cfg.Label.Format)
	rec := col.Records[position-1]

	res := c.newRenderer(ctx).Render(ctx, rec, c.cfg.Label)
	if !res.OK() {
		return errors.Wrap(errors.ErrCodeRenderFailed, res.Err, "render record %d", position)
	}
	if err := os.WriteFile(output, res.PNG, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered record %d (%dx%d px)", position, res.Width, res.Height)
	printFile(output)
	return nil
}
