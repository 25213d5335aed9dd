package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/batch"
)

// addCommand creates the add command for appending a single record.
func (c *CLI) addCommand() *cobra.Command {
	var caption string
	cmd := &cobra.Command{
		Use:   "add <payload>...",
		Short: "Add records to the collection",
		Long: `Add one or more records to the collection.

Each payload is validated against the configured symbology immediately.
A payload the symbology cannot encode is still added, flagged invalid,
so it shows up in 'list' for correction; exports skip it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd.Context(), args, caption)
		},
	}
	cmd.Flags().StringVarP(&caption, "caption", "c", "", "caption shown under the symbol")
	return cmd
}

func (c *CLI) runAdd(ctx context.Context, payloads []string, caption string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	for _, payload := range payloads {
		rec := col.Add(payload, caption, c.cfg.Label.Format)
		if rec.Valid {
			printSuccess("Added record %d", rec.Position)
		} else {
			printWarning("Added record %d, but it will not export: %s", rec.Position, rec.Error)
		}
	}
	return st.Save(ctx, c.collection, col)
}

// importCommand creates the import command for bulk-loading records.
func (c *CLI) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import records from a CSV, JSON, or text file",
		Long: `Import records from a file.

CSV files ('.csv') are read as "payload,caption" rows and JSON files
('.json') as a previously exported collection; any other file is read
as one payload per line. A file that fails to parse imports nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0])
		},
	}
	return cmd
}

func (c *CLI) runImport(ctx context.Context, path string) error {
	p := newProgress(loggerFromContext(ctx))

	rows, err := batch.ImportFile(path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printInfo("Nothing to import from %s", path)
		return nil
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

	invalid := 0
	for _, row := range rows {
		if rec := col.Add(row.Payload, row.Caption, c.cfg.Label.Format); !rec.Valid {
			invalid++
		}
	}
	if err := st.Save(ctx, c.collection, col); err != nil {
		return err
	}

	p.done(fmt.Sprintf("Imported %d records", len(rows)))
	printSuccess("Imported %d records into %q", len(rows), c.collection)
	if invalid > 0 {
		printWarning("%d records failed validation and will not export", invalid)
	}
	return nil
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the records in the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context())
		},
	}
}

func (c *CLI) runList(ctx context.Context) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	if col.Len() == 0 {
		printInfo("Collection %q is empty", c.collection)
		return nil
	}
	// Records may have been added under a different configured format.
	col.Revalidate(c.cfg.Label.Format)

	t := table.New().Headers("#", "PAYLOAD", "CAPTION", "STATUS")
	for _, r := range col.Records {
		status := StyleSuccess.Render("ok")
		if !r.Valid {
			status = StyleWarning.Render(r.Error)
		}
		t.Row(strconv.Itoa(r.Position), truncate(r.Payload, 48), truncate(r.Caption, 24), status)
	}
	fmt.Println(t)
	printDetail("%d records, %d valid", col.Len(), len(col.Valid()))
	return nil
}

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <position>",
		Short: "Remove the record at the given position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("position must be a number, got %q", args[0])
			}
			return c.runRemove(cmd.Context(), position)
		},
	}
}

func (c *CLI) runRemove(ctx context.Context, position int) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	if err := col.Remove(position); err != nil {
		return err
	}
	if err := st.Save(ctx, c.collection, col); err != nil {
		return err
	}
	printSuccess("Removed record %d, %d remaining", position, col.Len())
	return nil
}

// clearCommand creates the clear command.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all records from the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClear(cmd.Context())
		},
	}
}

func (c *CLI) runClear(ctx context.Context) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	col, err := st.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	n := col.Len()
	col.Clear()
	if err := st.Save(ctx, c.collection, col); err != nil {
		return err
	}
	printSuccess("Cleared %d records from %q", n, c.collection)
	return nil
}

// truncate shortens s to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
