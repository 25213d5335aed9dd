package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/layout"
)

// layoutCommand creates the layout command for inspecting the page grid.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		asJSON   bool
		template string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show how labels fit on the configured page",
		Long: `Show how labels fit on the configured page.

The grid is computed from the page setup and label size in the config
file. When the fit is close, the output suggests the margin reduction
that would admit another column or row.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(asJSON, template)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the grid as JSON")
	cmd.Flags().StringVarP(&template, "template", "t", "", "use a named label sheet template")
	return cmd
}

func (c *CLI) runLayout(asJSON bool, template string) error {
	page := c.cfg.Page
	if template != "" {
		page.Template = template
	}
	grid := layout.Compute(page, c.cfg.Label, c.cfg.LayoutOptions())

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	}

	fmt.Println(StyleTitle.Render("Page Layout"))
	printKeyValue("Page", fmt.Sprintf("%s %gx%g %s", page.Size, grid.PageWidth, grid.PageHeight, page.Unit))
	printKeyValue("Label", fmt.Sprintf("%gx%g %s", grid.LabelWidth, grid.LabelHeight, c.cfg.Label.Unit))
	if grid.TemplateName != "" {
		printKeyValue("Template", grid.TemplateName)
	}
	printKeyValue("Grid", fmt.Sprintf("%d columns x %d rows", grid.Columns, grid.Rows))
	printKeyValue("Capacity", fmt.Sprintf("%d labels per page", grid.Capacity))
	printKeyValue("Utilization", fmt.Sprintf("%.2f%%", grid.Utilization))

	for _, s := range grid.Suggestions {
		printWarning("%s", s)
	}
	if grid.Capacity == 0 && len(grid.Suggestions) == 0 {
		printWarning("the page has no printable area")
	}
	return nil
}
