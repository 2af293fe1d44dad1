package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/layoutio"
)

// newInspectCmd renders the layout's tree structure (orientations,
// ratios, leaf names) as a graphviz diagram for debugging.
func newInspectCmd() *cobra.Command {
	var output string
	var dotOnly bool

	cmd := &cobra.Command{
		Use:   "inspect <layout.json>",
		Short: "Visualize a layout's tree structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := layoutio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			dot := layout.ToDOT(doc.Layout)
			if dotOnly {
				fmt.Print(dot)
				return nil
			}

			svg, err := layout.RenderDOTSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], ".json") + ".tree.svg"
			}
			if err := os.WriteFile(output, svg, 0644); err != nil {
				return err
			}

			printSuccess("Tree diagram written")
			printKeyValue("leaves", fmt.Sprintf("%d", len(layout.Leaves(doc.Layout))))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG path (default: input name with .tree.svg)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print graphviz DOT to stdout instead of rendering")
	return cmd
}
