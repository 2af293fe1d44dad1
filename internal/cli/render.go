package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panegrid/pkg/layoutio"
	"github.com/matzehuels/panegrid/pkg/registry"
	"github.com/matzehuels/panegrid/pkg/render"
)

// newRenderCmd renders a layout document to an SVG file. Leaves without
// a registered producer get an auto-registered label producer so any
// layout file is renderable out of the box.
func newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Render a layout file to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			doc, err := layoutio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			reg := registry.New()
			if err := registerLabels(reg, doc.Layout); err != nil {
				return err
			}

			spin := newSpinner(cmd.Context(), "rendering layout")
			spin.Start()
			fig, post, err := render.RenderLayout(reg, doc.Layout, doc.FigSize[0], doc.FigSize[1])
			if err != nil {
				spin.StopWithError("render failed")
				return err
			}
			svg := render.RenderSVG(fig, post)
			spin.Stop()

			if output == "" {
				output = outputName(args[0])
			}
			if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
				return err
			}

			p.done(fmt.Sprintf("Rendered %d panels", len(fig.Leaves())))
			printSuccess("Layout rendered")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG path (default: input name with .svg)")
	return cmd
}

func outputName(input string) string {
	base := strings.TrimSuffix(input, ".json")
	return base + ".svg"
}
