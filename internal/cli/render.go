package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render model-style markdown from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatHTML, formatANSI); err != nil {
				return err
			}
			var md string
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", args[0], err)
				}
				md = string(data)
			} else {
				text, err := readInput(cmd.InOrStdin(), nil)
				if err != nil {
					return err
				}
				md = text
			}
			return writeMarkdown(cmd.OutOrStdout(), format, md)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatHTML, "output format: html or ansi")

	return cmd
}
