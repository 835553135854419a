package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"textlens/internal/pipeline"
)

var errNothingSelected = errors.New("nothing to process: selection is empty")

func newRunCmd() *cobra.Command {
	var (
		templateID string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "run [text...]",
		Short: "Apply a template to text from the arguments or stdin",
		Example: `  textlens run --template summarize < article.txt
  textlens run -t clean-text --format raw "some  broken
  text"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatHTML, formatANSI, formatRaw); err != nil {
				return err
			}
			deps, err := getDeps(cmd)
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			p := deps.Pipeline
			if _, err := p.Start(templateID, text); err != nil {
				if errors.Is(err, pipeline.ErrEmptySelection) {
					return errNothingSelected
				}
				return err
			}
			deps.Log.Debug(pipeline.LoadingMessage, "template", templateID)
			p.Wait()

			s, ok := p.Current()
			if !ok {
				return errors.New("interaction was closed before it finished")
			}
			if s.State == pipeline.Failed {
				return fmt.Errorf("%s: %w", s.Notice, s.Err)
			}
			return writeMarkdown(cmd.OutOrStdout(), format, s.Markdown)
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "summarize", "template id, as listed by the templates command")
	cmd.Flags().StringVarP(&format, "format", "f", formatANSI, "output format: html, ansi or raw")

	return cmd
}
