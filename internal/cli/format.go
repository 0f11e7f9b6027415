package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/assetree/internal/hierarchy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputTree = "tree"
)

type formatOptions struct {
	output string
	watch  bool
}

func newFormatCmd() *cobra.Command {
	opts := &formatOptions{}

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Validate a document and print the assembled tree",
		Long: `Read a level-bucketed document from file, or stdin when no file is given,
and print the assembled forest. Failures report the error kind
(shape-invalid, entity-invalid, dangling-reference, ...) and exit non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputJSON, outputYAML, outputTree:
			default:
				return fmt.Errorf("unknown output %q (want json, yaml or tree)", opts.output)
			}

			if opts.watch {
				if len(args) == 0 {
					return fmt.Errorf("--watch needs a file argument")
				}
				return watchFile(cmd.Context(), args[0], func() {
					if err := formatFile(cmd.OutOrStdout(), args[0], opts.output); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("error:"), err)
					}
				}, cmd.ErrOrStderr())
			}

			if len(args) == 1 {
				return formatFile(cmd.OutOrStdout(), args[0], opts.output)
			}
			doc, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			return formatDocument(cmd.OutOrStdout(), doc, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", outputJSON, "Output format (json, yaml, tree)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-format whenever the file changes")
	return cmd
}

func formatFile(w io.Writer, path, output string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return formatDocument(w, doc, output)
}

// formatDocument assembles doc and writes the forest to w. Errors carry the
// failure kind as a prefix.
func formatDocument(w io.Writer, doc []byte, output string) error {
	roots, err := hierarchy.Format(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", hierarchy.Classify(err), err)
	}

	switch output {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(roots); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case outputTree:
		_, err := io.WriteString(w, RenderTree(roots))
		return err
	default:
		out, err := json.MarshalIndent(roots, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}
}
