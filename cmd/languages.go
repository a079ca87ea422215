package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/ui/markdown"
)

var languagesPlain bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages livecode can highlight",
	Long: `List every language tag accepted by --language and the setup screen,
with its display name and the chroma lexer used to highlight it.

Examples:
  livecode languages
  livecode languages --plain | grep -i script`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table := languagesTable()
		if languagesPlain {
			_, err := fmt.Fprint(cmd.OutOrStdout(), table)
			return err
		}

		r, err := markdown.New(100, cfg.UI.MarkdownStyle)
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		out, err := r.Render(table)
		if err != nil {
			return fmt.Errorf("rendering languages: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), strings.TrimRight(out, "\n")+"\n")
		return err
	},
}

func init() {
	languagesCmd.Flags().BoolVar(&languagesPlain, "plain", false, "print raw markdown instead of rendering it")
	rootCmd.AddCommand(languagesCmd)
}

// languagesTable renders the catalogue as a markdown table.
func languagesTable() string {
	langs := highlight.Languages()
	rows := make([][]string, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, []string{l.Tag, l.Label, l.LexerName()})
	}
	return markdown.Table([]string{"Tag", "Language", "Lexer"}, rows)
}
