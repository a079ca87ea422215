package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/livecode/internal/store"
	"github.com/zjrosen/livecode/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [system|light|dark]",
	Short: "Show or set the stored theme",
	Long: `Without an argument, print the stored theme and what it resolves to.
With one, store it. A running livecode picks the change up immediately.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.ModeSystem), string(theme.ModeLight), string(theme.ModeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.StatePath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		return runTheme(cmd.Context(), cmd.OutOrStdout(), theme.NewStore(st), args, theme.SystemPrefersDark)
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(ctx context.Context, out io.Writer, themes *theme.Store, args []string, systemDark func() bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(args) == 1 {
		mode, err := theme.ParseMode(strings.ToLower(strings.TrimSpace(args[0])))
		if err != nil {
			return err
		}
		if err := themes.Save(ctx, mode); err != nil {
			return fmt.Errorf("saving theme: %w", err)
		}
		_, err = fmt.Fprintf(out, "theme set to %s\n", mode)
		return err
	}

	mode := themes.Load(ctx)
	if mode == theme.ModeSystem {
		_, err := fmt.Fprintf(out, "%s (%s)\n", mode, theme.Resolve(mode, systemDark()))
		return err
	}
	_, err := fmt.Fprintln(out, mode)
	return err
}
