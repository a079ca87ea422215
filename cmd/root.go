package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/livecode/internal/app"
	"github.com/zjrosen/livecode/internal/config"
	"github.com/zjrosen/livecode/internal/flags"
	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/reveal"
	"github.com/zjrosen/livecode/internal/store"
	"github.com/zjrosen/livecode/internal/theme"
	"github.com/zjrosen/livecode/internal/tracing"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "livecode [file|-]",
	Short: "Replay code as if it were typed live",
	Long: `livecode types out source code one character at a time with syntax
highlighting, a line number gutter and a window frame, for talks and demos.

Without arguments the setup screen opens so code can be pasted in. Pass a file
to play it directly, or - to read from stdin.`,
	Example: `  livecode                      # open the setup screen
  livecode main.go              # play a file, language from the extension
  livecode -l python -s 2 -     # play stdin as Python at double speed`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	RunE:          runApp,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return cfg.Validate()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/livecode/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also LIVECODE_DEBUG=1; path from LIVECODE_LOG)")
	rootCmd.Flags().StringP("language", "l", "", "language tag, see 'livecode languages'")
	rootCmd.Flags().StringP("name", "n", "", "file name shown in the window title")
	rootCmd.Flags().Float64P("speed", "s", 0, "playback speed multiplier")

	_ = viper.BindPFlag("language", rootCmd.Flags().Lookup("language"))
	_ = viper.BindPFlag("speed", rootCmd.Flags().Lookup("speed"))
}

// userConfigPath is where the default config is written on first run.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".livecode", "config.yaml")
	}
	return filepath.Join(home, ".config", "livecode", "config.yaml")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("speed", defaults.Speed)
	viper.SetDefault("language", defaults.Language)
	viper.SetDefault("state_path", defaults.StatePath)
	viper.SetDefault("chroma_style.dark", defaults.ChromaStyle.Dark)
	viper.SetDefault("chroma_style.light", defaults.ChromaStyle.Light)
	viper.SetDefault("ui.show_line_numbers", defaults.UI.ShowLineNumbers)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .livecode/config.yaml (current directory)
		// 2. ~/.config/livecode/config.yaml (user config)
		if _, err := os.Stat(filepath.Join(".livecode", "config.yaml")); err == nil {
			viper.SetConfigFile(filepath.Join(".livecode", "config.yaml"))
		} else {
			viper.AddConfigPath(filepath.Dir(userConfigPath()))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			path := userConfigPath()
			if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
				viper.SetConfigFile(path)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging enables the file logger when --debug or LIVECODE_DEBUG is set.
// The returned cleanup is never nil.
func initLogging() (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}
	logPath := os.Getenv("LIVECODE_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "livecode starting", "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

func debugEnabled() bool {
	return debugFlag || os.Getenv("LIVECODE_DEBUG") != ""
}

// playback is what the positional argument resolves to.
type playback struct {
	Code     string
	FileName string
	Language string
}

// readPlayback loads the code named by args. "-" reads stdin. The file name
// defaults to the base name and the language to the one the extension maps
// to; explicit values win.
func readPlayback(args []string, stdin io.Reader, name, language string) (playback, error) {
	if len(args) == 0 {
		return playback{FileName: name, Language: language}, nil
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return playback{}, fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(args[0]) //nolint:gosec // G304: path is the user's own argument
		if err != nil {
			return playback{}, fmt.Errorf("reading %s: %w", args[0], err)
		}
		if name == "" {
			name = filepath.Base(args[0])
		}
	}

	if language == "" && name != "" {
		if tag := highlight.DetectFromPath(name); tag != "" {
			language = tag
		}
	}
	return playback{Code: string(data), FileName: name, Language: language}, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	name, _ := cmd.Flags().GetString("name")
	language, _ := cmd.Flags().GetString("language")
	speed, _ := cmd.Flags().GetFloat64("speed")
	pb, err := readPlayback(args, cmd.InOrStdin(), name, language)
	if err != nil {
		return err
	}
	if len(args) > 0 && pb.Code == "" {
		return fmt.Errorf("nothing to play: input is empty")
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown", err)
		}
	}()

	var prefs theme.KV
	prefsPath := ""
	st, err := store.Open(cfg.StatePath)
	if err != nil {
		// Preferences are a convenience; play without them.
		log.ErrorErr(log.CatStore, "opening preference store", err, "path", cfg.StatePath)
	} else {
		defer func() { _ = st.Close() }()
		prefs = st
		prefsPath = st.Path()
	}

	// Query the terminal background before Bubble Tea owns the input stream,
	// otherwise the OSC 11 reply shows up as typed text.
	systemDark := theme.SystemPrefersDark()

	features := flags.New(cfg.Flags)
	if unknown := features.Unknown(); len(unknown) > 0 {
		log.Warn(log.CatConfig, "unknown feature flags", "flags", unknown)
	}

	zone.NewGlobal()
	model := app.New(app.Options{
		Config:     cfg,
		Prefs:      prefs,
		PrefsPath:  prefsPath,
		Registry:   highlight.NewRegistry(highlight.WithRegistryTracer(provider.Tracer())),
		Scheduler:  reveal.NewScheduler(reveal.WithTracer(provider.Tracer())),
		SystemDark: systemDark,
		Code:       pb.Code,
		FileName:   pb.FileName,
		Language:   pb.Language,
		Speed:      speed,
		Debug:      debugEnabled(),
		Flags:      features,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if features.Enabled(flags.FlagMouse) {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if len(args) > 0 && args[0] == "-" {
		// stdin was consumed by the code; read keys from the terminal.
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, opts...)

	final, err := p.Run()
	if m, ok := final.(app.Model); ok {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
