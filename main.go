// Package main provides the entry point for the cw CLI, a Morse code
// sender built on the tone queue library.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hamwave/cw/cw"
	"github.com/hamwave/cw/cw/audio"
	"github.com/hamwave/cw/cw/gen"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	wpm        int
	tone       int
	volume     int
	extraGap   int
	weighting  int
	backend    string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "cw [TEXT]",
		Short: "Send Morse code from the command line",
		Long: paragraph(
			fmt.Sprintf("\nSend text as %s through the speaker, the console buzzer, or silently for timing.", keyword("Morse code")),
		),
		Example:          paragraph("cw 'cq cq de n0call'\necho hello | cw --wpm 20\ncw --backend null --debug test"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

var (
	paragraphStyle = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2)
	keywordStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "39"})
)

func paragraph(s string) string {
	return paragraphStyle.Render(s)
}

func keyword(s string) string {
	return keywordStyle.Render(s)
}

// envOverrides are environment variables consulted when the matching
// flag was not given on the command line.
type envOverrides struct {
	WPM     int    `env:"CW_WPM" envDefault:"0"`
	Tone    int    `env:"CW_TONE" envDefault:"0"`
	Backend string `env:"CW_BACKEND"`
	Debug   bool   `env:"CW_DEBUG" envDefault:"false"`
}

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	wpm = viper.GetInt("wpm")
	tone = viper.GetInt("tone")
	volume = viper.GetInt("volume")
	extraGap = viper.GetInt("gap")
	weighting = viper.GetInt("weighting")
	backend = viper.GetString("backend")
	debug = viper.GetBool("debug")

	// environment overrides beat the config file but not explicit flags
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	if overrides.WPM != 0 && !cmd.Flags().Changed("wpm") {
		wpm = overrides.WPM
	}
	if overrides.Tone != 0 && !cmd.Flags().Changed("tone") {
		tone = overrides.Tone
	}
	if overrides.Backend != "" && !cmd.Flags().Changed("backend") {
		backend = overrides.Backend
	}
	if overrides.Debug {
		debug = true
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if wpm < cw.SpeedMin || wpm > cw.SpeedMax {
		return fmt.Errorf("speed must be between %d and %d wpm, got %d", cw.SpeedMin, cw.SpeedMax, wpm)
	}
	if tone < cw.FreqMin || tone > cw.FreqMax {
		return fmt.Errorf("tone must be between %d and %d Hz, got %d", cw.FreqMin, cw.FreqMax, tone)
	}
	return nil
}

// newGenerator builds and configures a generator from the validated
// options. The caller owns Stop.
func newGenerator() (*gen.Generator, error) {
	sink, err := audio.New(backend)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", backend, err)
	}

	g := gen.New(sink)
	for _, set := range []error{
		g.SetSpeed(wpm),
		g.SetFrequency(tone),
		g.SetVolume(volume),
		g.SetGap(extraGap),
		g.SetWeighting(weighting),
	} {
		if set != nil {
			return nil, set
		}
	}

	if err := g.Start(); err != nil {
		return nil, fmt.Errorf("unable to start generator: %w", err)
	}
	return g, nil
}

func execute(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	// with no arguments, read from a pipe or show help on a terminal
	if text == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return cmd.Help()
		}
		var lines []string
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("unable to read stdin: %w", err)
		}
		text = strings.Join(lines, " ")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	g, err := newGenerator()
	if err != nil {
		return err
	}
	defer g.Stop() //nolint:errcheck

	log.Debug("sending", "text", text, "wpm", wpm, "tone", tone, "backend", backend)
	if err := g.EnqueueString(text); err != nil {
		return err
	}
	return g.WaitForQueue()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().IntVarP(&wpm, "wpm", "s", cw.SpeedInitial, "sending speed in words per minute")
	rootCmd.PersistentFlags().IntVarP(&tone, "tone", "t", cw.FreqInitial, "tone frequency in Hz")
	rootCmd.PersistentFlags().IntVarP(&volume, "volume", "v", cw.VolumeInitial, "volume in percent")
	rootCmd.PersistentFlags().IntVarP(&extraGap, "gap", "g", cw.GapInitial, "extra inter-character gap in units")
	rootCmd.PersistentFlags().IntVarP(&weighting, "weighting", "w", cw.WeightingInitial, "dot/dash weighting in percent")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", audio.BackendOto, fmt.Sprintf("audio backend: %s", strings.Join(audio.Backends(), ", ")))
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag("wpm", rootCmd.PersistentFlags().Lookup("wpm"))
	_ = viper.BindPFlag("tone", rootCmd.PersistentFlags().Lookup("tone"))
	_ = viper.BindPFlag("volume", rootCmd.PersistentFlags().Lookup("volume"))
	_ = viper.BindPFlag("gap", rootCmd.PersistentFlags().Lookup("gap"))
	_ = viper.BindPFlag("weighting", rootCmd.PersistentFlags().Lookup("weighting"))
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("wpm", cw.SpeedInitial)
	viper.SetDefault("tone", cw.FreqInitial)
	viper.SetDefault("volume", cw.VolumeInitial)
	viper.SetDefault("gap", cw.GapInitial)
	viper.SetDefault("weighting", cw.WeightingInitial)
	viper.SetDefault("backend", audio.BackendOto)
	viper.SetDefault("debug", false)

	rootCmd.AddCommand(configCmd, replCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "cw")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "cw")}, dirs...)
	}

	if c := os.Getenv("CW_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("cw")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("cw")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "cw.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
