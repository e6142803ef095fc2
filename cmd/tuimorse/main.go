// Package main provides the CLI entrypoint for tuimorse.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/generator"
	"github.com/verte-zerg/tuimorse/internal/keyer"
	"github.com/verte-zerg/tuimorse/internal/logging"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/sidetone"
	"github.com/verte-zerg/tuimorse/internal/stats"
	"github.com/verte-zerg/tuimorse/internal/statsui"
	"github.com/verte-zerg/tuimorse/internal/store"
	"github.com/verte-zerg/tuimorse/internal/tui"
	"github.com/verte-zerg/tuimorse/internal/wordlist"
)

const (
	defaultMode        = string(keyer.ModeKeyboardDual)
	defaultDelayMs     = 1000
	defaultHoldGraceMs = 550
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	minHoldGraceMs     = 100
	recentWordsShown   = 10
)

// wordSeparator separates words in Morse text for encode and decode.
const wordSeparator = "/"

var (
	practiceMode        string
	practiceAutoAdvance bool
	practiceDelayMs     int
	practiceAutoSubmit  bool
	practiceSound       bool
	practiceHoldGraceMs int
	practiceWordsFile   string
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64
	practiceWeakWindow  int

	logLevel string

	statsWord        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuimorse",
		Short:         "TUI Morse code trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "input mode (keyboard-dual, keyboard-single, mouse-dual, mouse-single)")
	rootCmd.Flags().BoolVar(&practiceAutoAdvance, "auto-advance", true, "insert a letter gap after the inactivity delay")
	rootCmd.Flags().IntVar(&practiceDelayMs, "delay", defaultDelayMs, "inactivity delay in milliseconds (500-3000)")
	rootCmd.Flags().BoolVar(&practiceAutoSubmit, "auto-submit", true, "submit automatically after twice the delay")
	rootCmd.Flags().BoolVar(&practiceSound, "sound", false, "play a 700 Hz sidetone while keying")
	rootCmd.Flags().IntVar(&practiceHoldGraceMs, "hold-grace", defaultHoldGraceMs, "keyboard-single release detection grace in milliseconds")
	rootCmd.Flags().StringVar(&practiceWordsFile, "words-file", "", "practice word list (one word per line)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent words to compute weak chars")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newEncodeCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfgPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolvePracticeConfig(cmd, fileCfg.Practice)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	wordsPath := config.WordsPath(cfg.WordsFile)
	words, err := wordlist.Resolve(wordsPath)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runID := uuid.NewString()
	logger = logger.With("run", runID)
	logger.Info("practice started", "mode", cfg.Mode, "words", len(words), "words_file", wordsPath)

	m := tui.NewModel(tui.Options{
		Config:    cfg,
		Store:     st,
		Generator: generator.New(words),
		Logger:    logger,
		RunID:     runID,
		Sound: func(enabled bool) sidetone.Player {
			player, err := sidetone.New(enabled, os.Stderr)
			if err != nil {
				logger.Warn("audio unavailable, using terminal bell", "err", err)
			}
			return player
		},
	})
	defer func() {
		if cerr := m.Close(); cerr != nil {
			logger.Warn("failed to close sound player", "err", cerr)
		}
	}()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchConfig(ctx, cmd, cfgPath, program, logger)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.Info("practice finished")
	return nil
}

// watchConfig forwards valid practice settings from config file edits into
// the running program.
func watchConfig(ctx context.Context, cmd *cobra.Command, path string, program *tea.Program, logger *slog.Logger) {
	onChange := func(fileCfg config.FileConfig) {
		cfg, err := resolvePracticeConfig(cmd, fileCfg.Practice)
		if err != nil {
			logger.Warn("ignoring invalid config reload", "err", err)
			return
		}
		program.Send(tui.ConfigMsg{Config: cfg})
	}
	onError := func(err error) {
		logger.Warn("config reload failed", "err", err)
	}
	w, err := config.NewWatcher(path, onChange, onError)
	if err != nil {
		logger.Info("config hot reload disabled", "err", err)
		return
	}
	go func() {
		defer func() {
			if cerr := w.Close(); cerr != nil {
				logger.Warn("failed to close config watcher", "err", cerr)
			}
		}()
		w.Run(ctx)
	}()
}

func openLogger(cmd *cobra.Command, fileCfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	levelName := logLevel
	applyStringConfig(cmd, "log-level", &levelName, fileCfg.Level)
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level value: %w", err)
	}
	path := config.DefaultLogPath()
	if fileCfg.File != nil && *fileCfg.File != "" {
		path = *fileCfg.File
	}
	logger, closer, err := logging.OpenFile(path, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, closer, nil
}

// resolvePracticeConfig layers the config file under the flags; flags set on
// the command line always win.
func resolvePracticeConfig(cmd *cobra.Command, file config.PracticeConfig) (model.Config, error) {
	mode := practiceMode
	autoAdvance := practiceAutoAdvance
	delayMs := practiceDelayMs
	autoSubmit := practiceAutoSubmit
	sound := practiceSound
	holdGraceMs := practiceHoldGraceMs
	wordsFile := practiceWordsFile
	focusWeak := practiceFocusWeak
	weakTop := practiceWeakTop
	weakFactor := practiceWeakFactor
	weakWindow := practiceWeakWindow

	applyStringConfig(cmd, "mode", &mode, file.Mode)
	applyBoolConfig(cmd, "auto-advance", &autoAdvance, file.AutoAdvance)
	applyIntConfig(cmd, "delay", &delayMs, file.DelayMs)
	applyBoolConfig(cmd, "auto-submit", &autoSubmit, file.AutoSubmit)
	applyBoolConfig(cmd, "sound", &sound, file.Sound)
	applyIntConfig(cmd, "hold-grace", &holdGraceMs, file.HoldGraceMs)
	applyStringConfig(cmd, "words-file", &wordsFile, file.WordsFile)
	applyBoolConfig(cmd, "focus-weak", &focusWeak, file.FocusWeak)
	applyIntConfig(cmd, "weak-top", &weakTop, file.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &weakFactor, file.WeakFactor)
	applyIntConfig(cmd, "weak-window", &weakWindow, file.WeakWindow)

	cfg := model.Config{
		Mode:         strings.ToLower(strings.TrimSpace(mode)),
		AutoAdvance:  autoAdvance,
		AdvanceDelay: time.Duration(delayMs) * time.Millisecond,
		AutoSubmit:   autoSubmit,
		Sound:        sound,
		HoldGrace:    time.Duration(holdGraceMs) * time.Millisecond,
		WordsFile:    wordsFile,
		FocusWeak:    focusWeak,
		WeakTop:      weakTop,
		WeakFactor:   weakFactor,
		WeakWindow:   weakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsWord, "word", "", "word filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N words")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain || !isTerminal(os.Stdout) {
		return writeStatsReport(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writeStatsReport(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Words); err != nil {
		return err
	}
	if err := stats.RenderTrend(w, report.Words, cfg.CurveWindow, 0); err != nil {
		return err
	}
	if len(report.Words) > 0 {
		if err := stats.RenderCharTable(w, report.CharAggsWindow); err != nil {
			return err
		}
	}
	return stats.RenderRecentWords(w, report.Words, recentWordsShown)
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Word:        strings.TrimSpace(statsWord),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func newChartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Print the Morse reference chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeChart(cmd.OutOrStdout(), isTerminal(os.Stdout))
		},
	}
}

func writeChart(w io.Writer, styled bool) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Char", "Code", "Char", "Code", "Char", "Code"})

	entries := morse.Chart()
	const cols = 3
	rowsPerCol := (len(entries) + cols - 1) / cols
	for r := 0; r < rowsPerCol; r++ {
		row := make(table.Row, 0, cols*2)
		for c := 0; c < cols; c++ {
			i := c*rowsPerCol + r
			if i >= len(entries) {
				row = append(row, "", "")
				continue
			}
			row = append(row, string(entries[i].Char), entries[i].Code)
		}
		tw.AppendRow(row)
	}
	if styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.Render()
	return nil
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [morse...]",
		Short: "Decode Morse to text (groups split by spaces, words by /)",
		Long: "Decode Morse to text. Symbol groups are separated by spaces and words by /.\n" +
			"Groups starting with - are read as Morse, not flags; -h and --help show this help.",
		// Symbol groups such as "-.." must not be read as flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			args, help := decodeArgs(args)
			if help {
				return cmd.Help()
			}
			return runConvert(cmd, args, decodeText)
		},
	}
}

// decodeArgs handles the arguments cobra does not parse for decode: a help
// flag anywhere and a leading "--" separator.
func decodeArgs(args []string) ([]string, bool) {
	if len(args) > 0 && args[0] == "--" {
		return args[1:], false
	}
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return nil, true
		}
	}
	return args, false
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [text...]",
		Short: "Encode text to Morse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, encodeText)
		},
	}
}

func runConvert(cmd *cobra.Command, args []string, convert func(string) string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, convert(strings.Join(args, " ")))
		return err
	}
	if isTerminal(os.Stdin) {
		return fmt.Errorf("nothing to convert: pass arguments or pipe input")
	}
	return convertLines(cmd.InOrStdin(), out, convert)
}

func convertLines(in io.Reader, out io.Writer, convert func(string) string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(out, convert(scanner.Text())); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func decodeText(text string) string {
	parts := strings.Split(text, wordSeparator)
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		groups := strings.Fields(part)
		if len(groups) == 0 {
			continue
		}
		words = append(words, morse.Decode(strings.Join(groups, string(morse.Gap))))
	}
	return strings.Join(words, " ")
}

func encodeText(text string) string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if code := morse.Encode(field); code != "" {
			words = append(words, code)
		}
	}
	return strings.Join(words, " "+wordSeparator+" ")
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuimorse configuration
# Uncomment a value to enable it. CLI flags override config values.
# Practice settings are reloaded while the trainer is running.

[practice]
# mode = %q   # keyboard-dual, keyboard-single, mouse-dual, mouse-single
# auto-advance = true       # Insert a letter gap after the delay
# delay = %d              # Inactivity delay in milliseconds (500-3000)
# auto-submit = true        # Submit automatically after twice the delay
# sound = false             # Play a sidetone while keying
# hold-grace = %d          # keyboard-single release grace in milliseconds
# words-file = ""           # Practice word list (one word per line)
# focus-weak = false        # Bias practice toward weak characters
# weak-top = %d              # Number of weak characters to focus on
# weak-factor = %.1f        # Weight factor for weak characters
# weak-window = %d          # Number of recent words to compute weak chars

[log]
# level = "info"            # debug, info, warn, error
# file = ""                 # Log file path (default %s)
`,
		defaultMode,
		defaultDelayMs,
		defaultHoldGraceMs,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := keyer.ParseMode(cfg.Mode); err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	if cfg.AdvanceDelay < keyer.MinAdvanceDelay || cfg.AdvanceDelay > keyer.MaxAdvanceDelay {
		return fmt.Errorf("--delay must be between %d and %d", keyer.MinAdvanceDelay.Milliseconds(), keyer.MaxAdvanceDelay.Milliseconds())
	}
	if cfg.HoldGrace < minHoldGraceMs*time.Millisecond {
		return fmt.Errorf("--hold-grace must be >= %d", minHoldGraceMs)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
