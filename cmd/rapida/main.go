// Package main provides the CLI entrypoint for rapida.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/speedrd/rapida/internal/achievement"
	"github.com/speedrd/rapida/internal/config"
	"github.com/speedrd/rapida/internal/content"
	"github.com/speedrd/rapida/internal/engine"
	"github.com/speedrd/rapida/internal/metrics"
	"github.com/speedrd/rapida/internal/model"
	"github.com/speedrd/rapida/internal/stats"
	"github.com/speedrd/rapida/internal/statsui"
	"github.com/speedrd/rapida/internal/store"
	"github.com/speedrd/rapida/internal/training"
	"github.com/speedrd/rapida/internal/tui"
)

const (
	defaultExercise     = "exposure"
	defaultWPM          = 250
	defaultWindow       = 1
	defaultChunkSize    = 3
	defaultChunkMS      = 1000
	defaultDurationSec  = 60
	defaultGridSize     = 5
	defaultGridRounds   = 3
	defaultDifficulty   = "intermediate"
	defaultChartWindow  = 3
	chartWindowDays     = 30
	defaultUserName     = "reader"
	defaultUserLanguage = "en"
)

var (
	trainExercise   string
	trainWPM        int
	trainWindow     int
	trainChunkSize  int
	trainChunkMS    int
	trainDuration   int
	trainGridSize   int
	trainGridRounds int
	trainText       string
	trainDifficulty string

	statsCSV    bool
	statsChart  bool
	statsWindow int

	profileForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rapida",
		Short:         "TUI speed reading trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainCmd,
	}

	rootCmd.Flags().StringVar(&trainExercise, "exercise", defaultExercise, "exercise: exposure, grid or chunk")
	rootCmd.Flags().IntVar(&trainWPM, "wpm", defaultWPM, "target reading speed in words per minute")
	rootCmd.Flags().IntVar(&trainWindow, "window", defaultWindow, "words shown per exposure (1-3)")
	rootCmd.Flags().IntVar(&trainChunkSize, "chunk-size", defaultChunkSize, "words per chunk (2-5)")
	rootCmd.Flags().IntVar(&trainChunkMS, "chunk-interval-ms", defaultChunkMS, "chunk reveal interval in milliseconds (700-2000)")
	rootCmd.Flags().IntVar(&trainDuration, "duration", defaultDurationSec, "session duration in seconds")
	rootCmd.Flags().IntVar(&trainGridSize, "grid-size", defaultGridSize, "grid side length (5 or 7)")
	rootCmd.Flags().IntVar(&trainGridRounds, "rounds", defaultGridRounds, "grid rounds (1, 3 or 5)")
	rootCmd.Flags().StringVar(&trainText, "text", "", "reading text id (default: pick by difficulty)")
	rootCmd.Flags().StringVar(&trainDifficulty, "difficulty", defaultDifficulty, "text difficulty: beginner, intermediate or advanced")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newTextsCmd())

	return rootCmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &trainWPM, fileCfg.Training.TargetWPM)
	applyIntConfig(cmd, "window", &trainWindow, fileCfg.Training.WordsPerDisplay)
	applyIntConfig(cmd, "chunk-size", &trainChunkSize, fileCfg.Training.ChunkSize)
	applyIntConfig(cmd, "chunk-interval-ms", &trainChunkMS, fileCfg.Training.ChunkIntervalMS)
	applyIntConfig(cmd, "duration", &trainDuration, fileCfg.Training.DurationSec)
	applyIntConfig(cmd, "grid-size", &trainGridSize, fileCfg.Training.GridSize)
	applyIntConfig(cmd, "rounds", &trainGridRounds, fileCfg.Training.GridRounds)
	applyStringConfig(cmd, "difficulty", &trainDifficulty, fileCfg.Training.Difficulty)

	kind, err := parseExercise(trainExercise)
	if err != nil {
		return err
	}
	if err := validateTraining(kind); err != nil {
		return err
	}
	text, err := resolveText(trainText, trainDifficulty)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	profile, err := ensureProfile(ctx, st)
	if err != nil {
		return err
	}

	evaluator := achievement.NewEvaluator(nil)
	if err := restoreUnlocks(ctx, st, evaluator, profile.ID); err != nil {
		return err
	}
	statsSvc := stats.NewService(st, st, nil)
	trainSvc := training.NewService(st, statsSvc, evaluator, nil)

	tuiCfg := tui.Config{
		UserID:          profile.ID,
		Kind:            kind,
		TargetWPM:       trainWPM,
		WordsPerDisplay: trainWindow,
		ChunkSize:       trainChunkSize,
		ChunkInterval:   time.Duration(trainChunkMS) * time.Millisecond,
		Duration:        time.Duration(trainDuration) * time.Second,
		GridSize:        trainGridSize,
		GridRounds:      trainGridRounds,
		Text:            text,
	}
	program := tea.NewProgram(tui.NewModel(tuiCfg, trainSvc), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func parseExercise(name string) (model.ExerciseKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exposure":
		return model.KindExposure, nil
	case "grid":
		return model.KindGridSearch, nil
	case "chunk":
		return model.KindChunkedReveal, nil
	default:
		return "", fmt.Errorf("unknown exercise %q (use exposure, grid or chunk)", name)
	}
}

func validateTraining(kind model.ExerciseKind) error {
	if trainDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	switch kind {
	case model.KindExposure:
		if trainWPM < engine.MinTargetWPM || trainWPM > engine.MaxTargetWPM {
			return fmt.Errorf("--wpm must be between %d and %d", engine.MinTargetWPM, engine.MaxTargetWPM)
		}
		if trainWindow < engine.MinWindowWords || trainWindow > engine.MaxWindowWords {
			return fmt.Errorf("--window must be between %d and %d", engine.MinWindowWords, engine.MaxWindowWords)
		}
	case model.KindChunkedReveal:
		if trainChunkSize < engine.MinChunkWords || trainChunkSize > engine.MaxChunkWords {
			return fmt.Errorf("--chunk-size must be between %d and %d", engine.MinChunkWords, engine.MaxChunkWords)
		}
		interval := time.Duration(trainChunkMS) * time.Millisecond
		if interval < engine.MinChunkInterval || interval > engine.MaxChunkInterval {
			return fmt.Errorf("--chunk-interval-ms must be between %d and %d",
				engine.MinChunkInterval.Milliseconds(), engine.MaxChunkInterval.Milliseconds())
		}
	case model.KindGridSearch:
		if trainGridSize != 5 && trainGridSize != 7 {
			return fmt.Errorf("--grid-size must be 5 or 7")
		}
		if trainGridRounds != 1 && trainGridRounds != 3 && trainGridRounds != 5 {
			return fmt.Errorf("--rounds must be 1, 3 or 5")
		}
	}
	return nil
}

func resolveText(id, difficulty string) (content.Text, error) {
	if id != "" {
		text, ok := content.ByID(id)
		if !ok {
			return content.Text{}, fmt.Errorf("unknown text %q (run: rapida texts)", id)
		}
		return text, nil
	}
	diff := model.Difficulty(strings.ToLower(strings.TrimSpace(difficulty)))
	switch diff {
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
	default:
		return content.Text{}, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	texts := content.Filter("", diff)
	if len(texts) == 0 {
		return content.Default(), nil
	}
	return texts[0], nil
}

func openStore() (*store.Store, error) {
	path := config.DefaultDBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

// localUserID keys the single per-installation profile.
const localUserID = "local"

// ensureProfile loads the single local profile, creating it on first
// run.
func ensureProfile(ctx context.Context, st *store.Store) (*model.UserProfile, error) {
	profile, err := st.GetProfile(ctx, localUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}
	created := model.UserProfile{
		ID:          localUserID,
		Username:    defaultUserName,
		CreatedAt:   time.Now(),
		Language:    defaultUserLanguage,
		Preferences: model.DefaultPreferences(),
	}
	if err := st.UpsertProfile(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &created, nil
}

func restoreUnlocks(ctx context.Context, st *store.Store, evaluator *achievement.Evaluator, userID string) error {
	unlocks, err := st.ListUnlocks(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}
	restored := make(map[string]achievement.Unlock, len(unlocks))
	for id, u := range unlocks {
		restored[id] = achievement.Unlock{UnlockedAt: u.UnlockedAt, Value: u.Value}
	}
	evaluator.Restore(restored)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show training statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsCSV, "csv", false, "print session history as CSV instead of the dashboard")
	cmd.Flags().BoolVar(&statsChart, "chart", false, "print a speed chart instead of the dashboard")
	cmd.Flags().IntVar(&statsWindow, "window", defaultChartWindow, "moving average window for --chart")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	profile, err := ensureProfile(ctx, st)
	if err != nil {
		return err
	}
	statsSvc := stats.NewService(st, st, nil)

	if statsCSV {
		if err := statsSvc.ExportCSV(ctx, profile.ID, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		return nil
	}
	if statsChart {
		progress, err := statsSvc.Progress(ctx, profile.ID, chartWindowDays)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if err := stats.RenderSpeedChart(cmd.OutOrStdout(), progress, statsWindow, stats.TerminalWidth()); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		return nil
	}

	evaluator := achievement.NewEvaluator(nil)
	if err := restoreUnlocks(ctx, st, evaluator, profile.ID); err != nil {
		return err
	}
	program := tea.NewProgram(statsui.NewModel(st, statsSvc, evaluator, profile.ID), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the local profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.AddCommand(newProfileResetCmd())
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	profile, err := ensureProfile(ctx, st)
	if err != nil {
		return err
	}
	statsSvc := stats.NewService(st, st, nil)
	statistics, err := statsSvc.Compute(ctx, profile.ID)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	out := cmd.OutOrStdout()
	lastTrained := "never"
	if profile.LastTrainingDate != nil {
		lastTrained = profile.LastTrainingDate.Format("2006-01-02")
	}
	lines := []string{
		fmt.Sprintf("Username:       %s", profile.Username),
		fmt.Sprintf("Created:        %s", profile.CreatedAt.Format("2006-01-02")),
		fmt.Sprintf("Sessions:       %d", statistics.TotalSessions),
		fmt.Sprintf("Words read:     %d", statistics.TotalWordsRead),
		fmt.Sprintf("Current WPM:    %d", statistics.CurrentWPM),
		fmt.Sprintf("Best WPM:       %d", statistics.BestWPM),
		fmt.Sprintf("Streak:         %d (best %d)", profile.CurrentStreak, profile.LongestStreak),
		fmt.Sprintf("Last trained:   %s", lastTrained),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newProfileResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all sessions and achievements",
		Args:  cobra.NoArgs,
		RunE:  runProfileResetCmd,
	}
	cmd.Flags().BoolVar(&profileForce, "force", false, "confirm deletion")
	return cmd
}

func runProfileResetCmd(_ *cobra.Command, _ []string) error {
	if !profileForce {
		return fmt.Errorf("refusing to delete training history without --force")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	profile, err := ensureProfile(ctx, st)
	if err != nil {
		return err
	}
	if err := st.DeleteAllForUser(ctx, profile.ID); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	profile.CurrentStreak = 0
	profile.LongestStreak = 0
	profile.LastTrainingDate = nil
	if err := st.UpsertProfile(ctx, *profile); err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	logErrln("Training history deleted.")
	return nil
}

func newTextsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "texts",
		Short: "List built-in reading texts",
		Args:  cobra.NoArgs,
		RunE:  runTextsCmd,
	}
}

func runTextsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, text := range content.Library() {
		minutes := metrics.ReadingTime(text.WordCount(), metrics.DefaultWPM)
		line := fmt.Sprintf("%-12s %-12s %-12s %4d words  ~%d min  %s",
			text.ID, text.Category, text.Difficulty, text.WordCount(), minutes, text.Title)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rapida configuration
# Uncomment a value to enable it. CLI flags override config values.

[training]
# target-wpm = %d          # Target reading speed
# words-per-display = %d     # Words per exposure (1-3)
# chunk-size = %d            # Words per chunk (2-5)
# chunk-interval-ms = %d  # Chunk reveal interval (700-2000)
# duration-sec = %d         # Session duration in seconds
# grid-size = %d             # Grid side length (5 or 7)
# grid-rounds = %d           # Grid rounds (1, 3 or 5)
# difficulty = %q  # Text difficulty
`,
		defaultWPM,
		defaultWindow,
		defaultChunkSize,
		defaultChunkMS,
		defaultDurationSec,
		defaultGridSize,
		defaultGridRounds,
		defaultDifficulty,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
