// cmd/quiz/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lgornik/translator-app-sub000/internal/apiclient"
	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/quiz"
	"github.com/lgornik/translator-app-sub000/internal/tui"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultWords     = 10
)

var (
	serverURL  string
	direction  string
	wordCount  int
	timeLimit  int
	reinforce  bool
	category   string
	difficulty int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quiz",
		Short:         "TUI vocabulary quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "quiz server base URL")
	rootCmd.Flags().StringVar(&direction, "direction", string(model.DirectionPLEN), "quiz direction (pl-en or en-pl)")
	rootCmd.Flags().IntVar(&wordCount, "words", defaultWords, "number of words per quiz (pool size in reinforcement mode)")
	rootCmd.Flags().IntVar(&timeLimit, "time", 0, "time limit in seconds (0 disables the timer)")
	rootCmd.Flags().BoolVar(&reinforce, "reinforce", false, "repeat wrong answers until every word is mastered")
	rootCmd.Flags().StringVar(&category, "category", "", "restrict words to a category")
	rootCmd.Flags().IntVar(&difficulty, "difficulty", 0, "restrict words to a difficulty (1-3)")

	return rootCmd
}

func runQuizCmd(_ *cobra.Command, _ []string) error {
	settings, err := buildSettings()
	if err != nil {
		return err
	}

	client := apiclient.New(strings.TrimRight(serverURL, "/"))
	program := tea.NewProgram(tui.NewModel(client, settings), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildSettings() (quiz.Settings, error) {
	dir := model.Direction(direction)
	if !dir.Valid() {
		return quiz.Settings{}, fmt.Errorf("--direction must be %q or %q", model.DirectionPLEN, model.DirectionENPL)
	}
	if wordCount <= 0 {
		return quiz.Settings{}, fmt.Errorf("--words must be > 0")
	}
	if timeLimit < 0 {
		return quiz.Settings{}, fmt.Errorf("--time must be >= 0")
	}
	if difficulty < 0 || difficulty > 3 {
		return quiz.Settings{}, fmt.Errorf("--difficulty must be between 1 and 3")
	}

	settings := quiz.Settings{
		Direction:        dir,
		WordLimit:        wordCount,
		TimeLimitSeconds: timeLimit,
		Reinforce:        reinforce,
	}
	if category != "" {
		settings.Category = &category
	}
	if difficulty > 0 {
		settings.Difficulty = &difficulty
	}
	return settings, nil
}
