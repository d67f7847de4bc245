package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cuckoo-ai/cuckoo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cuckoo",
	Short: "Conversational course tutor",
	Long: "Cuckoo teaches a course one key point at a time in a chat, checks " +
		"understanding with quizzes and tracks each learner's progress.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CUCKOO_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file loaded before reading CUCKOO_ variables")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CUCKOO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
