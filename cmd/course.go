package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuckoo-ai/cuckoo/internal/authoring"
	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/llm"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage the course catalog",
}

var courseImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Validate course files and add them to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		var failed int
		for _, path := range args {
			c, err := course.ParseFile(path)
			if err == nil {
				err = e.store.Courses().SaveCourse(cmd.Context(), c)
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d key points)\n", c.ID, len(c.KeyPoints))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		list, err := e.store.Courses().ListCourses(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No courses imported yet.")
			return nil
		}

		fmt.Fprintf(out, "%-20s  %-10s  %6s  %-19s  %s\n", "ID", "Version", "Points", "Updated", "Title")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, s := range list {
			fmt.Fprintf(out, "%-20s  %-10s  %6d  %-19s  %s\n",
				truncate(s.ID, 20), truncate(s.Version, 10), s.KeyPoints,
				s.UpdatedAt.Local().Format("2006-01-02 15:04:05"), s.Title)
		}
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a course as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		c, err := e.store.Courses().Course(cmd.Context(), args[0])
		if errors.Is(err, course.ErrNotFound) {
			return fmt.Errorf("course %q not found", args[0])
		}
		if err != nil {
			return err
		}
		return writeJSON(cmd, c)
	},
}

var courseDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a course from lecture notes with an LLM",
	Long: "Reads lecture notes and asks the configured LLM provider to extract " +
		"key points with quiz material. The draft is printed, written to --out, " +
		"or imported directly with --import.",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		title, _ := cmd.Flags().GetString("title")
		version, _ := cmd.Flags().GetString("version")
		notesPath, _ := cmd.Flags().GetString("notes")
		keyPoints, _ := cmd.Flags().GetInt("key-points")
		outPath, _ := cmd.Flags().GetString("out")
		doImport, _ := cmd.Flags().GetBool("import")
		avoidFrom, _ := cmd.Flags().GetStringSlice("avoid-from")

		notes, err := os.ReadFile(notesPath)
		if err != nil {
			return fmt.Errorf("read notes: %w", err)
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		llmCfg := e.cfg.LLM
		if os.Getenv("CUCKOO_LLM_PROVIDER") == "" {
			if discovered, ok := llm.DiscoverConfig(); ok {
				llmCfg = discovered
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), llmCfg.Timeout)
		defer cancel()

		provider, err := llm.NewProvider(ctx, llmCfg, e.store.EventRepo(), e.log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		var avoid []string
		for _, otherID := range avoidFrom {
			other, err := e.store.Courses().Course(ctx, otherID)
			if err != nil {
				return fmt.Errorf("load course %q: %w", otherID, err)
			}
			for _, kp := range other.KeyPoints {
				avoid = append(avoid, kp.Topic)
			}
		}

		c, err := authoring.New(provider, authoring.DefaultConfig(), e.log).Draft(ctx, authoring.DraftInput{
			CourseID:    id,
			Title:       title,
			Version:     version,
			Notes:       string(notes),
			KeyPoints:   keyPoints,
			AvoidTopics: avoid,
		})
		if err != nil {
			return err
		}

		if doImport {
			if err := e.store.Courses().SaveCourse(ctx, c); err != nil {
				return fmt.Errorf("import draft: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "imported %s (%d key points)\n", c.ID, len(c.KeyPoints))
		}
		if outPath != "" {
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, append(data, '\n'), 0o644)
		}
		if doImport {
			return nil
		}
		return writeJSON(cmd, c)
	},
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func init() {
	courseDraftCmd.Flags().String("id", "", "Course id")
	courseDraftCmd.Flags().String("title", "", "Course title (proposed by the model when empty)")
	courseDraftCmd.Flags().String("version", "", "Semantic version stamped on the draft")
	courseDraftCmd.Flags().String("notes", "", "Lecture notes file")
	courseDraftCmd.Flags().Int("key-points", 0, "Desired number of key points (0 lets the model decide)")
	courseDraftCmd.Flags().StringP("out", "o", "", "Write the draft to this file")
	courseDraftCmd.Flags().Bool("import", false, "Import the draft into the catalog")
	courseDraftCmd.Flags().StringSlice("avoid-from", nil, "Course ids whose topics the draft should not repeat")
	_ = courseDraftCmd.MarkFlagRequired("id")
	_ = courseDraftCmd.MarkFlagRequired("notes")

	courseCmd.AddCommand(courseImportCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseDraftCmd)
}
