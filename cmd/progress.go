package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/rewards"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a learner's course progress and rewards",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		recs, err := e.store.Records().RecordsByUser(ctx, userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintf(out, "No learning records for %s.\n", userID)
			return nil
		}

		earned, err := e.store.Rewards().RewardsByUser(ctx, userID)
		if err != nil {
			return err
		}
		byCourse := lo.KeyBy(earned, func(r rewards.Reward) string { return r.CourseID })

		fmt.Fprintf(out, "%-20s  %-24s  %8s  %-11s  %6s  %s\n", "Course", "Title", "Progress", "Status", "Points", "Last seen")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, rec := range recs {
			title := ""
			c, err := e.store.Courses().Course(ctx, rec.CourseID)
			switch {
			case err == nil:
				title = c.Title
			case !errors.Is(err, course.ErrNotFound):
				return err
			}
			points := ""
			if rw, ok := byCourse[rec.CourseID]; ok {
				points = fmt.Sprint(rw.Points)
			}
			fmt.Fprintf(out, "%-20s  %-24s  %7d%%  %-11s  %6s  %s\n",
				truncate(rec.CourseID, 20), truncate(title, 24), rec.Progress, rec.Status, points,
				rec.LastAccessedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(out, strings.Repeat("─", 96))
		fmt.Fprintf(out, "Total reward points: %d\n", lo.SumBy(earned, func(r rewards.Reward) int { return r.Points }))
		return nil
	},
}

func init() {
	progressCmd.Flags().String("user", "", "Learner id")
	_ = progressCmd.MarkFlagRequired("user")
}
