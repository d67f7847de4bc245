package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Take a course in an interactive terminal chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		courseID, _ := cmd.Flags().GetString("course")
		roomID, _ := cmd.Flags().GetString("room")
		if roomID == "" {
			roomID = userID + ":" + courseID
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		c, err := e.store.Courses().Course(ctx, courseID)
		if errors.Is(err, course.ErrNotFound) {
			return fmt.Errorf("course %q is not in the catalog; import it with `cuckoo course import`", courseID)
		}
		if err != nil {
			return err
		}

		a, err := e.newAgent(ctx)
		if err != nil {
			return err
		}

		return tui.Run(ctx, a, e.store.Records(), tui.Session{
			UserID:      userID,
			RoomID:      roomID,
			CourseID:    c.ID,
			CourseTitle: c.Title,
		})
	},
}

func init() {
	chatCmd.Flags().String("user", "", "Learner id")
	chatCmd.Flags().String("course", "", "Course id")
	chatCmd.Flags().String("room", "", "Conversation id (default <user>:<course>)")
	chatCmd.Flags().String("redis", "", "Redis URL for dialogue state (overrides CUCKOO_REDIS_URL)")
	_ = chatCmd.MarkFlagRequired("user")
	_ = chatCmd.MarkFlagRequired("course")
}
