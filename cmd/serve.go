package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/cuckoo-ai/cuckoo/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := e.newAgent(ctx)
		if err != nil {
			return err
		}

		gin.SetMode(e.cfg.GinMode)
		srv := httpapi.NewServer(e.cfg.Addr, httpapi.RouterConfig{
			MessageHandler: httpapi.NewMessageHandler(a),
			CourseHandler:  httpapi.NewCourseHandler(e.store.Courses()),
			RecordHandler:  httpapi.NewRecordHandler(e.store.Records()),
			RoomHandler:    httpapi.NewRoomHandler(a),
			HealthHandler:  httpapi.NewHealthHandler(),
			Logger:         e.log,
		})

		e.log.Info("listening", "addr", e.cfg.Addr, "db", e.dbPath)
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		e.log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address (overrides CUCKOO_ADDR)")
	serveCmd.Flags().String("redis", "", "Redis URL for dialogue state (overrides CUCKOO_REDIS_URL)")
}
