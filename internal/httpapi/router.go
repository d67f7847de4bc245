// Package httpapi exposes the lecture agent and the course catalog over
// HTTP.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/cuckoo-ai/cuckoo/internal/logger"
)

type RouterConfig struct {
	MessageHandler *MessageHandler
	CourseHandler  *CourseHandler
	RecordHandler  *RecordHandler
	RoomHandler    *RoomHandler
	HealthHandler  *HealthHandler

	Logger *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	v1 := r.Group("/v1")
	{
		if cfg.MessageHandler != nil {
			v1.POST("/messages", cfg.MessageHandler.PostMessage)
		}

		if cfg.CourseHandler != nil {
			v1.GET("/courses", cfg.CourseHandler.ListCourses)
			v1.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			v1.PUT("/courses/:id", cfg.CourseHandler.PutCourse)
		}

		if cfg.RecordHandler != nil {
			v1.GET("/users/:userId/records", cfg.RecordHandler.ListRecords)
		}

		if cfg.RoomHandler != nil {
			v1.DELETE("/rooms/:roomId/dialogue", cfg.RoomHandler.EndDialogue)
		}
	}

	return r
}
