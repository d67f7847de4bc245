package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuckoo-ai/cuckoo/internal/agent"
	"github.com/cuckoo-ai/cuckoo/internal/conversation"
	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/learning"
	"github.com/cuckoo-ai/cuckoo/internal/store"
)

// Agent is the message pipeline behind the API.
type Agent interface {
	Handle(ctx context.Context, msg conversation.Message) (agent.Reply, error)
	EndConversation(ctx context.Context, roomID string) error
}

// CourseStore is the writable catalog behind the course endpoints.
type CourseStore interface {
	course.Catalog
	SaveCourse(ctx context.Context, c *course.Course) error
	ListCourses(ctx context.Context) ([]store.CourseSummary, error)
}

// MessageHandler serves the inbound message endpoint.
type MessageHandler struct {
	Agent Agent
}

// NewMessageHandler creates a MessageHandler backed by a.
func NewMessageHandler(a Agent) *MessageHandler {
	return &MessageHandler{Agent: a}
}

type messageRequest struct {
	ID      string               `json:"id"`
	UserID  string               `json:"userId" binding:"required"`
	RoomID  string               `json:"roomId" binding:"required"`
	Content conversation.Content `json:"content"`
}

// PostMessage answers 200 with the response, 204 when the agent declines
// the message and 404 for an unknown course.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	reply, err := h.Agent.Handle(c.Request.Context(), conversation.Message{
		ID:     req.ID,
		UserID: req.UserID,
		RoomID: req.RoomID,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	switch reply.Status {
	case agent.StatusIneligible:
		c.Status(http.StatusNoContent)
	case agent.StatusNotFound:
		respondError(c, http.StatusNotFound, course.ErrNotFound)
	default:
		c.JSON(http.StatusOK, reply.Response)
	}
}

// CourseHandler serves course listing, lookup and import.
type CourseHandler struct {
	Courses CourseStore
}

// NewCourseHandler creates a CourseHandler over s.
func NewCourseHandler(s CourseStore) *CourseHandler {
	return &CourseHandler{Courses: s}
}

// ListCourses returns a summary of every stored course, never null.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	list, err := h.Courses.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []store.CourseSummary{}
	}
	c.JSON(http.StatusOK, list)
}

// GetCourse returns the stored course document, or 404.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	got, err := h.Courses.Course(c.Request.Context(), c.Param("id"))
	if errors.Is(err, course.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, got)
}

// PutCourse imports a course document. The id in the body, when present,
// must match the path.
func (h *CourseHandler) PutCourse(c *gin.Context) {
	id := c.Param("id")
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	parsed, err := course.Parse(data)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if parsed.ID != id {
		respondError(c, http.StatusBadRequest, errors.New("course id does not match the path"))
		return
	}

	err = h.Courses.SaveCourse(c.Request.Context(), parsed)
	var verr *course.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, course.ErrDowngrade):
		respondError(c, http.StatusConflict, err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, parsed)
}

// RecordHandler serves a user's learning records.
type RecordHandler struct {
	Records learning.Store
}

// NewRecordHandler creates a RecordHandler over s.
func NewRecordHandler(s learning.Store) *RecordHandler {
	return &RecordHandler{Records: s}
}

// ListRecords returns every record of the user in the path, never null.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	recs, err := h.Records.RecordsByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []learning.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

// RoomHandler serves per-room dialogue control.
type RoomHandler struct {
	Agent Agent
}

// NewRoomHandler creates a RoomHandler backed by a.
func NewRoomHandler(a Agent) *RoomHandler {
	return &RoomHandler{Agent: a}
}

// EndDialogue drops the dialogue state of a room. Idempotent.
func (h *RoomHandler) EndDialogue(c *gin.Context) {
	if err := h.Agent.EndConversation(c.Request.Context(), c.Param("roomId")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// HealthCheck always answers 200 "ok".
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
