package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
	"github.com/oksasatya/go-taskboard/pkg/response"
)

type TaskHandler struct {
	Tasks  *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(tasks *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Logger: logger}
}

// taskFields is the create payload shared by POST /tasks and
// POST /projects/:id/tasks.
type taskFields struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,taskstatus"`
	Priority    string  `json:"priority" binding:"omitempty,taskpriority"`
	AssigneeID  *string `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
}

var taskFieldOrder = []string{"projectId", "title", "description", "status", "priority"}

type createTaskRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	taskFields
}

type updateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	AssigneeID  Nullable[string] `json:"assigneeId"`
	DueDate     Nullable[string] `json:"dueDate"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,taskstatus"`
}

func createTask(c *gin.Context, tasks *application.TaskService, logger *logrus.Logger, projectID string, req taskFields) {
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	t, err := tasks.Create(c.Request.Context(), middleware.CurrentUser(c), application.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     due,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": t}, "Task created", nil)
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, taskFieldOrder...)
		return
	}
	createTask(c, h.Tasks, h.Logger, req.ProjectID, req.taskFields)
}

// ListMine GET /api/tasks
func (h *TaskHandler) ListMine(c *gin.Context) {
	ts, err := h.Tasks.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": ts}, "", map[string]any{"count": len(ts)})
}

func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Tasks.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": t}, "", nil)
}

// Update PATCH /api/tasks/:id. A null assigneeId or dueDate clears it.
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	in := application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeSet: req.AssigneeID.Set,
		AssigneeID:  req.AssigneeID.Ptr(),
		DueDateSet:  req.DueDate.Set,
	}
	if req.DueDate.Set {
		due, err := parseDueDate(req.DueDate.Ptr())
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		in.DueDate = due
	}
	t, err := h.Tasks.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": t}, "Task updated", nil)
}

// UpdateStatus PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "status")
		return
	}
	t, err := h.Tasks.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": t}, "Status updated", nil)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Tasks.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), requestMeta(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
