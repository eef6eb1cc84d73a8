package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
	"github.com/oksasatya/go-taskboard/pkg/response"
)

// ProjectHandler serves /api/projects and the project-scoped task routes.
type ProjectHandler struct {
	Projects *application.ProjectService
	Tasks    *application.TaskService
	Logger   *logrus.Logger
}

func NewProjectHandler(projects *application.ProjectService, tasks *application.TaskService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Tasks: tasks, Logger: logger}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type addMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "name", "description")
		return
	}
	p, err := h.Projects.Create(c.Request.Context(), middleware.CurrentUser(c), application.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}, requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"project": p}, "Project created", nil)
}

func (h *ProjectHandler) List(c *gin.Context) {
	ps, err := h.Projects.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": ps}, "", map[string]any{"count": len(ps)})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.Projects.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p}, "", nil)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.Projects.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), application.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p}, "Project updated", nil)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.Projects.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), requestMeta(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// AddMember POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "email")
		return
	}
	p, err := h.Projects.AddMember(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Email, requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p}, "Member added", nil)
}

// Members GET /api/projects/:id/members
func (h *ProjectHandler) Members(c *gin.Context) {
	ms, err := h.Projects.Members(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"members": ms}, "", nil)
}

// RemoveMember DELETE /api/projects/:id/members/:memberId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	p, err := h.Projects.RemoveMember(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("memberId"), requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p}, "Member removed", nil)
}

// ListTasks GET /api/projects/:id/tasks
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	ts, err := h.Tasks.ListByProject(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": ts}, "", map[string]any{"count": len(ts)})
}

// CreateTask POST /api/projects/:id/tasks
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	var req taskFields
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, taskFieldOrder...)
		return
	}
	createTask(c, h.Tasks, h.Logger, c.Param("id"), req)
}

// SearchTasks GET /api/projects/:id/tasks/search?q=
func (h *ProjectHandler) SearchTasks(c *gin.Context) {
	ts, err := h.Tasks.Search(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Query("q"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": ts}, "", map[string]any{"count": len(ts)})
}
