package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/dto"
	"github.com/yukikurage/agiliza-api/internal/services"
)

// DirectoryHandler serves departments and users.
type DirectoryHandler struct {
	directory *services.DirectoryService
	log       *logrus.Logger
}

func NewDirectoryHandler(directory *services.DirectoryService, log *logrus.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		log:       log,
	}
}

// ListDepartments returns every department. The registration form needs it,
// so it does not require authentication.
func (h *DirectoryHandler) ListDepartments(c *gin.Context) {
	departments, err := h.directory.ListDepartments(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentDTOs(departments))
}

// ListUsers returns the active users visible to the caller
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	users, err := h.directory.ListUsers(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}
