package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/rs/zerolog/log"
)

// CatalogController is the admin CRUD surface for the question bank:
// tech stacks, roles and questions.
type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CreateTechStack godoc
// @Summary (Admin) Create a tech stack
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tech_stack body dto.TechStackUpsertRequest true "Name and description"
// @Success 201 {object} dto.TechStackResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /admin/techstacks [post]
func (c *CatalogController) CreateTechStack(ctx *gin.Context) {
	var req dto.TechStackUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateTechStack(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create tech stack", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTechStacks godoc
// @Summary List tech stacks
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TechStackResponse
// @Router /admin/techstacks [get]
func (c *CatalogController) ListTechStacks(ctx *gin.Context) {
	stacks, err := c.catalogService.ListTechStacks()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve tech stacks"})
		return
	}
	ctx.JSON(http.StatusOK, stacks)
}

// UpdateTechStack godoc
// @Summary (Admin) Update a tech stack
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tech stack ID"
// @Param tech_stack body dto.TechStackUpsertRequest true "Name and description"
// @Success 200 {object} dto.TechStackResponse
// @Failure 404 {object} dto.ErrorResponse "Tech stack not found"
// @Router /admin/techstacks/{id} [put]
func (c *CatalogController) UpdateTechStack(ctx *gin.Context) {
	id, ok := pathID(ctx, "tech stack")
	if !ok {
		return
	}
	var req dto.TechStackUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.UpdateTechStack(id, req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to update tech stack", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteTechStack godoc
// @Summary (Admin) Delete a tech stack
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param id path int true "Tech stack ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Tech stack not found"
// @Router /admin/techstacks/{id} [delete]
func (c *CatalogController) DeleteTechStack(ctx *gin.Context) {
	id, ok := pathID(ctx, "tech stack")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteTechStack(id); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to delete tech stack", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateRole godoc
// @Summary (Admin) Create a role
// @Description Tech stacks may be referenced by ID or embedded as objects
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role body dto.RoleUpsertRequest true "Role with tech stack references"
// @Success 201 {object} dto.RoleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or unknown tech stack"
// @Router /admin/roles [post]
func (c *CatalogController) CreateRole(ctx *gin.Context) {
	var req dto.RoleUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateRole(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create role", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListRoles godoc
// @Summary List roles
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RoleResponse
// @Router /admin/roles [get]
func (c *CatalogController) ListRoles(ctx *gin.Context) {
	roles, err := c.catalogService.ListRoles()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve roles"})
		return
	}
	ctx.JSON(http.StatusOK, roles)
}

// UpdateRole godoc
// @Summary (Admin) Update a role
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param role body dto.RoleUpsertRequest true "Role with tech stack references"
// @Success 200 {object} dto.RoleResponse
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /admin/roles/{id} [put]
func (c *CatalogController) UpdateRole(ctx *gin.Context) {
	id, ok := pathID(ctx, "role")
	if !ok {
		return
	}
	var req dto.RoleUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.UpdateRole(id, req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to update role", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteRole godoc
// @Summary (Admin) Delete a role
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /admin/roles/{id} [delete]
func (c *CatalogController) DeleteRole(ctx *gin.Context) {
	id, ok := pathID(ctx, "role")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteRole(id); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to delete role", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateQuestion godoc
// @Summary (Admin) Create a question
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.QuestionUpsertRequest true "Question text, tech stack and difficulty"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or unknown tech stack"
// @Router /admin/questions [post]
func (c *CatalogController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateQuestion(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary List questions
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param tech_stack query int false "Filter by tech stack ID"
// @Success 200 {array} dto.QuestionResponse
// @Router /admin/questions [get]
func (c *CatalogController) ListQuestions(ctx *gin.Context) {
	var techStackID *uint
	if raw := ctx.Query("tech_stack"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid tech_stack filter"})
			return
		}
		v := uint(id)
		techStackID = &v
	}

	questions, err := c.catalogService.ListQuestions(techStackID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questions"})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Description Rejected once any interview answer references the question
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question body dto.QuestionUpsertRequest true "Question text, tech stack and difficulty"
// @Success 200 {object} dto.QuestionResponse
// @Failure 409 {object} dto.ErrorResponse "Question already answered"
// @Router /admin/questions/{id} [put]
func (c *CatalogController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "question")
	if !ok {
		return
	}
	var req dto.QuestionUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.UpdateQuestion(id, req)
	if err != nil {
		log.Warn().Err(err).Uint("questionID", id).Msg("Question update rejected")
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Failed to update question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Description Rejected once any interview answer references the question
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 204 "Deleted"
// @Failure 409 {object} dto.ErrorResponse "Question already answered"
// @Router /admin/questions/{id} [delete]
func (c *CatalogController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "question")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteQuestion(id); err != nil {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Failed to delete question", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " ID format"})
		return 0, false
	}
	return uint(id), true
}
