package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/munna98/cashdesk/internal/core/domain"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/middleware"
)

// entityHandler serves one entity kind. The same handler type is mounted at
// /agents, /recipients and /employees.
type entityHandler struct {
	kind          domain.EntityKind
	entityService portssvc.EntitySvcFacade
}

func newEntityHandler(kind domain.EntityKind, es portssvc.EntitySvcFacade) *entityHandler {
	return &entityHandler{kind: kind, entityService: es}
}

// registerEntityRoutes registers CRUD routes for every entity kind.
func registerEntityRoutes(rg *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	for path, kind := range map[string]domain.EntityKind{
		"/agents":     domain.KindAgent,
		"/recipients": domain.KindRecipient,
		"/employees":  domain.KindEmployee,
	} {
		h := newEntityHandler(kind, entityService)
		group := rg.Group(path)
		{
			group.POST("", h.createEntity)
			group.GET("", h.listEntities)
			group.GET("/:id", h.getEntity)
			group.PUT("/:id", h.updateEntity)
			group.DELETE("/:id", h.deleteEntity)
		}
	}
}

// createEntity godoc
// @Summary Create an agent, recipient or employee
// @Description Creates the entity together with its linked account and posts its opening balance
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   kind path string true "agents, recipients or employees"
// @Param   entity body dto.CreateEntityRequest true "Entity details"
// @Success 201 {object} dto.CreateEntityResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Opening Balance account missing"
// @Failure 500 {object} map[string]string "Failed to create entity"
// @Security BearerAuth
// @Router /{kind} [post]
func (h *entityHandler) createEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(h.kind)))
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create entity", slog.String("name", req.Name))
	created, err := h.entityService.CreateEntity(c.Request.Context(), h.kind, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create "+string(h.kind))
		return
	}

	logger.Info("Entity created successfully",
		slog.String("entity_id", created.Entity.EntityID),
		slog.String("account_id", created.Account.AccountID))
	c.JSON(http.StatusCreated, dto.ToCreateEntityResponse(created))
}

// listEntities godoc
// @Summary List entities of one kind
// @Tags entities
// @Produce  json
// @Param   kind path string true "agents, recipients or employees"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListEntitiesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entities"
// @Security BearerAuth
// @Router /{kind} [get]
func (h *entityHandler) listEntities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(h.kind)))
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.ListEntitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	entities, err := h.entityService.ListEntities(c.Request.Context(), h.kind, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list "+string(h.kind)+"s")
		return
	}

	res := dto.ListEntitiesResponse{Entities: make([]dto.EntityResponse, len(entities))}
	for i := range entities {
		res.Entities[i] = dto.ToEntityResponse(&entities[i])
	}
	c.JSON(http.StatusOK, res)
}

// getEntity godoc
// @Summary Get an entity by ID
// @Tags entities
// @Produce  json
// @Param   kind path string true "agents, recipients or employees"
// @Param   id path string true "Entity ID"
// @Success 200 {object} dto.EntityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entity"
// @Security BearerAuth
// @Router /{kind}/{id} [get]
func (h *entityHandler) getEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("kind", string(h.kind)),
		slog.String("entity_id", c.Param("id")))
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	entity, err := h.entityService.GetEntity(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve "+string(h.kind))
		return
	}
	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// updateEntity godoc
// @Summary Update an entity
// @Description Updates entity details. A changed opening balance posts a correcting journal entry.
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   kind path string true "agents, recipients or employees"
// @Param   id path string true "Entity ID"
// @Param   entity body dto.UpdateEntityRequest true "Fields to update"
// @Success 200 {object} dto.EntityResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 500 {object} map[string]string "Failed to update entity"
// @Security BearerAuth
// @Router /{kind}/{id} [put]
func (h *entityHandler) updateEntity(c *gin.Context) {
	entityID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("kind", string(h.kind)),
		slog.String("entity_id", entityID))

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	updated, err := h.entityService.UpdateEntity(c.Request.Context(), h.kind, entityID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update "+string(h.kind))
		return
	}

	logger.Info("Entity updated successfully")
	c.JSON(http.StatusOK, dto.ToEntityResponse(updated))
}

// deleteEntity godoc
// @Summary Delete an entity
// @Description Deletes the entity and its account. Refused while any posting touches the account.
// @Tags entities
// @Param   kind path string true "agents, recipients or employees"
// @Param   id path string true "Entity ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 409 {object} map[string]string "Entity has transactions"
// @Failure 500 {object} map[string]string "Failed to delete entity"
// @Security BearerAuth
// @Router /{kind}/{id} [delete]
func (h *entityHandler) deleteEntity(c *gin.Context) {
	entityID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("kind", string(h.kind)),
		slog.String("entity_id", entityID))
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.entityService.DeleteEntity(c.Request.Context(), h.kind, entityID, userID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete "+string(h.kind))
		return
	}

	logger.Info("Entity deleted successfully")
	c.Status(http.StatusNoContent)
}
