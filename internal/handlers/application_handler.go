package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"hirable/internal/middleware"
	"hirable/internal/models"
	"hirable/internal/repositories"
	"hirable/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles HTTP requests for job applications.
type ApplicationHandler struct {
	service *services.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
	}
}

// RegisterRoutes registers the job-application routes with the Fiber app.
// The report route must come before the :id route so "report" is not
// captured as an id.
func (h *ApplicationHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/jobapplications")
	routes.Get("/", h.HandleList)
	routes.Get("/search", h.HandleSearch)
	routes.Get("/report/summary", h.HandleSummaryReport)
	routes.Get("/:id", h.HandleGet)
	routes.Post("/", h.HandleCreate)
	routes.Put("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
}

// callerID resolves the authenticated user, failing the request when the
// identifier is the unauthenticated sentinel 0.
func callerID(c *fiber.Ctx) (uint, error) {
	userID := middleware.UserID(c)
	if userID == 0 {
		return 0, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthenticated",
		})
	}
	return userID, nil
}

func (h *ApplicationHandler) serviceErrorResponse(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": vErr.Message,
		})
	}
	if errors.Is(err, services.ErrNotFound) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	log.Printf("Application request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// HandleList returns all of the caller's applications.
func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	apps, err := h.service.List(userID)
	if err != nil {
		return h.serviceErrorResponse(c, err)
	}
	return c.JSON(apps)
}

// HandleSearch returns the caller's applications matching the query, status
// and location filters.
func (h *ApplicationHandler) HandleSearch(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	filter := repositories.ApplicationFilter{
		Query:    c.Query("query"),
		Location: c.Query("location"),
	}
	if raw := c.Query("status"); raw != "" {
		code, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid status filter.",
			})
		}
		status := models.ApplicationStatus(code)
		filter.Status = &status
	}

	apps, err := h.service.Search(userID, filter)
	if err != nil {
		return h.serviceErrorResponse(c, err)
	}
	return c.JSON(apps)
}

// HandleGet returns a single owned application.
func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	app, err := h.service.Get(userID, uint(id))
	if err != nil {
		return h.serviceErrorResponse(c, err)
	}
	return c.JSON(app)
}

// HandleCreate validates and persists a new application.
func (h *ApplicationHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	var input services.ApplicationInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	app, err := h.service.Create(userID, input)
	if err != nil {
		return h.serviceErrorResponse(c, err)
	}

	c.Set("Location", fmt.Sprintf("/api/jobapplications/%d", app.ID))
	return c.Status(fiber.StatusCreated).JSON(app)
}

// HandleUpdate replaces all mutable fields of an owned application.
func (h *ApplicationHandler) HandleUpdate(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var input services.ApplicationInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.service.Update(userID, uint(id), input); err != nil {
		return h.serviceErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes an owned application.
func (h *ApplicationHandler) HandleDelete(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	if err := h.service.Delete(userID, uint(id)); err != nil {
		return h.serviceErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSummaryReport builds the caller's summary report.
func (h *ApplicationHandler) HandleSummaryReport(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if userID == 0 {
		return err
	}

	report, err := h.service.SummaryReport(userID)
	if err != nil {
		return h.serviceErrorResponse(c, err)
	}
	return c.JSON(report)
}
