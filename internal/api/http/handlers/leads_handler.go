package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// LeadsHandler manages sales portal endpoints.
type LeadsHandler struct {
	leads *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leads *service.LeadService) *LeadsHandler {
	return &LeadsHandler{leads: leads}
}

// List GET /admin/leads.
func (h *LeadsHandler) List(c *fiber.Ctx) error {
	filter := reporting.LeadFilter{
		Query:      c.Query("q"),
		Status:     c.Query("status", reporting.All),
		AssignedTo: c.Query("assigned_to", reporting.All),
	}
	leads, err := h.leads.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leadResponses(leads)})
}

// Summary GET /admin/leads/summary.
func (h *LeadsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.leads.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /admin/leads/export.
func (h *LeadsHandler) Export(c *fiber.Ctx) error {
	data, filename, err := h.leads.Export(c.UserContext())
	if err != nil {
		return err
	}
	return sendCSV(c, filename, data)
}

// Advance POST /admin/leads/:id/advance.
func (h *LeadsHandler) Advance(c *fiber.Ctx) error {
	lead, err := h.leads.AdvanceStatus(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// SetStatus PUT /admin/leads/:id/status.
func (h *LeadsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.LeadStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.leads.SetStatus(c.UserContext(), actorFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// Action POST /admin/leads/:id/actions.
func (h *LeadsHandler) Action(c *fiber.Ctx) error {
	var req dto.LeadActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	receipt, err := h.leads.DispatchAction(c.UserContext(), actorFrom(c), c.Params("id"), req.Action)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": receipt})
}

func leadResponses(leads []domain.SalesLead) []dto.LeadResponse {
	items := make([]dto.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, dto.NewLeadResponse(lead))
	}
	return items
}
