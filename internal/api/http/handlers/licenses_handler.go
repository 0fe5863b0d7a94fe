package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/reporting"
	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// LicensesHandler manages license management endpoints.
type LicensesHandler struct {
	licenses *service.LicenseService
	bulk     *service.BulkActionService
}

// NewLicensesHandler constructs handler.
func NewLicensesHandler(licenses *service.LicenseService, bulk *service.BulkActionService) *LicensesHandler {
	return &LicensesHandler{licenses: licenses, bulk: bulk}
}

// List GET /admin/licenses.
func (h *LicensesHandler) List(c *fiber.Ctx) error {
	filter := reporting.LicenseFilter{
		Query:  c.Query("q"),
		Status: c.Query("status", reporting.All),
		Type:   c.Query("type", reporting.All),
	}
	views, err := h.licenses.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.LicenseResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.NewLicenseResponse(view))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary GET /admin/licenses/summary.
func (h *LicensesHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.licenses.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /admin/licenses/export.
func (h *LicensesHandler) Export(c *fiber.Ctx) error {
	data, filename, err := h.licenses.Export(c.UserContext())
	if err != nil {
		return err
	}
	return sendCSV(c, filename, data)
}

// Get GET /admin/licenses/:id.
func (h *LicensesHandler) Get(c *fiber.Ctx) error {
	view, err := h.licenses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLicenseResponse(*view)})
}

// Issue POST /admin/licenses.
func (h *LicensesHandler) Issue(c *fiber.Ctx) error {
	var req dto.IssueLicenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	var start time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse(domain.DateLayout, req.StartDate)
		if err != nil {
			return apperrors.NewValidationError("invalid license", map[string]any{"start_date": "must be YYYY-MM-DD"})
		}
		start = parsed
	}

	lic, err := h.licenses.Issue(c.UserContext(), actorFrom(c), service.IssueLicenseInput{
		Type:           req.Type,
		Seats:          req.Seats,
		DurationMonths: req.DurationMonths,
		Features:       req.Features,
		Price:          req.Price,
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		Company:        req.Company,
		StartDate:      start,
		AutoRenew:      req.AutoRenew,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLicenseRecord(*lic)})
}

// Action POST /admin/licenses/:id/actions.
func (h *LicensesHandler) Action(c *fiber.Ctx) error {
	var req dto.LicenseActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	notes := &service.NotificationRecorder{}
	result, err := h.licenses.RequestAction(c.UserContext(), actorFrom(c), c.Params("id"),
		events.LicenseCommand(req.Action), service.StaticConfirmer(req.Confirm), notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActionResponse(result, notes.Items)})
}

// Selection GET /admin/licenses/selection.
func (h *LicensesHandler) Selection(c *fiber.Ctx) error {
	ids, err := h.bulk.Selection(c.UserContext(), actorFrom(c).AdminID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSelectionResponse(ids)})
}

// ToggleSelection POST /admin/licenses/selection/toggle.
func (h *LicensesHandler) ToggleSelection(c *fiber.Ctx) error {
	var req dto.SelectionToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID != "" {
		if _, err := h.licenses.Get(c.UserContext(), req.ID); err != nil {
			return err
		}
	}
	selected, ids, err := h.bulk.Toggle(c.UserContext(), actorFrom(c).AdminID, req.ID)
	if err != nil {
		return err
	}
	resp := dto.NewSelectionResponse(ids)
	resp.Selected = &selected
	return c.JSON(fiber.Map{"data": resp})
}

// ClearSelection DELETE /admin/licenses/selection.
func (h *LicensesHandler) ClearSelection(c *fiber.Ctx) error {
	if err := h.bulk.Clear(c.UserContext(), actorFrom(c).AdminID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSelectionResponse(nil)})
}

// BulkAction POST /admin/licenses/selection/actions.
func (h *LicensesHandler) BulkAction(c *fiber.Ctx) error {
	var req dto.LicenseActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	notes := &service.NotificationRecorder{}
	result, err := h.bulk.Run(c.UserContext(), actorFrom(c), events.LicenseCommand(req.Action),
		service.StaticConfirmer(req.Confirm), notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActionResponse(result, notes.Items)})
}

func actorFrom(c *fiber.Ctx) events.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return events.Actor{}
	}
	return events.Actor{AdminID: principal.Admin.ID, Role: principal.Role}
}

func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(data)
}
