package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// CareersHandler accepts job applications.
type CareersHandler struct {
	careers *service.CareersService
}

// NewCareersHandler constructs handler.
func NewCareersHandler(careers *service.CareersService) *CareersHandler {
	return &CareersHandler{careers: careers}
}

// Submit POST /careers/applications (multipart: name, email, position, resume).
func (h *CareersHandler) Submit(c *fiber.Ctx) error {
	header, err := c.FormFile("resume")
	if err != nil {
		return apperrors.NewValidationError("resume file is required", map[string]any{"field": "resume"})
	}
	contentType := header.Header.Get(fiber.HeaderContentType)
	if err := h.careers.ValidateResume(contentType, header.Size); err != nil {
		return err
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	receipt, err := h.careers.Submit(c.UserContext(), service.ApplicationInput{
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		Position:    c.FormValue("position"),
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": receipt})
}
