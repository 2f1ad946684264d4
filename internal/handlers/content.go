package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/models"
	"inkwell/internal/services"
)

// ContentHandler handles HTTP requests for the content lifecycle
type ContentHandler struct {
	service *services.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(service *services.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// Generate creates AI-generated content from a prompt
// POST /api/content/generate
func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	content, err := h.service.Generate(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err, "AI generation failed.")
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

// Summarize creates an AI summary from pasted text or a URL
// POST /api/content/summarize
func (h *ContentHandler) Summarize(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req models.SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	content, err := h.service.Summarize(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err, "AI summarization failed.")
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

// History returns the caller's content history, filtered and sorted by
// creation time descending
// GET /api/content/history?search=&kind=&createdFrom=&createdTo=
func (h *ContentHandler) History(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	filter, err := parseContentFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":     "Invalid history filter",
			"errorDetail": err.Error(),
		})
	}

	contents, err := h.service.ListHistory(c.Context(), userID, filter)
	if err != nil {
		return respondError(c, err, "Failed to fetch history.")
	}

	return c.JSON(contents)
}

// Export downloads the caller's filtered history as an xlsx workbook
// GET /api/content/export?search=&kind=&createdFrom=&createdTo=
func (h *ContentHandler) Export(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	filter, err := parseContentFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":     "Invalid history filter",
			"errorDetail": err.Error(),
		})
	}

	workbook, err := h.service.ExportHistory(c.Context(), userID, filter)
	if err != nil {
		return respondError(c, err, "Failed to export history.")
	}
	defer workbook.Close()

	filename := fmt.Sprintf("inkwell-history-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return workbook.Write(c.Response().BodyWriter())
}

// Update edits a record's output text
// PUT /api/content/:id
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req models.UpdateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	content, err := h.service.UpdateContent(c.Context(), c.Params("id"), userID, req.OutputText)
	if err != nil {
		return respondError(c, err, "Failed to update content.")
	}

	return c.JSON(content)
}

// Delete removes a record
// DELETE /api/content/:id
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	if err := h.service.DeleteContent(c.Context(), c.Params("id"), userID); err != nil {
		return respondError(c, err, "Failed to delete content.")
	}

	return c.JSON(fiber.Map{"message": "Content deleted."})
}

// parseContentFilter builds a ContentFilter from query parameters.
// Timestamps accept RFC3339 or plain dates; createdTo given as a plain
// date is pushed to end of day so the bound stays inclusive.
func parseContentFilter(c *fiber.Ctx) (models.ContentFilter, error) {
	filter := models.ContentFilter{
		Search: c.Query("search"),
	}

	if kind := c.Query("kind"); kind != "" {
		k := models.ContentKind(kind)
		if !k.Valid() {
			return filter, fmt.Errorf("unknown kind %q", kind)
		}
		filter.Kind = k
	}

	if from := c.Query("createdFrom"); from != "" {
		t, _, err := parseTimestamp(from)
		if err != nil {
			return filter, fmt.Errorf("invalid createdFrom: %v", err)
		}
		filter.CreatedFrom = &t
	}

	if to := c.Query("createdTo"); to != "" {
		t, dateOnly, err := parseTimestamp(to)
		if err != nil {
			return filter, fmt.Errorf("invalid createdTo: %v", err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.CreatedTo = &t
	}

	return filter, nil
}

func parseTimestamp(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
