package handlers

import (
	"bytes"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

type ResultHandler struct {
	runRepo repositories.MatchRunRepository
}

func NewResultHandler(runRepo repositories.MatchRunRepository) *ResultHandler {
	return &ResultHandler{
		runRepo: runRepo,
	}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	response := models.ResultResponse{
		ID:                 run.ID.String(),
		JobDescriptionName: run.JobDescriptionName,
		Status: models.ResourceStatus{
			EmbeddingAvailable: run.EmbeddingAvailable,
			KeywordsAvailable:  run.KeywordsAvailable,
		},
		Results: run.Results,
	}
	if run.Warnings != "" {
		response.Warnings = strings.Split(run.Warnings, "\n")
	}

	return c.JSON(response)
}

// HandleListResults handles GET /results
func (h *ResultHandler) HandleListResults(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.runRepo.FindRecent(limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"runs": runs,
	})
}

// HandleDownloadReport handles GET /result/:id/report.csv?format=simple|enhanced
func (h *ResultHandler) HandleDownloadReport(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	rows := services.ReportRowsFromRun(run)

	var buf bytes.Buffer
	filename := "resume_match_report_enhanced.csv"
	switch c.Query("format", "enhanced") {
	case "simple":
		filename = "resume_match_report.csv"
		err = services.WriteSimpleCSV(&buf, rows)
	case "enhanced":
		err = services.WriteEnhancedCSV(&buf, rows)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "format must be 'simple' or 'enhanced'")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *ResultHandler) findRun(c *fiber.Ctx) (*models.MatchRun, error) {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid match run ID format")
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchRunNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Match run not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return run, nil
}
