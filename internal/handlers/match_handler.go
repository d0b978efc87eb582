package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

const missingInputMessage = "Please upload a job description and at least one resume to get started."

type MatchHandler struct {
	matcher     services.MatcherService
	loader      services.DocumentLoader
	runRepo     repositories.MatchRunRepository
	highlighter *services.Highlighter
}

func NewMatchHandler(
	matcher services.MatcherService,
	loader services.DocumentLoader,
	runRepo repositories.MatchRunRepository,
	highlighter *services.Highlighter,
) *MatchHandler {
	return &MatchHandler{
		matcher:     matcher,
		loader:      loader,
		runRepo:     runRepo,
		highlighter: highlighter,
	}
}

// HandleMatch handles POST /match. The form carries one job_description file
// and one or more resumes files.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": missingInputMessage,
		})
	}

	jdFiles := form.File["job_description"]
	resumeFiles := form.File["resumes"]
	if len(jdFiles) == 0 || len(resumeFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": missingInputMessage,
		})
	}

	jd, err := h.loader.LoadUpload(jdFiles[0])
	if err != nil {
		return uploadError(c, "job description", err)
	}

	resumes := make([]models.Document, 0, len(resumeFiles))
	for _, file := range resumeFiles {
		doc, err := h.loader.LoadUpload(file)
		if err != nil {
			return uploadError(c, "resume "+file.Filename, err)
		}
		resumes = append(resumes, *doc)
	}

	report, err := h.matcher.Match(c.UserContext(), services.MatchRequest{
		JobDescription: jd,
		Resumes:        resumes,
	})
	if err != nil {
		if errors.Is(err, services.ErrJobDescriptionRequired) || errors.Is(err, services.ErrResumesRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": missingInputMessage,
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := h.runRepo.Create(services.RunFromReport(report)); err != nil {
		log.Printf("⚠️  Failed to store match run %s: %v\n", report.RunID, err)
		report.Warnings = append(report.Warnings, "results could not be stored and will not be available for download")
	}

	return c.Status(fiber.StatusOK).JSON(h.buildResponse(report))
}

// HandleStatus handles GET /status so clients can warn about degraded mode
// before uploading anything.
func (h *MatchHandler) HandleStatus(c *fiber.Ctx) error {
	status := h.matcher.Status()
	return c.JSON(fiber.Map{
		"status":   status,
		"degraded": status.Degraded(),
	})
}

func (h *MatchHandler) buildResponse(report *services.MatchReport) models.MatchResponse {
	ranked := report.Ranked()
	results := make([]models.MatchedResume, len(ranked))
	for i, res := range ranked {
		results[i] = models.MatchedResume{
			Rank:             i + 1,
			ResumeName:       res.ResumeName,
			MatchPercentage:  res.MatchPercentage,
			Band:             services.ScoreBand(res.MatchPercentage),
			MatchingKeywords: res.MatchingKeywords,
			Diagnostics:      res.Diagnostics,
		}
		if len(res.MatchingKeywords) > 0 {
			results[i].Preview = services.Preview(res.ResumeText, res.MatchingKeywords, h.highlighter)
		}
	}

	return models.MatchResponse{
		ID:       report.RunID.String(),
		Status:   report.Status,
		Results:  results,
		Warnings: report.Warnings,
	}
}

func uploadError(c *fiber.Ctx, what string, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, services.ErrUnsupportedFileType) || errors.Is(err, services.ErrFileTooLarge) {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": "invalid " + what + ": " + err.Error(),
	})
}
