package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Submitted At", "Rating", "Sentiment", "Status", "Source", "Topics", "Comment"}

// ExportHandler streams a questionnaire's reviews as XLSX or CSV.
// The route is plan-gated before it reaches this handler.
type ExportHandler struct {
	reviewRepo        *repository.ReviewRepository
	questionnaireRepo *repository.QuestionnaireRepository
}

func NewExportHandler(reviewRepo *repository.ReviewRepository, questionnaireRepo *repository.QuestionnaireRepository) *ExportHandler {
	return &ExportHandler{
		reviewRepo:        reviewRepo,
		questionnaireRepo: questionnaireRepo,
	}
}

// ExportReviews - GET /questionnaires/:id/export?format=xlsx|csv
func (h *ExportHandler) ExportReviews(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	format := strings.ToLower(c.Query("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "format must be xlsx or csv",
		))
	}

	from := time.Time{}
	to := time.Now().UTC()
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "from must be YYYY-MM-DD",
			))
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "to must be YYYY-MM-DD",
			))
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}

	reviews, err := h.reviewRepo.ListInRange(q.ID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch reviews",
		))
	}

	filename := fmt.Sprintf("reviews-%s-%s", q.ID, time.Now().UTC().Format("20060102"))

	if format == "csv" {
		data, err := buildCSV(reviews)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
				"EXPORT_FAILED", "Failed to build CSV export",
			))
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
		return c.Send(data)
	}

	data, err := buildXLSX(reviews)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"EXPORT_FAILED", "Failed to build XLSX export",
		))
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	return c.Send(data)
}

func buildCSV(reviews []domain.Review) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range reviews {
		if err := w.Write(exportRow(&reviews[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildXLSX(reviews []domain.Review) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reviews"
	f.SetSheetName("Sheet1", sheet)

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i := range reviews {
		row := exportRow(&reviews[i])
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			// Keep the rating numeric so spreadsheet formulas work on it.
			if col == 2 {
				rating, _ := strconv.Atoi(value)
				if err := f.SetCellValue(sheet, cell, rating); err != nil {
					return nil, err
				}
				continue
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportRow(r *domain.Review) []string {
	comment := ""
	if r.Comment != nil {
		comment = *r.Comment
	}
	return []string{
		r.ID.String(),
		r.CreatedAt.UTC().Format(time.RFC3339),
		strconv.Itoa(r.Rating),
		string(r.Sentiment),
		string(r.Status),
		r.Source,
		strings.Join(r.Topics, ", "),
		comment,
	}
}
