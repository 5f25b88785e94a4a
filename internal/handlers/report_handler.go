package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"techwiz/internal/apperrors"
	"techwiz/internal/pdf"
	"techwiz/internal/services"
)

type ReportHandler struct {
	reports *services.ReportService
	pdf     pdf.Generator
}

func NewReportHandler(reports *services.ReportService, generator pdf.Generator) *ReportHandler {
	return &ReportHandler{reports: reports, pdf: generator}
}

// @Summary      Табель успеваемости
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID студента"
// @Success      200  {object}  handlers.Envelope
// @Router       /reports/report-card/{id} [get]
func (h *ReportHandler) ReportCard(c *gin.Context) {
	card, ok := h.buildCard(c)
	if !ok {
		return
	}
	respondOK(c, card)
}

// @Summary      Табель успеваемости (PDF)
// @Tags         Reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "ID студента"
// @Success      200
// @Router       /reports/report-card/{id}/pdf [get]
func (h *ReportHandler) ReportCardPDF(c *gin.Context) {
	card, ok := h.buildCard(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report_card_%d.pdf"`, card.Student.ID))
	if err := h.pdf.GenerateReportCard(c.Writer, card); err != nil {
		// заголовки уже могли уйти, конверт не отправить
		log.Printf("[reports][pdf] failed to render report card for student %d: %v", card.Student.ID, err)
	}
}

func (h *ReportHandler) buildCard(c *gin.Context) (*services.ReportCard, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, "id must be an integer")
		return nil, false
	}
	card, err := h.reports.BuildReportCard(id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, codeUserNotFound, "Student not found")
		return nil, false
	}
	if err != nil {
		respondDomainError(c, err)
		return nil, false
	}
	return card, true
}
