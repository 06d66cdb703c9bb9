package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

const queryDateLayout = "2006-01-02"

// ReportHandler dashboard y exportaciones.
type ReportHandler struct {
	uc  *report.ReportUseCase
	log *logger.Logger
	now func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log, now: time.Now}
}

// Dashboard godoc
// @Summary      KPIs de ventas y deuda
// @Description  Sin from/to toma el mes en curso. Ambos extremos son inclusivos (día completo).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.DashboardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	from, to, err := h.dateRange(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Dashboard(c.UserContext(), RequestContext(c), from, to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportTransactions godoc
// @Summary      Exportar ventas
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/pdf
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        format  query  string  false  "csv, pdf"  default(csv)
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/transactions/export [get]
func (h *ReportHandler) ExportTransactions(c *fiber.Ctx) error {
	from, to, err := h.dateRange(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	file, err := h.uc.ExportTransactions(c.UserContext(), RequestContext(c), from, to, c.Query("format", "csv"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, file, true)
}

// ExportDebts godoc
// @Summary      Exportar deudas abiertas
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/pdf
// @Param        format  query  string  false  "csv, pdf"  default(csv)
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/debts/export [get]
func (h *ReportHandler) ExportDebts(c *fiber.Ctx) error {
	file, err := h.uc.ExportDebts(c.UserContext(), RequestContext(c), c.Query("format", "csv"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, file, true)
}

// dateRange lee ?from=&to= como días completos. Por defecto, del día 1 del mes a hoy.
func (h *ReportHandler) dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := h.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if s := c.Query("from"); s != "" {
		t, err := time.ParseInLocation(queryDateLayout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("INVALID_DATE", "from debe tener formato YYYY-MM-DD")
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.ParseInLocation(queryDateLayout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("INVALID_DATE", "to debe tener formato YYYY-MM-DD")
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, badRequest("INVALID_RANGE", "to no puede ser anterior a from")
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}

// sendFile responde con el archivo generado; attachment fuerza la descarga.
func sendFile(c *fiber.Ctx, file *report.ExportFile, attachment bool) error {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, disposition+"; filename="+strconv.Quote(file.Name))
	return c.Send(file.Data)
}
