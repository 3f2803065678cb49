package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
)

const sheetName = "Requisición"

// ExcelExporter renders a requisition summary workbook for HR downloads
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Write renders the requisition and its audit trail into w as an xlsx workbook
func (e *ExcelExporter) Write(req *entity.Requisition, history []*entity.HistoryEntry, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	row := e.fillSummary(f, req)
	row = e.fillChain(f, req, row+1)
	row = e.fillOutcome(f, req, row+1)
	e.fillHistory(f, history, row+1)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Requisition exported",
		zap.String("id", req.ID),
		zap.Int("history_entries", len(history)))
	return nil
}

func (e *ExcelExporter) fillSummary(f *excelize.File, req *entity.Requisition) int {
	rows := [][2]string{
		{"Requisición", req.ID},
		{"Tipo", typeDisplay(req.Type)},
		{"Estado", req.State.Display()},
		{"Nivel actual", req.Level.Display()},
		{"Cargo", req.JobTitle},
		{"Canal", req.Channel},
		{"Área", req.Department},
		{"Solicitante", actorDisplay(req.RequestedBy.Name, req.RequestedBy.Email)},
		{"Creada", formatTime(&req.CreatedAt)},
		{"Enviada a aprobación", formatTime(req.SentForApprovalAt)},
		{"Aprobación completada", formatTime(req.ApprovalCompletedAt)},
		{"Cerrada", formatTime(req.ClosedAt)},
	}

	for i, r := range rows {
		e.setCell(f, fmt.Sprintf("A%d", i+1), r[0])
		e.setCell(f, fmt.Sprintf("B%d", i+1), r[1])
	}
	return len(rows)
}

func (e *ExcelExporter) fillChain(f *excelize.File, req *entity.Requisition, row int) int {
	e.setCell(f, fmt.Sprintf("A%d", row), "Cadena de aprobación")
	row++
	headers := []string{"Nivel", "Aprobador", "Correo", "Estado", "Fecha", "Motivo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		e.setCell(f, cell, h)
	}
	row++

	for level := workflow.Level1; level <= workflow.Level3; level++ {
		slot := req.Chain.Slot(level)
		values := []string{
			level.Display(),
			slot.Name,
			slot.Email,
			slot.Status.Display(),
			formatTime(slot.DecidedAt),
			slot.Reason,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			e.setCell(f, cell, v)
		}
		row++
	}
	return row
}

func (e *ExcelExporter) fillOutcome(f *excelize.File, req *entity.Requisition, row int) int {
	rows := [][2]string{
		{"Candidato", req.Selection.CandidateName},
		{"Documento", req.Selection.CandidateDocument},
		{"Fecha de ingreso", formatTime(req.Selection.StartDate)},
		{"Tipo de contrato", req.Selection.ContractType},
		{"Nómina", req.Payroll.Status.Display()},
		{"Decisión de nómina", actorDisplay(req.Payroll.ActorName, req.Payroll.ActorEmail)},
		{"Cierre", actorDisplay(req.Closure.ActorName, req.Closure.ActorEmail)},
		{"Motivo de cierre", req.Closure.Reason},
	}
	for _, r := range rows {
		e.setCell(f, fmt.Sprintf("A%d", row), r[0])
		e.setCell(f, fmt.Sprintf("B%d", row), r[1])
		row++
	}
	return row
}

func (e *ExcelExporter) fillHistory(f *excelize.File, history []*entity.HistoryEntry, row int) {
	e.setCell(f, fmt.Sprintf("A%d", row), "Historial")
	row++
	headers := []string{"Fecha", "Acción", "Estado anterior", "Estado nuevo", "Actor", "Motivo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		e.setCell(f, cell, h)
	}
	row++

	for _, entry := range history {
		ts := entry.Timestamp
		values := []string{
			formatTime(&ts),
			entry.Action,
			entry.PreviousState,
			entry.NewState,
			actorDisplay(entry.ActorName, entry.ActorEmail),
			entry.Reason,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			e.setCell(f, cell, v)
		}
		row++
	}
}

func (e *ExcelExporter) setCell(f *excelize.File, cell, value string) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell", zap.String("cell", cell), zap.Error(err))
	}
}

func typeDisplay(t entity.RequisitionType) string {
	switch t {
	case entity.TypeCommercial:
		return "Comercial"
	case entity.TypeAdministrative:
		return "Administrativa"
	default:
		return string(t)
	}
}

func actorDisplay(name, email string) string {
	switch {
	case name == "" && email == "":
		return ""
	case name == "":
		return email
	case email == "":
		return name
	default:
		return fmt.Sprintf("%s <%s>", name, email)
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
