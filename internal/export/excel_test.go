package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
)

func TestExcelExporter_Write(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	req := entity.NewRequisition("REQ-1", entity.TypeCommercial, []entity.Actor{
		{Email: "jefe@x.com", Name: "Jefe Comercial"},
	}, now)
	req.JobTitle = "Asesor comercial"
	req.Channel = "LinkedIn"
	req.RequestedBy = entity.Actor{Email: "solicitante@x.com", Name: "Solicitante"}
	req.State = workflow.StateSelection

	history := []*entity.HistoryEntry{
		{RequisitionID: "REQ-1", NewState: "En revisión por GH", Action: "CREATE", Timestamp: now},
		{RequisitionID: "REQ-1", PreviousState: "En revisión por GH", NewState: "En aprobación", Action: "HR_APPROVE", ActorEmail: "gh@x.com", Timestamp: now.Add(time.Hour)},
	}

	var buf bytes.Buffer
	exporter := NewExcelExporter(zap.NewNop())
	require.NoError(t, exporter.Write(req, history, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Requisición"}, f.GetSheetList())

	id, err := f.GetCellValue("Requisición", "B1")
	require.NoError(t, err)
	assert.Equal(t, "REQ-1", id)

	state, err := f.GetCellValue("Requisición", "B3")
	require.NoError(t, err)
	assert.Equal(t, "En selección", state)

	rows, err := f.GetRows("Requisición")
	require.NoError(t, err)

	var flat []string
	for _, row := range rows {
		flat = append(flat, row...)
	}
	assert.Contains(t, flat, "Jefe Comercial")
	assert.Contains(t, flat, "HR_APPROVE")
	assert.Contains(t, flat, "Cadena de aprobación")
}
