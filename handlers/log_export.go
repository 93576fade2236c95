package handlers

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"
)

// ExportLog handles GET /logs/{id}/export. It reads exactly the fields
// Get returns and renders them as a single-sheet workbook.
func ExportLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	entry, err := logService().Get(r.Context(), actor, id)
	if err != nil {
		writeLogError(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Daily Log"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheet, "A1", "Daily Work Log")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	teamLeader := ""
	if entry.TeamLeader != nil {
		teamLeader = entry.TeamLeader.Name
	}
	rows := []struct {
		label string
		value interface{}
	}{
		{"Date", entry.Date.Format("02/01/2006")},
		{"Project", entry.Project},
		{"Team Leader", teamLeader},
		{"Work Hours", fmt.Sprintf("%s - %s (%.1f h)",
			entry.StartTime.Format("15:04"), entry.EndTime.Format("15:04"), entry.WorkHours)},
		{"Status", string(entry.Status)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+3)
		f.SetCellValue(sheet, cell, row.label)
		f.SetCellStyle(sheet, cell, cell, labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+3), row.value)
	}

	next := len(rows) + 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", next), "Employees Present")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", next), fmt.Sprintf("A%d", next), labelStyle)
	for i, emp := range entry.Employees {
		f.SetCellValue(sheet, fmt.Sprintf("B%d", next+i), emp)
	}

	next += len(entry.Employees) + 1
	f.SetCellValue(sheet, fmt.Sprintf("A%d", next), "Work Description")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", next), fmt.Sprintf("A%d", next), labelStyle)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", next), entry.WorkDescription)

	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 50)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to generate export", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("daily-log-%s.xlsx", entry.ID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}
