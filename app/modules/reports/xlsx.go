package reports

import (
	"bytes"
	"fmt"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the run workbook.
const (
	RunsSheet   = "Runs"
	GhostsSheet = "Ghosts"
)

// RunHeaders is the header row of the runs sheet.
var RunHeaders = []string{
	"Date", "Run #", "Map", "Room", "Ghost", "Actual Ghost", "Correct",
	"Evidence", "Players", "Deaths", "Cursed Possession", "Game Mode", "Run Time",
}

var ghostHeaders = []string{"Ghost", "Runs", "Correct", "Accuracy"}

// RunsWorkbook writes runs, one per row in the given order, plus a ghost summary sheet.
func RunsWorkbook(runs []recordsdomain.RunView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), RunsSheet); err != nil {
		return nil, fmt.Errorf("failed to name runs sheet: %w", err)
	}
	if err := writeRow(f, RunsSheet, 1, toCells(RunHeaders)); err != nil {
		return nil, err
	}
	for i, r := range runs {
		if err := writeRow(f, RunsSheet, i+2, runRow(r)); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(RunsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze header row: %w", err)
	}

	if _, err := f.NewSheet(GhostsSheet); err != nil {
		return nil, fmt.Errorf("failed to add ghosts sheet: %w", err)
	}
	if err := writeRow(f, GhostsSheet, 1, toCells(ghostHeaders)); err != nil {
		return nil, err
	}
	for i, st := range GhostStats(runs) {
		row := []interface{}{st.Name, st.Runs, st.Correct, fmt.Sprintf("%.0f%%", st.Accuracy()*100)}
		if err := writeRow(f, GhostsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func runRow(r recordsdomain.RunView) []interface{} {
	correct := "No"
	if r.WasCorrect {
		correct = "Yes"
	}
	return []interface{}{
		r.Date,
		r.RunNumber,
		r.MapName,
		r.RoomName,
		r.GhostName,
		r.ActualGhostName,
		correct,
		strings.Join(r.EvidenceNames, ", "),
		strings.Join(r.PlayerNames(), ", "),
		strings.Join(r.DeadPlayers(), ", "),
		r.CursedPossessionName,
		r.GameModeName,
		r.FormattedRunTime,
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
