package services

import (
	"bytes"
	"fmt"

	"gorm.io/gorm"

	"github.com/xuri/excelize/v2"
)

var stationExportHeader = []string{
	"Code station", "Libellé station", "État",
	"Commune", "Département", "Région", "Cours d'eau",
}

// GenerateStationWorkbook builds an XLSX workbook of the station listing,
// filtered per f. The same workbook is archived as a snapshot after imports.
func GenerateStationWorkbook(db *gorm.DB, f StationFilter) (*bytes.Buffer, error) {
	rows, err := ListStations(db, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Stations"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, _ := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, title := range stationExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, title)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for r, row := range rows {
		values := []string{
			row.Code, row.Name, row.State,
			row.CommuneName, row.DepartementName, row.RegionName, row.CoursEauName,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	// Reasonable column widths for the label columns
	file.SetColWidth(sheet, "A", "A", 16)
	file.SetColWidth(sheet, "B", "B", 40)
	file.SetColWidth(sheet, "D", "G", 28)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// StationCSVRows returns the export header and flattened rows for CSV
// streaming in the handler
func StationCSVRows(db *gorm.DB, f StationFilter) ([]string, [][]string, error) {
	rows, err := ListStations(db, f)
	if err != nil {
		return nil, nil, err
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Code, row.Name, row.State,
			row.CommuneName, row.DepartementName, row.RegionName, row.CoursEauName,
		})
	}
	return stationExportHeader, records, nil
}
