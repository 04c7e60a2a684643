package projects

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Spreadsheet headers the importer understands. Matching is
// case-insensitive on the trimmed header text.
const (
	colFirstName  = "first name"
	colLastName   = "last name"
	colEmail      = "email"
	colPhone      = "phone"
	colStreet     = "street address"
	colCity       = "city"
	colState      = "state"
	colZip        = "zip"
	colSystemSize = "system size (kw)"
	colValue      = "contract value"
	colMonitoring = "monitoring system id"
)

// milestoneColumns list the completion-date columns in lifecycle order.
// The latest column holding a parseable date decides the stage.
var milestoneColumns = []string{
	"sale date",
	"site survey completed",
	"design completed",
	"permit submitted",
	"permit approved",
	"install scheduled",
	"installation completed",
	"inspection completed",
	"interconnection approved",
	"pto granted",
	"system activated",
	"closeout completed",
}

type ImportSummary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

type Importer struct {
	repo     Repository
	location *time.Location
}

func NewImporter(repo Repository, location *time.Location) *Importer {
	return &Importer{repo: repo, location: location}
}

// Import reads the first sheet of an xlsx workbook and creates one project
// per row. Rows fail individually; a bad row or a failed write never stops
// the rest of the batch.
func (im *Importer) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return ImportSummary{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return ImportSummary{Errors: []string{}}, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	summary := ImportSummary{Errors: []string{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		summary.Total++

		cell := func(col string) string {
			idx, ok := header[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		project, err := im.mapRow(cell)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		if err := im.repo.Create(ctx, project); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: database error: %v", rowNum, err))
			continue
		}
		summary.Successful++
	}

	return summary, nil
}

func (im *Importer) mapRow(cell func(col string) string) (Project, error) {
	name := strings.TrimSpace(cell(colFirstName) + " " + cell(colLastName))
	if name == "" {
		return Project{}, fmt.Errorf("missing customer name")
	}

	address := joinAddress(cell(colStreet), cell(colCity), cell(colState), cell(colZip))
	if address == "" {
		return Project{}, fmt.Errorf("missing address")
	}

	now := time.Now().In(im.location)
	project := Project{
		ID:                 primitive.NewObjectID().Hex(),
		CustomerName:       name,
		Email:              cell(colEmail),
		Phone:              cell(colPhone),
		Address:            address,
		SystemSizeKW:       parseNumberCell(cell(colSystemSize)),
		ValueUSD:           parseMoneyCell(cell(colValue)),
		Stage:              deriveStage(cell),
		Status:             StatusActive,
		MonitoringSystemID: cell(colMonitoring),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if sale := parseDateCell(cell(milestoneColumns[0])); sale != nil {
		project.SaleDate = *sale
	}

	return project, nil
}

func joinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// deriveStage walks the milestone columns in order; the latest one holding a
// parseable date wins. Rows with no milestone dates start at stage 1.
func deriveStage(cell func(col string) string) int {
	stage := 1
	for i, col := range milestoneColumns {
		if parseDateCell(cell(col)) != nil {
			stage = i + 1
		}
	}
	return stage
}

// excelEpoch is day zero of Excel's 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	time.RFC3339,
}

// parseDateCell converts an Excel serial number or a recognizable date
// string to an ISO date-only string. Anything else yields nil, never an
// error or a panic.
func parseDateCell(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial < 1 || serial > 200000 {
			return nil
		}
		t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		iso := t.Format("2006-01-02")
		return &iso
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}

	return nil
}

var moneyStripper = strings.NewReplacer("$", "", ",", "", " ", "")

func parseMoneyCell(value string) float64 {
	v := moneyStripper.Replace(strings.TrimSpace(value))
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseNumberCell(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
