package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// Supported bulk import formats.
const (
	ImportFormatJSON = "json"
	ImportFormatCSV  = "csv"
	ImportFormatXLSX = "xlsx"
)

// ErrUnsupportedImportFormat rejects files that are not JSON, CSV or XLSX.
var ErrUnsupportedImportFormat = fmt.Errorf("unsupported import format")

// tabular column order for CSV and XLSX imports.
// text, option_a..option_d, correct_option, department, subject, difficulty
const tabularColumns = 9

// Import parses a bulk question file, validates every row independently and
// inserts the valid ones in one batch. Invalid rows never block valid ones;
// the report accounts for each row with a reason on failure.
func (s *QuestionService) Import(ctx context.Context, format string, r io.Reader, createdBy uuid.UUID) (*model.ImportReport, error) {
	var rows []model.ImportQuestionRow
	var rowOffset int
	var err error

	switch strings.ToLower(format) {
	case ImportFormatJSON:
		rows, err = parseJSONRows(r)
		rowOffset = 1
	case ImportFormatCSV:
		rows, err = parseCSVRows(r)
		rowOffset = 2 // row 1 is the header
	case ImportFormatXLSX:
		rows, err = parseXLSXRows(r)
		rowOffset = 2
	default:
		return nil, ErrUnsupportedImportFormat
	}
	if err != nil {
		return nil, err
	}

	report := &model.ImportReport{Total: len(rows)}
	valid := make([]model.Question, 0, len(rows))
	for i, row := range rows {
		q, reason := buildQuestion(row, createdBy)
		if reason != "" {
			report.Failed++
			report.Errors = append(report.Errors, model.ImportRowError{Row: i + rowOffset, Reason: reason})
			continue
		}
		valid = append(valid, *q)
	}

	if len(valid) > 0 {
		inserted, err := s.questions.CreateBatch(ctx, valid)
		if err != nil {
			return nil, fmt.Errorf("import questions: %w", err)
		}
		report.Imported = inserted
	}

	s.logger.Info().
		Int("total", report.Total).
		Int("imported", report.Imported).
		Int("failed", report.Failed).
		Msg("bulk question import finished")
	return report, nil
}

// buildQuestion validates one import row. It returns a non-empty reason
// instead of a question when the row is invalid.
func buildQuestion(row model.ImportQuestionRow, createdBy uuid.UUID) (*model.Question, string) {
	if strings.TrimSpace(row.Text) == "" {
		return nil, "question text is required"
	}
	if len(row.Options) != 4 {
		return nil, fmt.Sprintf("expected 4 options, got %d", len(row.Options))
	}
	for i, opt := range row.Options {
		if strings.TrimSpace(opt) == "" {
			return nil, fmt.Sprintf("option %d is empty", i+1)
		}
	}
	if row.CorrectOption == nil {
		return nil, "correct option is required"
	}
	if *row.CorrectOption < 0 || *row.CorrectOption > 3 {
		return nil, fmt.Sprintf("correct option %d out of range 0-3", *row.CorrectOption)
	}
	switch model.Department(row.Department) {
	case model.DepartmentScience, model.DepartmentArt, model.DepartmentCommercial, model.DepartmentGeneral:
	default:
		return nil, fmt.Sprintf("unknown department %q", row.Department)
	}
	if strings.TrimSpace(row.Subject) == "" {
		return nil, "subject is required"
	}
	switch model.Difficulty(row.Difficulty) {
	case "", model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, fmt.Sprintf("unknown difficulty %q", row.Difficulty)
	}

	return &model.Question{
		Text:          strings.TrimSpace(row.Text),
		Options:       row.Options,
		CorrectOption: *row.CorrectOption,
		Department:    model.Department(row.Department),
		Subject:       strings.TrimSpace(row.Subject),
		Difficulty:    difficultyOrDefault(row.Difficulty),
		CreatedBy:     createdBy,
	}, ""
}

func parseJSONRows(r io.Reader) ([]model.ImportQuestionRow, error) {
	var rows []model.ImportQuestionRow
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return rows, nil
}

func parseCSVRows(r io.Reader) ([]model.ImportQuestionRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	return tabularToRows(records[1:]), nil
}

func parseXLSXRows(r io.Reader) ([]model.ImportQuestionRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	return tabularToRows(records[1:]), nil
}

func tabularToRows(records [][]string) []model.ImportQuestionRow {
	rows := make([]model.ImportQuestionRow, 0, len(records))
	for _, rec := range records {
		// Pad short records so validation reports the missing fields
		// instead of the parser dropping the row silently.
		for len(rec) < tabularColumns {
			rec = append(rec, "")
		}
		row := model.ImportQuestionRow{
			Text:       rec[0],
			Options:    optionsFromCells(rec[1:5]),
			Department: strings.TrimSpace(rec[6]),
			Subject:    strings.TrimSpace(rec[7]),
			Difficulty: strings.TrimSpace(rec[8]),
		}
		if v, ok := parseCorrectOption(rec[5]); ok {
			row.CorrectOption = &v
		}
		rows = append(rows, row)
	}
	return rows
}

func optionsFromCells(cells []string) []string {
	options := make([]string, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		options = append(options, c)
	}
	return options
}

// parseCorrectOption accepts a zero-based index or a letter A-D.
func parseCorrectOption(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n, true
	}
	upper := strings.ToUpper(cell)
	if len(upper) == 1 && upper[0] >= 'A' && upper[0] <= 'D' {
		return int(upper[0] - 'A'), true
	}
	return 0, false
}
