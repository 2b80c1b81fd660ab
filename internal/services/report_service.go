package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/learnlite/course-platform/internal/cache"
	apperrors "github.com/learnlite/course-platform/internal/errors"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ReportService handles file import/export: bulk quiz-question import and
// per-user progress export.
type ReportService interface {
	ImportQuestionsFromFile(ctx context.Context, quizID uint, file multipart.File, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, quizID uint, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, quizID uint, reader io.Reader) (*ImportResult, error)

	ExportProgressToExcel(ctx context.Context, userID string) ([]byte, error)
}

type ImportResult struct {
	TotalRows    int              `json:"total_rows"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Errors       []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError pins a rejected row to its sheet position.
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

type reportService struct {
	repo     repositories.Repository
	progress ProgressService
	cache    cache.CacheService
	logger   utils.Logger
}

func NewReportService(repo repositories.Repository, progress ProgressService, cacheService cache.CacheService, logger utils.Logger) ReportService {
	return &reportService{
		repo:     repo,
		progress: progress,
		cache:    cacheService,
		logger:   logger,
	}
}

// ===== IMPORT OPERATIONS =====

// Expected columns: question_text, option_a..option_d (at least two filled),
// correct_answer as a letter A-D.
var questionImportColumns = []string{"question_text", "correct_answer"}

func (s *reportService) ImportQuestionsFromFile(ctx context.Context, quizID uint, file multipart.File, filename string) (*ImportResult, error) {
	s.logger.Info("Starting question import", "quiz_id", quizID, "filename", filename)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, quizID, file)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, quizID, file)
	default:
		return nil, apperrors.NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *reportService) ImportQuestionsFromCSV(ctx context.Context, quizID uint, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRows(ctx, quizID, records)
}

func (s *reportService) ImportQuestionsFromExcel(ctx context.Context, quizID uint, reader io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRows(ctx, quizID, rows)
}

func (s *reportService) importRows(ctx context.Context, quizID uint, records [][]string) (*ImportResult, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range questionImportColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	result := &ImportResult{TotalRows: len(records) - 1}
	position := len(quiz.Questions)

	var questions []models.Question
	for rowIndex, record := range records[1:] {
		question, rowErrors := parseQuestionRow(record, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		question.QuizID = quizID
		question.Position = position
		position++
		questions = append(questions, *question)
		result.SuccessCount++
	}

	if len(questions) > 0 {
		quiz.Questions = append(quiz.Questions, questions...)
		if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
			return nil, fmt.Errorf("failed to save imported questions: %w", err)
		}
		if err := s.cache.Delete(ctx, fmt.Sprintf(quizCacheKeyFmt, quizID)); err != nil {
			s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
		}
	}

	s.logger.Info("Question import completed",
		"quiz_id", quizID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)
	return result, nil
}

func parseQuestionRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []ImportRowError) {
	getColumn := func(name string) string {
		if index, ok := headerMap[name]; ok && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	text := getColumn("question_text")
	if text == "" {
		return nil, []ImportRowError{{Row: rowNum, Column: "question_text", Message: "required field"}}
	}

	var options []models.Option
	for i, col := range []string{"option_a", "option_b", "option_c", "option_d"} {
		if optionText := getColumn(col); optionText != "" {
			options = append(options, models.Option{Text: optionText, Position: i})
		}
	}
	if len(options) < 2 {
		return nil, []ImportRowError{{Row: rowNum, Column: "options", Message: "must have at least 2 options"}}
	}

	correct := strings.ToUpper(getColumn("correct_answer"))
	if len(correct) != 1 || correct[0] < 'A' || int(correct[0]-'A') >= len(options) {
		return nil, []ImportRowError{{
			Row: rowNum, Column: "correct_answer",
			Message: fmt.Sprintf("must be a letter A-%c", 'A'+len(options)-1),
		}}
	}
	options[correct[0]-'A'].IsCorrect = true

	return &models.Question{Text: text, Options: options}, nil
}

// ===== EXPORT OPERATIONS =====

var progressExportHeaders = []string{
	"Course ID", "Course Title", "Progress (%)", "Completed",
	"Completed Lessons", "Total Lessons", "Completed Quizzes", "Total Quizzes",
	"Quiz Attempts",
}

// ExportProgressToExcel renders the user's stats view as an xlsx workbook,
// one row per course plus a summary row.
func (s *reportService) ExportProgressToExcel(ctx context.Context, userID string) ([]byte, error) {
	stats, err := s.progress.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Progress"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range progressExportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range stats.Courses {
		row := []interface{}{
			entry.CourseID,
			entry.CourseTitle,
			entry.Progress,
			entry.IsCompleted,
			entry.CompletedLessons,
			entry.TotalLessons,
			entry.CompletedQuizzes,
			entry.TotalQuizzes,
			entry.QuizAttempts,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(stats.Courses) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Courses")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), stats.TotalCourses)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+1), "Completed")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+1), stats.CompletedCourses)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+2), "Average Progress (%)")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+2), stats.AverageProgress)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
