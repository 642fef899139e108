package task

import (
	"strings"
	"time"

	errors "github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/core/validation"
)

type CreateTaskDTO struct {
	Name       string     `json:"name"`
	Employee   string     `json:"employee"`
	Department string     `json:"department"`
	Date       *time.Time `json:"date,omitempty"`
	Status     string     `json:"status,omitempty"`
	Comments   string     `json:"comments,omitempty"`
}

func (dto CreateTaskDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(dto.Name)).Required().MaxLength(200)
	if err := v.Validate(); err != nil {
		return err
	}
	if dto.Status != "" && !ValidStatus(dto.Status) {
		return errors.NewValidationFieldError("status",
			"status must be one of: pending, in progress, completed",
			errors.ErrCodeInvalidStatus)
	}
	return nil
}

type UpdateTaskDTO struct {
	Name       *string    `json:"name,omitempty"`
	Employee   *string    `json:"employee,omitempty"`
	Department *string    `json:"department,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Comments   *string    `json:"comments,omitempty"`
}

func (dto UpdateTaskDTO) Validate() *errors.AppError {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.NewValidationFieldError("name", "name cannot be empty", errors.ErrCodeValidationFailed)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return errors.NewValidationFieldError("status",
			"status must be one of: pending, in progress, completed",
			errors.ErrCodeInvalidStatus)
	}
	return nil
}

// BulkImportDTO carries raw task names, either as a structured list or as
// newline-separated text from the bulk input box.
type BulkImportDTO struct {
	Names []string `json:"names"`
	Lines string   `json:"lines,omitempty"`
}

func (dto BulkImportDTO) AllNames() []string {
	names := make([]string, 0, len(dto.Names))
	names = append(names, dto.Names...)
	for _, line := range strings.Split(dto.Lines, "\n") {
		if strings.TrimSpace(line) != "" {
			names = append(names, line)
		}
	}
	return names
}

// BulkImportResult reports what a bulk import did: how many tasks were
// inserted and which names were skipped because they already existed.
type BulkImportResult struct {
	AddedCount     int      `json:"addedCount"`
	Duplicates     int      `json:"duplicates"`
	DuplicateNames []string `json:"duplicateNames,omitempty"`
}
