// Package persistence provides the GORM-backed line store.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tadinve/p3-search/domain/document"
)

// Float64Slice is a custom type for JSON serialization of []float64.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON from the database.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON to the database.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// LineModel is the GORM model for one indexed PDF line.
type LineModel struct {
	ID         string       `gorm:"column:id;primaryKey;size:36"`
	DocumentID string       `gorm:"column:document_id;size:36;index;not null"`
	Content    string       `gorm:"column:content;not null"`
	PageNumber int          `gorm:"column:page_number;not null"`
	LineNumber int          `gorm:"column:line_number;not null"`
	IsTable    bool         `gorm:"column:is_table;not null"`
	Filename   string       `gorm:"column:filename;not null"`
	UploadDate time.Time    `gorm:"column:upload_date;index;not null"`
	Vector     Float64Slice `gorm:"column:vector;type:json"`
}

// TableName returns the table name for LineModel.
func (LineModel) TableName() string { return "document_lines" }

// lineMapper converts between document.Line and LineModel.
type lineMapper struct{}

func (lineMapper) ToDomain(entity LineModel) document.Line {
	return document.NewLine(
		entity.ID,
		entity.DocumentID,
		entity.Content,
		entity.PageNumber,
		entity.LineNumber,
		entity.IsTable,
		entity.Filename,
		entity.UploadDate,
		entity.Vector,
	)
}

func (lineMapper) ToModel(line document.Line) LineModel {
	vector := make(Float64Slice, len(line.Vector()))
	copy(vector, line.Vector())
	return LineModel{
		ID:         line.ID(),
		DocumentID: line.DocumentID(),
		Content:    line.Content(),
		PageNumber: line.PageNumber(),
		LineNumber: line.LineNumber(),
		IsTable:    line.IsTable(),
		Filename:   line.Filename(),
		UploadDate: line.UploadDate(),
		Vector:     vector,
	}
}
