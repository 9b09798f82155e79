// Package numbering issues human-readable document numbers such as V0001,
// GRN0001 and BILL-0001.
package numbering

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// Series describes one numbered document type.
type Series struct {
	Name   string
	Prefix string
	Width  int
	Table  string
	// Column holds the formatted number; callers may also write it by hand.
	Column string
}

var (
	VendorCodes = Series{Name: "vendor", Prefix: "V", Width: 4, Table: "vendor_master", Column: "vendor_code"}
	GRNNumbers  = Series{Name: "grn", Prefix: "GRN", Width: 4, Table: "grn", Column: "grn_number"}
	BillNumbers = Series{Name: "sale", Prefix: "BILL-", Width: 4, Table: "sales", Column: "bill_number"}
)

// Format renders prefix followed by n zero-padded to width digits.
func Format(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// Next formats the number following existingMaxID.
func Next(prefix string, width int, existingMaxID int64) string {
	return Format(prefix, width, existingMaxID+1)
}

// Sequencer hands out numbers from the document_sequences table. Each call
// must run inside the transaction that persists the numbered document so the
// row lock serializes concurrent writers and a rollback releases the value.
type Sequencer struct{}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next locks the series row, advances it past both its last issued value and
// the highest id already stored in the series table, and returns the
// formatted number. Values already written by hand are skipped. Gaps left by
// deletes are never reused.
func (s *Sequencer) Next(ctx context.Context, tx *gorm.DB, series Series) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("numbering: transaction required for %s", series.Name)
	}
	tx = tx.WithContext(ctx)

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.DocumentSequence{Name: series.Name}).Error; err != nil {
		return "", fmt.Errorf("seed %s sequence: %w", series.Name, err)
	}

	var row models.DocumentSequence
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", series.Name).
		First(&row).Error; err != nil {
		return "", fmt.Errorf("lock %s sequence: %w", series.Name, err)
	}

	var maxID int64
	if err := tx.Table(series.Table).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return "", fmt.Errorf("max id of %s: %w", series.Table, err)
	}

	last := row.LastValue
	if maxID > last {
		last = maxID
	}
	next := last + 1
	number := Format(series.Prefix, series.Width, next)
	for {
		taken, err := numberTaken(tx, series, number)
		if err != nil {
			return "", err
		}
		if !taken {
			break
		}
		next++
		number = Format(series.Prefix, series.Width, next)
	}

	if err := tx.Model(&models.DocumentSequence{}).
		Where("name = ?", series.Name).
		Update("last_value", next).Error; err != nil {
		return "", fmt.Errorf("advance %s sequence: %w", series.Name, err)
	}

	return number, nil
}

func numberTaken(tx *gorm.DB, series Series, number string) (bool, error) {
	if series.Column == "" {
		return false, nil
	}
	var count int64
	if err := tx.Table(series.Table).Where(series.Column+" = ?", number).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s %s: %w", series.Name, number, err)
	}
	return count > 0, nil
}
