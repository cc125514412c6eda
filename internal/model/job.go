package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the job type label. The set is fixed; Ostatní is the catch-all
// used for calendar-created jobs.
type Category string

const (
	CategoryAdam    Category = "Adam"
	CategoryMVC     Category = "MVČ"
	CategoryKoralek Category = "Korálek"
	CategoryOther   Category = "Ostatní"
)

// Categories lists all job categories in display order.
func Categories() []Category {
	return []Category{CategoryAdam, CategoryMVC, CategoryKoralek, CategoryOther}
}

// JobStatus is only meaningful for calendar-origin jobs.
type JobStatus string

const (
	JobStatusIncoming  JobStatus = "incoming"
	JobStatusCompleted JobStatus = "completed"
)

// Attachment is one uploaded file linked to a job.
type Attachment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Size        int64     `json:"size,omitempty"`
	ContentType string    `json:"type,omitempty"`
}

// Attachments is stored as a single JSON column, matching the hosted
// backends' document-shaped `soubory` field.
type Attachments []Attachment

// Value implements driver.Valuer.
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (a *Attachments) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into Attachments", src)
	}
}

// Job ("zakázka") is one unit of contracted work with financial and
// scheduling attributes.
type Job struct {
	ID             int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerProfileID int64           `json:"ownerProfileId" gorm:"column:profile_id;not null;index"`
	Date           CzechDate       `json:"date" gorm:"column:datum;type:date;not null"`
	EndDate        CzechDate       `json:"endDate" gorm:"column:end_datum;type:date"`
	Category       Category        `json:"category" gorm:"column:druh;size:32;not null"`
	Client         string          `json:"client" gorm:"column:klient;size:255"`
	JobNumber      string          `json:"jobNumber" gorm:"column:id_zakazky;size:64;index"`
	Address        string          `json:"address" gorm:"column:adresa;size:512"`
	Telephone      string          `json:"telephone" gorm:"column:telefon;size:64"`
	Price          decimal.Decimal `json:"price" gorm:"column:castka;type:decimal(20,2);not null"`
	Fee            decimal.Decimal `json:"fee" gorm:"column:fee;type:decimal(20,2);not null;default:0"`
	FeeOff         decimal.Decimal `json:"feeOff" gorm:"column:fee_off;type:decimal(20,2);not null;default:0"`
	MaterialCost   decimal.Decimal `json:"material" gorm:"column:material;type:decimal(20,2);not null;default:0"`
	HelperCost     decimal.Decimal `json:"helper" gorm:"column:pomocnik;type:decimal(20,2);not null;default:0"`
	FuelCost       decimal.Decimal `json:"fuel" gorm:"column:palivo;type:decimal(20,2);not null;default:0"`
	Profit         decimal.Decimal `json:"profit" gorm:"column:zisk;type:decimal(20,2);not null;default:0"`
	DurationDays   int             `json:"durationDays" gorm:"column:doba_realizace;default:1"`
	Notes          string          `json:"notes" gorm:"column:poznamky"`
	Attachments    Attachments     `json:"attachments" gorm:"column:soubory;type:text"`
	Color          string          `json:"color" gorm:"size:16"`
	Status         JobStatus       `json:"status" gorm:"size:16"`
	CalendarOrigin bool            `json:"calendarOrigin" gorm:"column:calendar_origin;default:false;index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName keeps the collection name used by the hosted backends.
func (Job) TableName() string { return "zakazky" }

// RecomputeProfit derives profit from the financial inputs. It must run on
// every create and update; a client-submitted profit value is never trusted.
// FeeOff is informational and does not enter the formula.
func (j *Job) RecomputeProfit() {
	j.Profit = j.Price.
		Sub(j.Fee).
		Sub(j.MaterialCost).
		Sub(j.HelperCost).
		Sub(j.FuelCost)
}

// EffectiveEndDate returns the end of the job's calendar span, defaulting to
// its start for single-day jobs.
func (j *Job) EffectiveEndDate() CzechDate {
	if j.EndDate.IsZero() {
		return j.Date
	}
	return j.EndDate
}

// CalendarJobNumberPrefix marks jobs created through the calendar view.
const CalendarJobNumberPrefix = "CAL-"

// IsCalendarOrigin reports whether the job belongs in calendar-only financial
// rollups, either via the stored flag or the legacy job-number prefix.
func (j *Job) IsCalendarOrigin() bool {
	return j.CalendarOrigin || strings.HasPrefix(j.JobNumber, CalendarJobNumberPrefix)
}

// telSeparator is the legacy in-band encoding of a telephone number inside
// the address string. New code writes the Telephone field; the separator is
// only decoded when importing records written by older clients.
const telSeparator = " | Tel: "

// EncodeLegacyAddress folds a telephone number into an address string the way
// legacy records carry it.
func EncodeLegacyAddress(address, telephone string) string {
	if telephone == "" {
		return address
	}
	return address + telSeparator + telephone
}

// SplitLegacyAddress separates a legacy-encoded address into its address and
// telephone parts. Addresses without the marker pass through unchanged.
func SplitLegacyAddress(address string) (string, string) {
	idx := strings.Index(address, telSeparator)
	if idx < 0 {
		return address, ""
	}
	return address[:idx], address[idx+len(telSeparator):]
}
