package domain

import "time"

// Column names the dashboard reads from the source export.
const (
	FieldRegion     = "region"
	FieldProduct    = "product"
	FieldCreatedDay = "device_created_day"
	FieldCategory   = "device_type_category"
)

// Record is a raw loader row: column name → string value, exactly as read
// from the source. Absent or malformed fields are optional, never fatal.
type Record map[string]string

// Row is a retained dataset row. Fields carries the original record.
// CreatedDay and DayOffset are derived once at load time and never change;
// DayOffset is meaningful iff HasDate is true.
type Row struct {
	Fields     map[string]string
	CreatedDay time.Time
	HasDate    bool
	DayOffset  int
}

// Region returns the row's region field.
func (r Row) Region() string { return r.Fields[FieldRegion] }

// Product returns the row's product field.
func (r Row) Product() string { return r.Fields[FieldProduct] }

// Category returns the row's device type category field.
func (r Row) Category() string { return r.Fields[FieldCategory] }
