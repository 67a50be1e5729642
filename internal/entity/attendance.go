package entity

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// Attendance is one geolocated presence event. Every persisted column is
// declared here; nothing else can be assigned to the row.
type Attendance struct {
	bun.BaseModel `bun:"table:attendances,alias:attendance"`

	ID          int       `json:"id"           bun:"id,pk,autoincrement"`
	EmployeeID  int       `json:"employee_id"  bun:"employee_id,notnull"`
	SubmittedBy int       `json:"submitted_by" bun:"submitted_by,notnull"`
	Latitude    *float64  `json:"latitude"     bun:"latitude"`
	Longitude   *float64  `json:"longitude"    bun:"longitude"`
	Note        *string   `json:"note"         bun:"note"`
	CreatedAt   time.Time `json:"created_at"   bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Employee  *Employee `json:"employee,omitempty"  bun:"rel:belongs-to,join:employee_id=id"`
	Submitter *User     `json:"submitter,omitempty" bun:"rel:belongs-to,join:submitted_by=id"`
}

const googleMapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// GoogleMapsLink returns the maps search URL for the stored coordinates.
// Values are interpolated as stored; a missing coordinate renders empty.
func (a Attendance) GoogleMapsLink() string {
	return googleMapsSearchURL + formatCoordinate(a.Latitude) + "," + formatCoordinate(a.Longitude)
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
