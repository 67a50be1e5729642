package attendance

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"roster/backend/internal/entity"
)

type Filter struct {
	EmployeeID *int
	Limit      *int
	Offset     *int
	Page       *int
}

// CreateRequest is the raw attendance submission. Coordinates stay text until
// the rule set has accepted them.
type CreateRequest struct {
	EmployeeID string `json:"employee_id" form:"employee_id"`
	Latitude   string `json:"latitude"    form:"latitude"`
	Longitude  string `json:"longitude"   form:"longitude"`
	Note       string `json:"note"        form:"note"`
}

func (r CreateRequest) Values() map[string]string {
	return map[string]string{
		"employee_id": r.EmployeeID,
		"latitude":    r.Latitude,
		"longitude":   r.Longitude,
		"note":        r.Note,
	}
}

// Entity converts a validated request. Only the declared columns are copied.
func (r CreateRequest) Entity() (entity.Attendance, error) {
	employeeID, err := strconv.Atoi(strings.TrimSpace(r.EmployeeID))
	if err != nil {
		return entity.Attendance{}, errors.Wrap(err, "parsing employee_id")
	}

	lat, err := coordinate(r.Latitude)
	if err != nil {
		return entity.Attendance{}, errors.Wrap(err, "parsing latitude")
	}
	lon, err := coordinate(r.Longitude)
	if err != nil {
		return entity.Attendance{}, errors.Wrap(err, "parsing longitude")
	}

	a := entity.Attendance{
		EmployeeID: employeeID,
		Latitude:   lat,
		Longitude:  lon,
	}
	if note := strings.TrimSpace(r.Note); note != "" {
		a.Note = &note
	}

	return a, nil
}

func coordinate(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetDetailByIdResponse is the attendance view model with the derived map link.
type GetDetailByIdResponse struct {
	entity.Attendance
	EmployeeName   *string `json:"employee_name"`
	SubmitterName  *string `json:"submitter_name"`
	GoogleMapsLink string  `json:"google_maps_link"`
}

type GetListResponse = GetDetailByIdResponse

type CreateResponse = GetDetailByIdResponse

func NewResponse(a entity.Attendance) GetDetailByIdResponse {
	resp := GetDetailByIdResponse{
		Attendance:     a,
		GoogleMapsLink: a.GoogleMapsLink(),
	}
	if a.Employee != nil {
		name := a.Employee.Name
		resp.EmployeeName = &name
	}
	if a.Submitter != nil {
		resp.SubmitterName = a.Submitter.FullName
	}
	// Names are flattened above; the nested rows are not part of the view.
	resp.Attendance.Employee = nil
	resp.Attendance.Submitter = nil

	return resp
}
