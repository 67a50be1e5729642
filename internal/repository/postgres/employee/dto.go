package employee

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"

	"roster/backend/internal/entity"
	"roster/backend/internal/validation"
)

// Form is the raw roster form as posted by the client. All values are text
// so that the validation rule set sees exactly what was submitted.
type Form struct {
	Name          string `json:"name"           form:"name"`
	NationalID    string `json:"national_id"    form:"national_id"`
	Address       string `json:"address"        form:"address"`
	Phone         string `json:"phone"          form:"phone"`
	Age           Text   `json:"age"            form:"age"`
	Notes         string `json:"notes"          form:"notes"`
	JobLocation   string `json:"job_location"   form:"job_location"`
	Section       string `json:"section"        form:"section"`
	HiredOn       string `json:"hired_on"       form:"hired_on"`
	Status        string `json:"status"         form:"status"`
	Custody       string `json:"3ohda"          form:"3ohda"`
	SecurityCheck string `json:"kashf_amny"     form:"kashf_amny"`
	ViolationType string `json:"no3_el_mo5alfa" form:"no3_el_mo5alfa"`
	Pants         string `json:"pants"          form:"pants"`
	SummerTShirt  string `json:"summer_t_shirt" form:"summer_t_shirt"`
	WinterTShirt  string `json:"winter_t_shirt" form:"winter_t_shirt"`
	Jacket        string `json:"jacket"         form:"jacket"`
	Shoes         string `json:"shoes"          form:"shoes"`
	Vest          string `json:"vest"           form:"vest"`
	Eish          string `json:"eish"           form:"eish"`
	Donk          string `json:"donk"           form:"donk"`
	Notes2        string `json:"notes_2"        form:"notes_2"`
}

// Text is a form value that JSON clients may send as a string or as a
// number, e.g. the age of an edit view posted back unchanged.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Errorf("expected a string or a number, got %s", data)
	}
	*t = Text(n.String())

	return nil
}

// Values returns the form keyed by field name, the shape the rule set reads.
func (f Form) Values() map[string]string {
	return map[string]string{
		"name":           f.Name,
		"national_id":    f.NationalID,
		"address":        f.Address,
		"phone":          f.Phone,
		"age":            string(f.Age),
		"notes":          f.Notes,
		"job_location":   f.JobLocation,
		"section":        f.Section,
		"hired_on":       f.HiredOn,
		"status":         f.Status,
		"3ohda":          f.Custody,
		"kashf_amny":     f.SecurityCheck,
		"no3_el_mo5alfa": f.ViolationType,
		"pants":          f.Pants,
		"summer_t_shirt": f.SummerTShirt,
		"winter_t_shirt": f.WinterTShirt,
		"jacket":         f.Jacket,
		"shoes":          f.Shoes,
		"vest":           f.Vest,
		"eish":           f.Eish,
		"donk":           f.Donk,
		"notes_2":        f.Notes2,
	}
}

// FormFromValues builds a Form from field-name keyed values, e.g. one
// spreadsheet row. Unknown keys are ignored.
func FormFromValues(v map[string]string) Form {
	return Form{
		Name:          v["name"],
		NationalID:    v["national_id"],
		Address:       v["address"],
		Phone:         v["phone"],
		Age:           Text(v["age"]),
		Notes:         v["notes"],
		JobLocation:   v["job_location"],
		Section:       v["section"],
		HiredOn:       v["hired_on"],
		Status:        v["status"],
		Custody:       v["3ohda"],
		SecurityCheck: v["kashf_amny"],
		ViolationType: v["no3_el_mo5alfa"],
		Pants:         v["pants"],
		SummerTShirt:  v["summer_t_shirt"],
		WinterTShirt:  v["winter_t_shirt"],
		Jacket:        v["jacket"],
		Shoes:         v["shoes"],
		Vest:          v["vest"],
		Eish:          v["eish"],
		Donk:          v["donk"],
		Notes2:        v["notes_2"],
	}
}

// Fields lists the employee fields in form order. It is the heading row of
// the import template and of the roster export.
var Fields = []string{
	"name", "national_id", "address", "phone", "age", "notes", "job_location", "section", "hired_on",
	"status", "3ohda", "kashf_amny", "no3_el_mo5alfa", "pants", "summer_t_shirt", "winter_t_shirt",
	"jacket", "shoes", "vest", "eish", "donk", "notes_2",
}

// Entity converts a validated form into an Employee. hired_on is normalised
// from DD/MM/YYYY into a calendar date.
func (f Form) Entity() (entity.Employee, error) {
	hiredOn, err := validation.ParseDate(strings.TrimSpace(f.HiredOn))
	if err != nil {
		return entity.Employee{}, errors.Wrap(err, "parsing hired_on")
	}

	age, err := strconv.Atoi(strings.TrimSpace(string(f.Age)))
	if err != nil {
		return entity.Employee{}, errors.Wrap(err, "parsing age")
	}

	return entity.Employee{
		Name:          strings.TrimSpace(f.Name),
		NationalID:    strings.TrimSpace(f.NationalID),
		Address:       strings.TrimSpace(f.Address),
		Phone:         strings.TrimSpace(f.Phone),
		Age:           age,
		Notes:         optional(f.Notes),
		JobLocation:   strings.TrimSpace(f.JobLocation),
		Section:       strings.TrimSpace(f.Section),
		HiredOn:       hiredOn,
		Status:        optional(f.Status),
		Custody:       optional(f.Custody),
		SecurityCheck: optional(f.SecurityCheck),
		ViolationType: optional(f.ViolationType),
		Pants:         optional(f.Pants),
		SummerTShirt:  optional(f.SummerTShirt),
		WinterTShirt:  optional(f.WinterTShirt),
		Jacket:        optional(f.Jacket),
		Shoes:         optional(f.Shoes),
		Vest:          optional(f.Vest),
		Eish:          optional(f.Eish),
		Donk:          optional(f.Donk),
		Notes2:        optional(f.Notes2),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// GetDetailByIdResponse is the employee view model. hired_on is rendered as
// a calendar date and as the DD/MM/YYYY text the edit form expects.
type GetDetailByIdResponse struct {
	entity.Employee
	HiredOn     date.Date `json:"hired_on"`
	HiredOnText string    `json:"hired_on_text"`
}

type GetListResponse = GetDetailByIdResponse

func NewResponse(e entity.Employee) GetDetailByIdResponse {
	return GetDetailByIdResponse{
		Employee:    e,
		HiredOn:     date.Date{Time: e.HiredOn},
		HiredOnText: e.HiredOn.Format(validation.DateFormat),
	}
}

// Row returns the employee as text cells in Fields order.
func Row(e entity.Employee) []string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	return []string{
		e.Name, e.NationalID, e.Address, e.Phone, strconv.Itoa(e.Age), deref(e.Notes), e.JobLocation,
		e.Section, e.HiredOn.Format(validation.DateFormat), deref(e.Status), deref(e.Custody),
		deref(e.SecurityCheck), deref(e.ViolationType), deref(e.Pants), deref(e.SummerTShirt),
		deref(e.WinterTShirt), deref(e.Jacket), deref(e.Shoes), deref(e.Vest), deref(e.Eish),
		deref(e.Donk), deref(e.Notes2),
	}
}
