package validation

import (
	"strconv"
	"time"
)

// DateFormat is the only accepted text form of a calendar date (DD/MM/YYYY).
const DateFormat = "02/01/2006"

// Rules maps a field name to its ordered constraint list. Each constraint is
// a validator tag ("required", "max=64") or "unique=<table> <column> [ignoreID]".
type Rules map[string][]string

// EmployeeRules returns the constraints of an employee record. A non-zero
// ignoreID excludes that employee from the national_id uniqueness check.
func EmployeeRules(ignoreID int) Rules {
	unique := "unique=employees national_id"
	if ignoreID != 0 {
		unique += " " + strconv.Itoa(ignoreID)
	}

	return Rules{
		"name":           {"required", "max=64"},
		"national_id":    {"required", "max=64", unique},
		"address":        {"required", "max=128"},
		"phone":          {"required", "max=64"},
		"age":            {"required", "digits_between=1 3", "max_value=255"},
		"notes":          {"max=64"},
		"job_location":   {"required", "max=32"},
		"section":        {"required", "max=64"},
		"hired_on":       {"required", "date_format=" + DateFormat},
		"status":         {"max=1"},
		"3ohda":          {"max=16"},
		"kashf_amny":     {"max=16"},
		"no3_el_mo5alfa": {"max=64"},
		"pants":          {"max=32"},
		"summer_t_shirt": {"max=32"},
		"winter_t_shirt": {"max=32"},
		"jacket":         {"max=32"},
		"shoes":          {"max=32"},
		"vest":           {"max=32"},
		"eish":           {"max=32"},
		"donk":           {"max=32"},
		"notes_2":        {"max=32"},
	}
}

// AttendanceRules returns the constraints of a submitted attendance event.
func AttendanceRules() Rules {
	return Rules{
		"employee_id": {"required", "number"},
		"latitude":    {"numeric"},
		"longitude":   {"numeric"},
		"note":        {"max=255"},
	}
}

// ParseDate converts a DD/MM/YYYY text into a calendar date at UTC midnight.
func ParseDate(text string) (time.Time, error) {
	return time.Parse(DateFormat, text)
}
