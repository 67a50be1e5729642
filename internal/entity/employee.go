package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Employee is one roster member. The gear columns keep the names used by the
// paper forms they were digitised from.
type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	BasicEntity
	Name          string    `json:"name"           bun:"name,notnull"`
	NationalID    string    `json:"national_id"    bun:"national_id,notnull"`
	Address       string    `json:"address"        bun:"address"`
	Phone         string    `json:"phone"          bun:"phone"`
	Age           int       `json:"age"            bun:"age"`
	Notes         *string   `json:"notes"          bun:"notes"`
	JobLocation   string    `json:"job_location"   bun:"job_location,notnull"`
	Section       string    `json:"section"        bun:"section,notnull"`
	HiredOn       time.Time `json:"hired_on"       bun:"hired_on,type:date,notnull"`
	Status        *string   `json:"status"         bun:"status"`
	Custody       *string   `json:"3ohda"          bun:"3ohda"`
	SecurityCheck *string   `json:"kashf_amny"     bun:"kashf_amny"`
	ViolationType *string   `json:"no3_el_mo5alfa" bun:"no3_el_mo5alfa"`
	Pants         *string   `json:"pants"          bun:"pants"`
	SummerTShirt  *string   `json:"summer_t_shirt" bun:"summer_t_shirt"`
	WinterTShirt  *string   `json:"winter_t_shirt" bun:"winter_t_shirt"`
	Jacket        *string   `json:"jacket"         bun:"jacket"`
	Shoes         *string   `json:"shoes"          bun:"shoes"`
	Vest          *string   `json:"vest"           bun:"vest"`
	Eish          *string   `json:"eish"           bun:"eish"`
	Donk          *string   `json:"donk"           bun:"donk"`
	Notes2        *string   `json:"notes_2"        bun:"notes_2"`
}
