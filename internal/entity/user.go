package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Login    *string `json:"login"     bun:"login"`
	Password *string `json:"-"         bun:"password"`
	Role     *string `json:"role"      bun:"role"`
	FullName *string `json:"full_name" bun:"full_name"`
}
