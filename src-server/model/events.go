package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID     int64     `bun:"id,pk,autoincrement" json:"id"`
	Title  string    `bun:"title,notnull" json:"title"` // required
	Start  time.Time `bun:"start,notnull" json:"start"` // required
	End    time.Time `bun:"end,notnull" json:"end" validate:"gtefield=Start"`
	AllDay bool      `bun:"all_day,notnull,default:false" json:"all_day"`
}
