// Package entity extracts the business fields of entity types: structs that embed
// Base, directly or through another embedded struct, minus the fields Base declares.
package entity

import "time"

// Base carries the identity and audit columns shared by every business entity.
type Base struct {
	ID         int64
	Sort       int
	Remark     string
	Status     int
	Version    int
	CreateTime time.Time
	CreateBy   string
	UpdateTime time.Time
	UpdateBy   string
}

func (b *Base) GetID() int64             { return b.ID }
func (b *Base) GetSort() int             { return b.Sort }
func (b *Base) GetRemark() string        { return b.Remark }
func (b *Base) GetStatus() int           { return b.Status }
func (b *Base) GetVersion() int          { return b.Version }
func (b *Base) GetCreateTime() time.Time { return b.CreateTime }
func (b *Base) GetCreateBy() string      { return b.CreateBy }
func (b *Base) GetUpdateTime() time.Time { return b.UpdateTime }
func (b *Base) GetUpdateBy() string      { return b.UpdateBy }
