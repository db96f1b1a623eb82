package shared

import "time"

// BaseAggregateRoot extends BaseEntity with an optimistic-lock
// version. Aggregates call Touch after every state change so the
// version and UpdatedAt move together.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot creates a base aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// Touch records a state change, refreshing UpdatedAt and bumping the
// version
func (a *BaseAggregateRoot) Touch() {
	a.UpdatedAt = time.Now()
	a.Version++
}
