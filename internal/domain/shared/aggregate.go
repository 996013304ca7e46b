package shared

// AggregateRoot is implemented by entities that own a consistency
// boundary and raise domain events
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot extends BaseEntity with an optimistic-lock version
// and a buffer of events raised since the last publish
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the version used for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the optimistic-lock version
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event until the aggregate is published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered events in raise order
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the buffered events, typically after publish
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot returns an aggregate root at version 1 with no
// pending events
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
