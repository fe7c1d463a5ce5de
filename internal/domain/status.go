package domain

import "strings"

// StockStatus is the health classification of a stock position or location
type StockStatus string

const (
	StockCritical    StockStatus = "critical"
	StockLow         StockStatus = "low"
	StockHealthy     StockStatus = "healthy"
	StockOverstocked StockStatus = "overstocked"
)

// Urgency is the reorder priority tier
type Urgency string

const (
	UrgencyCritical    Urgency = "CRITICAL"
	UrgencyRecommended Urgency = "RECOMMENDED"
	UrgencyOptional    Urgency = "OPTIONAL"
)

var urgencyRanks = map[Urgency]int{
	UrgencyCritical:    0,
	UrgencyRecommended: 1,
	UrgencyOptional:    2,
}

// Rank orders urgencies, lower is more urgent.
func (u Urgency) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}

	return len(urgencyRanks)
}

// TransferStatus is the lifecycle state of a transfer recommendation
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferApproved  TransferStatus = "APPROVED"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferCompleted TransferStatus = "COMPLETED"
)

var transferStatusOrder = map[TransferStatus]int{
	TransferPending:   0,
	TransferApproved:  1,
	TransferInTransit: 2,
	TransferCompleted: 3,
}

// ParseTransferStatus returns the status for a label (case-insensitive).
func ParseTransferStatus(label string) (TransferStatus, bool) {
	status := TransferStatus(strings.ToUpper(strings.TrimSpace(label)))
	_, ok := transferStatusOrder[status]

	return status, ok
}

// Approvable reports whether the engine may move the transfer to IN_TRANSIT.
func (s TransferStatus) Approvable() bool {
	return s == TransferPending || s == TransferApproved
}

// CanTransitionTo reports whether next is a forward move in the lifecycle.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	from, ok := transferStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := transferStatusOrder[next]
	if !ok {
		return false
	}

	return to > from
}

// OrderStatus is the state of a dealer order
type OrderStatus string

const (
	OrderRecommended OrderStatus = "recommended"
	OrderPlaced      OrderStatus = "placed"
	OrderConfirmed   OrderStatus = "confirmed"
	OrderShipped     OrderStatus = "shipped"
	OrderDelivered   OrderStatus = "delivered"
)
