package models

import (
	"fmt"
	"time"
)

// SwapStatus represents the lifecycle state of a swap.
type SwapStatus string

const (
	// SwapStatusPending indicates the swap awaits the receiver's answer.
	SwapStatusPending SwapStatus = "pending"
	// SwapStatusAccepted indicates the receiver agreed to the exchange.
	SwapStatusAccepted SwapStatus = "accepted"
	// SwapStatusRejected indicates the receiver declined the exchange.
	SwapStatusRejected SwapStatus = "rejected"
	// SwapStatusCompleted is declared but no operation produces it yet.
	SwapStatusCompleted SwapStatus = "completed"
	// SwapStatusCancelled is declared but no operation produces it yet.
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Valid reports whether s is one of the five declared states.
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected,
		SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// ResponseStatus is the answer a receiver may give to a swap.
// Values can only be obtained through ParseResponseStatus or the two
// exported constants, so a response can never write any other state.
type ResponseStatus struct {
	status SwapStatus
}

var (
	// ResponseAccepted accepts a swap.
	ResponseAccepted = ResponseStatus{status: SwapStatusAccepted}
	// ResponseRejected rejects a swap.
	ResponseRejected = ResponseStatus{status: SwapStatusRejected}
)

// ParseResponseStatus converts raw request input into a ResponseStatus.
func ParseResponseStatus(raw string) (ResponseStatus, error) {
	switch SwapStatus(raw) {
	case SwapStatusAccepted:
		return ResponseAccepted, nil
	case SwapStatusRejected:
		return ResponseRejected, nil
	}
	return ResponseStatus{}, fmt.Errorf("invalid response status %q", raw)
}

// Status returns the swap state the response maps to.
func (r ResponseStatus) Status() SwapStatus {
	return r.status
}

// Swap is a proposed exchange of one skill for another between two users.
type Swap struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ProposerID       uint       `gorm:"not null;index" json:"-"`
	ReceiverID       uint       `gorm:"not null;index" json:"-"`
	OfferedSkillID   uint       `gorm:"not null" json:"-"`
	RequestedSkillID uint       `gorm:"not null" json:"-"`
	Status           SwapStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	Message          string     `gorm:"type:text" json:"message"`
	// Timestamp is written once on insert and never updated.
	Timestamp time.Time `gorm:"<-:create;not null;index" json:"timestamp"`

	// Relationships
	Proposer       User  `gorm:"foreignKey:ProposerID" json:"proposer"`
	Receiver       User  `gorm:"foreignKey:ReceiverID" json:"receiver"`
	OfferedSkill   Skill `gorm:"foreignKey:OfferedSkillID" json:"offered_skill"`
	RequestedSkill Skill `gorm:"foreignKey:RequestedSkillID" json:"requested_skill"`
}

// TableName specifies the table name for GORM
func (Swap) TableName() string {
	return "swaps"
}

// Respond applies the receiver's answer and returns the previous status.
// The previous state is not checked; callers decide what to do with it.
func (s *Swap) Respond(r ResponseStatus) SwapStatus {
	previous := s.Status
	s.Status = r.Status()
	return previous
}

// IsPending reports whether the swap still awaits an answer.
func (s *Swap) IsPending() bool {
	return s.Status == SwapStatusPending
}
