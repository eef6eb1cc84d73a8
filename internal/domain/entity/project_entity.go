package entity

import (
	"slices"
	"time"
)

// Project groups tasks. OwnerID is immutable and always present in MemberIDs.
type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	MemberIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Project) IsOwner(userID string) bool {
	return p != nil && userID != "" && p.OwnerID == userID
}

func (p *Project) HasMember(userID string) bool {
	return p != nil && userID != "" && slices.Contains(p.MemberIDs, userID)
}

// EnsureOwnerMember restores the owner ∈ members invariant.
func (p *Project) EnsureOwnerMember() {
	if p.OwnerID != "" && !slices.Contains(p.MemberIDs, p.OwnerID) {
		p.MemberIDs = append([]string{p.OwnerID}, p.MemberIDs...)
	}
}
