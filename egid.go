package silo

import "fmt"

// GroupID identifies a partition of the store.
type GroupID uint32

// EGID is the identity of one entity: its local id plus the group it currently lives in.
// Uniqueness among live entities is up to the caller.
type EGID struct {
	ID    uint32
	Group GroupID
}

func NewEGID(id uint32, group GroupID) EGID {
	return EGID{ID: id, Group: group}
}

func (e EGID) String() string {
	return fmt.Sprintf("(%d, group %d)", e.ID, e.Group)
}
