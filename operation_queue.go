package silo

import "fmt"

type operation struct {
	typ   operationType
	egid  EGID
	to    GroupID
	group GroupID
}

type operationType int

const (
	opSwap operationType = iota
	opRemove
	opRemoveGroup
	opNoop operationType = -1
)

type opQueue struct {
	swapOps       []operation
	removeOps     []operation
	groupOps      []operation
	pendingRemove map[EGID]struct{}
	pendingGroups map[GroupID]struct{}
	pendingSwaps  map[EGID][]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingRemove: make(map[EGID]struct{}),
		pendingGroups: make(map[GroupID]struct{}),
		pendingSwaps:  make(map[EGID][]int),
	}
}

func (q *opQueue) empty() bool {
	return len(q.swapOps) == 0 && len(q.removeOps) == 0 && len(q.groupOps) == 0
}

// EnqueueRemove removes the entity now, or once the store is unlocked.
func (sto *Store) EnqueueRemove(egid EGID) error {
	if sto.disposed {
		return DisposedStoreError{}
	}
	if !sto.Locked() {
		return sto.Remove(egid)
	}
	sto.opQueue.enqueueRemove(egid)
	return nil
}

// EnqueueRemoveGroup removes the group now, or once the store is unlocked.
func (sto *Store) EnqueueRemoveGroup(group GroupID) error {
	if sto.disposed {
		return DisposedStoreError{}
	}
	if !sto.Locked() {
		return sto.RemoveGroup(group)
	}
	sto.opQueue.enqueueRemoveGroup(group)
	return nil
}

// EnqueueSwapGroup moves the entity now, or once the store is unlocked. The same group
// precondition is checked immediately either way.
func (sto *Store) EnqueueSwapGroup(id uint32, from, to GroupID) error {
	if from == to || !sto.Locked() {
		return sto.SwapGroup(id, from, to)
	}
	if sto.disposed {
		return DisposedStoreError{}
	}
	sto.opQueue.enqueueSwap(id, from, to)
	return nil
}

func (q *opQueue) enqueueRemove(egid EGID) {
	if _, queued := q.pendingRemove[egid]; queued {
		return
	}
	q.pendingRemove[egid] = struct{}{}

	// A swap out of a group the entity is removed from is pointless
	for _, idx := range q.pendingSwaps[egid] {
		q.swapOps[idx].typ = opNoop
	}
	delete(q.pendingSwaps, egid)

	q.removeOps = append(q.removeOps, operation{typ: opRemove, egid: egid})
}

func (q *opQueue) enqueueRemoveGroup(group GroupID) {
	if _, queued := q.pendingGroups[group]; queued {
		return
	}
	q.pendingGroups[group] = struct{}{}
	q.groupOps = append(q.groupOps, operation{typ: opRemoveGroup, group: group})
}

func (q *opQueue) enqueueSwap(id uint32, from, to GroupID) {
	egid := EGID{ID: id, Group: from}
	if _, removed := q.pendingRemove[egid]; removed {
		return
	}
	q.pendingSwaps[egid] = append(q.pendingSwaps[egid], len(q.swapOps))
	q.swapOps = append(q.swapOps, operation{typ: opSwap, egid: egid, to: to})
}

// processOperationQueue runs swaps first, then entity removals, then group removals. Engines
// notified by those operations may queue more; they run in a following pass.
func (sto *Store) processOperationQueue() error {
	for !sto.opQueue.empty() {
		queue := sto.opQueue
		sto.opQueue = newOpQueue()
		if err := sto.runOperations(&queue); err != nil {
			sto.opQueue.reset()
			return err
		}
	}
	return nil
}

func (sto *Store) runOperations(q *opQueue) error {
	for _, op := range q.swapOps {
		if op.typ == opNoop {
			continue
		}
		if err := sto.swapGroup(op.egid.ID, op.egid.Group, op.to); err != nil {
			return fmt.Errorf("failed to process queued swap: %w", err)
		}
	}

	for _, op := range q.removeOps {
		// The entity may already be gone with the operation whose notification queued this
		if !sto.live(op.egid) {
			continue
		}
		if err := sto.remove(op.egid); err != nil {
			return fmt.Errorf("failed to process queued removal: %w", err)
		}
	}

	for _, op := range q.groupOps {
		// Queued removals may already have emptied the group
		if !sto.HasGroup(op.group) {
			continue
		}
		if err := sto.removeGroup(op.group); err != nil {
			return fmt.Errorf("failed to process queued group removal: %w", err)
		}
	}
	return nil
}

// live reports whether egid is a merged entity.
func (sto *Store) live(egid EGID) bool {
	_, err := entityInfoViewComponent.GetFromStore(sto, egid)
	return err == nil
}

func (q *opQueue) reset() {
	q.swapOps = q.swapOps[:0]
	q.removeOps = q.removeOps[:0]
	q.groupOps = q.groupOps[:0]
	clear(q.pendingRemove)
	clear(q.pendingGroups)
	clear(q.pendingSwaps)
}
