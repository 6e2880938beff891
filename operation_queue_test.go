package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockSystems uint32 = iota
	lockRender
)

func TestLockedStoreRejectsDirectMutation(t *testing.T) {
	sto := newTestStore(t)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA))
	require.NoError(t, sto.AddLock(lockSystems))
	require.True(t, sto.Locked())

	tests := []struct {
		name string
		op   func() error
	}{
		{"Flush", sto.Flush},
		{"Remove", func() error { return sto.Remove(NewEGID(1, groupA)) }},
		{"RemoveGroup", func() error { return sto.RemoveGroup(groupA) }},
		{"SwapGroup", func() error { return sto.SwapGroup(1, groupA, groupB) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorAs(t, tt.op(), &LockedStoreError{})
		})
	}
	assert.Equal(t, 1, sto.Count(groupA, position))
}

func TestBuildIsAllowedWhileLocked(t *testing.T) {
	sto := newTestStore(t)
	require.NoError(t, sto.AddLock(lockSystems))

	require.NoError(t, sto.Build(NewEGID(1, groupA), posDescriptor))
	require.NoError(t, sto.Preallocate(groupB, positionBuilder, 8))
	assert.Equal(t, 1, sto.PendingCount())

	require.NoError(t, sto.RemoveLock(lockSystems))
	require.NoError(t, sto.Flush())
	assert.Equal(t, 1, sto.Count(groupA, position))
}

func TestQueuedOperationsRunWhenLastLockIsReleased(t *testing.T) {
	var log []notification
	sto := newTestStore(t)
	require.NoError(t, sto.RegisterEngine(recorder{log: &log}, position))
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(2, groupA), NewEGID(3, groupB))
	log = nil

	require.NoError(t, sto.AddLock(lockSystems))
	require.NoError(t, sto.AddLock(lockRender))
	require.NoError(t, sto.EnqueueRemove(NewEGID(1, groupA)))
	require.NoError(t, sto.EnqueueSwapGroup(2, groupA, groupC))
	require.NoError(t, sto.EnqueueRemoveGroup(groupB))

	require.NoError(t, sto.RemoveLock(lockSystems))
	assert.True(t, sto.Locked())
	assert.Empty(t, log, "one lock is still held")
	assert.Equal(t, 2, sto.Count(groupA, position))

	require.NoError(t, sto.RemoveLock(lockRender))
	assert.False(t, sto.Locked())
	assert.Equal(t, []notification{
		{kind: "remove", entity: NewEGID(1, groupA), value: "*silo.Position"},
		{kind: "remove", entity: NewEGID(3, groupB), value: "*silo.Position"},
	}, log)
	assert.Equal(t, []GroupID{groupC}, sto.GroupIDs())
	_, err := position.GetFromStore(sto, NewEGID(2, groupC))
	assert.NoError(t, err)
}

func TestEnqueueWithoutLockAppliesImmediately(t *testing.T) {
	sto := newTestStore(t)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(2, groupA))

	require.NoError(t, sto.EnqueueSwapGroup(1, groupA, groupB))
	assert.Equal(t, 1, sto.Count(groupB, position))

	require.NoError(t, sto.EnqueueRemove(NewEGID(2, groupA)))
	assert.False(t, sto.HasGroup(groupA))

	err := sto.EnqueueRemoveGroup(groupA)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnqueueSwapGroupSameGroupFailsEvenWhenLocked(t *testing.T) {
	sto := newTestStore(t)
	require.NoError(t, sto.AddLock(lockSystems))

	err := sto.EnqueueSwapGroup(1, groupA, groupA)
	assert.ErrorAs(t, err, &SameGroupSwapError{})
	assert.True(t, sto.opQueue.empty())
}

func TestRemoveCancelsQueuedSwap(t *testing.T) {
	sto := newTestStore(t)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(2, groupA))
	require.NoError(t, sto.AddLock(lockSystems))

	require.NoError(t, sto.EnqueueSwapGroup(1, groupA, groupB))
	require.NoError(t, sto.EnqueueRemove(NewEGID(1, groupA)))
	require.NoError(t, sto.EnqueueRemove(NewEGID(1, groupA)))
	require.NoError(t, sto.EnqueueSwapGroup(1, groupA, groupC))
	assert.Len(t, sto.opQueue.removeOps, 1, "duplicate removals collapse")

	require.NoError(t, sto.RemoveLock(lockSystems))
	assert.False(t, sto.HasGroup(groupB))
	assert.False(t, sto.HasGroup(groupC))
	assert.Equal(t, 1, sto.Count(groupA, position))
	assert.True(t, sto.opQueue.empty())
}

func TestQueuedGroupRemovalSkipsEmptiedGroup(t *testing.T) {
	sto := newTestStore(t)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA))
	require.NoError(t, sto.AddLock(lockSystems))

	require.NoError(t, sto.EnqueueRemove(NewEGID(1, groupA)))
	require.NoError(t, sto.EnqueueRemoveGroup(groupA))
	require.NoError(t, sto.EnqueueRemoveGroup(groupA))

	require.NoError(t, sto.RemoveLock(lockSystems))
	assert.False(t, sto.HasGroup(groupA))
}

func TestQueuedOperationFailureIsReported(t *testing.T) {
	sto := newTestStore(t)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA))
	require.NoError(t, sto.AddLock(lockSystems))
	require.NoError(t, sto.EnqueueSwapGroup(9, groupA, groupB))
	require.NoError(t, sto.EnqueueRemove(NewEGID(1, groupA)))

	err := sto.RemoveLock(lockSystems)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, sto.opQueue.empty(), "the queue is cleared even after a failure")
	assert.Equal(t, 1, sto.Count(groupA, position), "operations after the failing one are dropped")
}

func TestQueuedRemovalOfGoneEntityIsSkipped(t *testing.T) {
	sto := newTestStore(t)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(2, groupA))
	require.NoError(t, sto.AddLock(lockSystems))

	require.NoError(t, sto.EnqueueRemove(NewEGID(9, groupA)))
	require.NoError(t, sto.EnqueueRemove(NewEGID(1, groupB)))
	require.NoError(t, sto.EnqueueRemove(NewEGID(2, groupA)))

	require.NoError(t, sto.RemoveLock(lockSystems))
	assert.Equal(t, 1, sto.Count(groupA, position))
}

func TestLockBitRange(t *testing.T) {
	sto := newTestStore(t)
	require.NoError(t, sto.AddLock(maxLockBits-1))
	assert.True(t, sto.Locked())

	var invalid InvalidLockBitError
	require.ErrorAs(t, sto.AddLock(maxLockBits), &invalid)
	assert.Equal(t, uint32(maxLockBits), invalid.Bit)
	assert.ErrorIs(t, sto.RemoveLock(1000), ErrPrecondition)

	require.NoError(t, sto.RemoveLock(maxLockBits-1))
	assert.False(t, sto.Locked())
}

func TestEnqueueOnDisposedStore(t *testing.T) {
	sto := newTestStore(t)
	require.NoError(t, sto.Dispose())

	assert.ErrorAs(t, sto.EnqueueRemove(NewEGID(1, groupA)), &DisposedStoreError{})
	assert.ErrorAs(t, sto.EnqueueRemoveGroup(groupA), &DisposedStoreError{})
	assert.ErrorAs(t, sto.EnqueueSwapGroup(1, groupA, groupB), &DisposedStoreError{})
}
