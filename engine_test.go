package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRemovingDuringFlushIsDeferred(t *testing.T) {
	var log []notification
	sto := newTestStore(t)
	functions := Factory.NewEntityFunctions(sto)
	require.NoError(t, sto.RegisterEngine(recorder{log: &log}, position))
	require.NoError(t, sto.RegisterEngine(NewReactiveEngine[Position](func(egid EGID, _ *Position) {
		if egid.ID == 1 {
			assert.True(t, sto.Locked(), "engines are notified with the store locked")
			assert.ErrorAs(t, sto.Flush(), &LockedStoreError{})
			require.NoError(t, functions.RemoveEntity(NewEGID(2, groupA)))
		}
	}, nil), position))

	require.NoError(t, sto.Build(NewEGID(1, groupA), posDescriptor))
	require.NoError(t, sto.Build(NewEGID(2, groupA), posDescriptor))
	require.NoError(t, sto.Flush())

	assert.Equal(t, []notification{
		{kind: "add", entity: NewEGID(1, groupA), value: "*silo.Position"},
		{kind: "add", entity: NewEGID(2, groupA), value: "*silo.Position"},
		{kind: "remove", entity: NewEGID(2, groupA), value: "*silo.Position"},
	}, log, "every addition is delivered before the queued removal runs")
	assert.False(t, sto.Locked())
	assert.Equal(t, 1, sto.Count(groupA, position))

	// Later cycles must not see the entities of the first flush again
	for round := uint32(3); round < 6; round++ {
		require.NoError(t, sto.Build(NewEGID(round, groupA), posDescriptor))
		require.NoError(t, sto.Flush())
	}
	require.NoError(t, sto.Build(NewEGID(2, groupA), posDescriptor))
	require.NoError(t, sto.Flush())
	assert.Equal(t, 5, sto.Count(groupA, position))
	assert.Zero(t, sto.PendingCount())
}

func TestEngineRemovingItselfDuringRemove(t *testing.T) {
	var log []notification
	sto := newTestStore(t)
	functions := Factory.NewEntityFunctions(sto)
	require.NoError(t, sto.RegisterEngine(recorder{log: &log}, position, velocity))
	require.NoError(t, sto.RegisterEngine(NewReactiveEngine[Position](nil, func(egid EGID, _ *Position) {
		require.NoError(t, functions.RemoveEntity(egid))
	}), position))
	buildAndFlush(t, sto, posVelDescriptor, NewEGID(1, groupA), NewEGID(2, groupA))
	log = nil

	require.NoError(t, sto.Remove(NewEGID(1, groupA)))
	assert.Equal(t, []notification{
		{kind: "remove", entity: NewEGID(1, groupA), value: "*silo.Position"},
		{kind: "remove", entity: NewEGID(1, groupA), value: "*silo.Velocity"},
	}, log, "one notification per entity and type")
	assert.Equal(t, 1, sto.Count(groupA, position))
	assert.Equal(t, 1, sto.Count(groupA, velocity))
}

func TestEngineCascadingRemovals(t *testing.T) {
	sto := newTestStore(t)
	functions := Factory.NewEntityFunctions(sto)
	// Removing an entity takes the next one with it
	require.NoError(t, sto.RegisterEngine(NewReactiveEngine[Position](nil, func(egid EGID, _ *Position) {
		if egid.ID < 4 {
			require.NoError(t, functions.RemoveEntity(NewEGID(egid.ID+1, egid.Group)))
		}
	}), position))
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(2, groupA), NewEGID(3, groupA), NewEGID(4, groupA), NewEGID(5, groupA))

	require.NoError(t, sto.Remove(NewEGID(1, groupA)))
	assert.Equal(t, 1, sto.Count(groupA, position))
	_, err := position.GetFromStore(sto, NewEGID(5, groupA))
	assert.NoError(t, err)
}

func TestEngineSwappingDuringRemoveGroup(t *testing.T) {
	sto := newTestStore(t)
	functions := Factory.NewEntityFunctions(sto)
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(1, groupB))
	require.NoError(t, sto.RegisterEngine(NewReactiveEngine[Position](nil, func(egid EGID, _ *Position) {
		if egid.Group == groupA {
			require.NoError(t, functions.SwapEntityGroup(1, groupB, groupC))
		}
	}), position))

	require.NoError(t, sto.RemoveGroup(groupA))
	assert.Equal(t, []GroupID{groupC}, sto.GroupIDs())
}

func TestEngineQueuingDuringDisposeIsDropped(t *testing.T) {
	sto := newTestStore(t)
	functions := Factory.NewEntityFunctions(sto)
	removals := 0
	require.NoError(t, sto.RegisterEngine(NewReactiveEngine[Position](nil, func(egid EGID, _ *Position) {
		removals++
		require.NoError(t, functions.RemoveEntity(egid))
	}), position))
	buildAndFlush(t, sto, posDescriptor, NewEGID(1, groupA), NewEGID(2, groupB))

	require.NoError(t, sto.Dispose())
	assert.Equal(t, 2, removals)
	assert.True(t, sto.opQueue.empty())
	assert.Equal(t, 1, sto.Count(groupA, position), "the index survives disposal")
}
