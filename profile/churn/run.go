package main

import (
	"time"

	"github.com/TheBitDrifter/silo"
	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Summary is what one churn run did to the store.
type Summary struct {
	Rounds  int
	Built   int
	Swapped int
	Added   int
	Removed int
	Grows   int
	Elapsed time.Duration
}

// counter counts every notification the store sends.
type counter struct {
	added, removed int
}

func (c *counter) Add(silo.EGID, any)    { c.added++ }
func (c *counter) Remove(silo.EGID, any) { c.removed++ }

// run performs the scenario's rounds. Each round builds every group, flushes, walks each group
// with a cursor moving every other entity into a parking group, then drops all groups.
func run(sc *Scenario, logger zerolog.Logger) (Summary, error) {
	registry, err := sc.registry()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Rounds: sc.Rounds}
	events := silo.CollectionEvents{OnGrow: func(string, int, int) { summary.Grows++ }}
	sto := silo.Factory.NewStore(table.Factory.NewSchema(),
		silo.WithDescriptors(registry),
		silo.WithLogger(logger),
		silo.WithCollectionEvents(events),
	)
	notifications := &counter{}
	if err := sto.RegisterEngine(notifications, component1, component2, component3, component4); err != nil {
		return Summary{}, err
	}

	entities := silo.Factory.NewEntityFactory(sto)
	functions := silo.Factory.NewEntityFunctions(sto)

	if sc.Preallocate {
		for g := 1; g <= sc.Groups; g++ {
			for i := range sc.Kinds {
				if err := entities.PreallocateEntitySpace(silo.GroupID(g), registry.At(i), sc.Entities); err != nil {
					return summary, err
				}
			}
		}
	}

	start := time.Now()
	for round := range sc.Rounds {
		for g := 1; g <= sc.Groups; g++ {
			group := silo.GroupID(g)
			for id := 1; id <= sc.Entities; id++ {
				kind := sc.Kinds[id%len(sc.Kinds)].Name
				if err := entities.BuildEntityKind(silo.NewEGID(uint32(id), group), kind, comp1{V: int64(id)}); err != nil {
					return summary, err
				}
				summary.Built++
			}
		}
		if err := sto.Flush(); err != nil {
			return summary, eris.Wrapf(err, "round %d", round)
		}

		for g := 1; g <= sc.Groups; g++ {
			group := silo.GroupID(g)
			parking := silo.GroupID(g + sc.Groups)
			cursor := silo.Factory.NewCursor(sto, group, component1)
			for cursor.Next() {
				c := component1.GetFromCursor(cursor)
				c.W += c.V
				egid := cursor.CurrentEntity()
				if egid.ID%2 == 0 {
					if err := functions.SwapEntityGroup(egid.ID, group, parking); err != nil {
						return summary, err
					}
					summary.Swapped++
				}
			}
			if err := cursor.Err(); err != nil {
				return summary, eris.Wrapf(err, "round %d", round)
			}
		}

		for _, group := range sto.GroupIDs() {
			if err := functions.RemoveGroupAndEntities(group); err != nil {
				return summary, eris.Wrapf(err, "round %d", round)
			}
		}
		logger.Debug().Int("round", round).Int("added", notifications.added).Int("removed", notifications.removed).Msg("round complete")
	}
	summary.Elapsed = time.Since(start)
	summary.Added = notifications.added
	summary.Removed = notifications.removed

	if err := sto.Dispose(); err != nil {
		return summary, err
	}
	return summary, nil
}
