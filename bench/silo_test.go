package bench

import (
	"testing"

	"github.com/TheBitDrifter/silo"
	"github.com/TheBitDrifter/table"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

const (
	moving silo.GroupID = iota + 1
	static
)

func newSiloStore(b *testing.B) (*silo.Store, silo.AccessibleComponent[Position], silo.AccessibleComponent[Velocity]) {
	b.Helper()
	position := silo.FactoryNewComponent[Position]()
	velocity := silo.FactoryNewComponent[Velocity]()
	store := silo.Factory.NewStore(table.Factory.NewSchema())

	posVel := silo.MustNewDescriptor(silo.NewBuilder(position, nil), silo.NewBuilder(velocity, nil))
	pos := silo.MustNewDescriptor(silo.NewBuilder(position, nil))
	for i := 0; i < nPosVel; i++ {
		if err := store.Build(silo.NewEGID(uint32(i), moving), posVel, Velocity{X: 1, Y: 1}); err != nil {
			b.Fatal(err)
		}
	}
	for i := 0; i < nPos; i++ {
		if err := store.Build(silo.NewEGID(uint32(i), static), pos); err != nil {
			b.Fatal(err)
		}
	}
	if err := store.Flush(); err != nil {
		b.Fatal(err)
	}
	return store, position, velocity
}

func BenchmarkIterSiloCursor(b *testing.B) {
	b.StopTimer()
	store, position, velocity := newSiloStore(b)
	cursor := silo.Factory.NewCursor(store, moving, velocity)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			egid := cursor.CurrentEntity()
			pos, _ := position.GetFromStore(store, egid)
			vel := velocity.GetFromCursor(cursor)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterSiloCollection(b *testing.B) {
	b.StopTimer()
	store, position, velocity := newSiloStore(b)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		velocities, _ := store.Collection(moving, velocity)
		for id := range velocities.IDs() {
			egid := silo.NewEGID(id, moving)
			pos, _ := position.GetFromStore(store, egid)
			vel, _ := velocity.GetFromStore(store, egid)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkChurnSilo(b *testing.B) {
	b.StopTimer()
	position := silo.FactoryNewComponent[Position]()
	velocity := silo.FactoryNewComponent[Velocity]()
	store := silo.Factory.NewStore(table.Factory.NewSchema())
	posVel := silo.MustNewDescriptor(silo.NewBuilder(position, nil), silo.NewBuilder(velocity, nil))
	if err := store.PreallocateDescriptor(moving, posVel, nPosVel); err != nil {
		b.Fatal(err)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for id := 0; id < nPosVel; id++ {
			if err := store.Build(silo.NewEGID(uint32(id), moving), posVel); err != nil {
				b.Fatal(err)
			}
		}
		if err := store.Flush(); err != nil {
			b.Fatal(err)
		}
		for id := 0; id < nPosVel; id += 2 {
			if err := store.SwapGroup(uint32(id), moving, static); err != nil {
				b.Fatal(err)
			}
		}
		if err := store.RemoveGroup(moving); err != nil {
			b.Fatal(err)
		}
		if err := store.RemoveGroup(static); err != nil {
			b.Fatal(err)
		}
	}
}
