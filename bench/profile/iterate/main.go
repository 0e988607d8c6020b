// Profiling:
// go build ./profile/iterate
// go tool pprof -http=":8000" -nodefraction=0.001 ./iterate mem.pprof

package main

import (
	"github.com/TheBitDrifter/stockroom"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	rounds := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	c1 := stockroom.FactoryNewComponent[comp1]()
	c2 := stockroom.FactoryNewComponent[comp2]()

	for range rounds {
		a := stockroom.NewAllocator(stockroom.WithMaxEntities(numEntities))
		c1.RegisterIn(a)
		c2.RegisterIn(a)
		query, err := a.AddQuery(stockroom.Factory.NewQuery().And(c1, c2))
		if err != nil {
			panic(err)
		}

		for range iters {
			for range numEntities {
				uid, err := a.AddEntity()
				if err != nil {
					panic(err)
				}
				c1.Add(a, uid, comp1{})
				c2.Add(a, uid, comp2{V: 1, W: 1})
			}
			cursor := a.NewCursor(query)
			for cursor.Next() {
				v1 := c1.GetFromCursor(cursor)
				v2 := c2.GetFromCursor(cursor)
				v1.V += v2.V
				v1.W += v2.W
				a.EnqueueRemoveEntity(cursor.CurrentEntity())
			}
		}
	}
}
