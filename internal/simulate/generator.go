package simulate

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/pitchside/internal/domain/model"
)

var (
	teamNames  = []string{"Lions", "Tigers", "Bears", "Wolves", "Eagles", "Sharks", "Hawks", "Foxes"}
	categories = []string{"U10", "U12", "U14", "U16"}
	firstNames = []string{"Ana", "Bo", "Cy", "Di", "Ed", "Flo", "Gus", "Hana", "Ivo", "Jun", "Kai", "Lea"}
)

// generator builds reproducible match plans from a seed.
type generator struct {
	rnd *rand.Rand
}

func newGenerator(seed uint64) *generator {
	return &generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// plans generates n matches with events each. Legs count up per pairing.
func (g *generator) plans(n, events int) []matchPlan {
	legs := make(map[string]int)
	out := make([]matchPlan, 0, n)
	for range n {
		home, away := g.pairing()
		key := home + "|" + away
		legs[key]++
		out = append(out, g.plan(home, away, legs[key], events))
	}
	return out
}

func (g *generator) pairing() (string, string) {
	h := g.rnd.IntN(len(teamNames))
	a := g.rnd.IntN(len(teamNames) - 1)
	if a >= h {
		a++
	}
	return teamNames[h], teamNames[a]
}

func (g *generator) plan(home, away string, leg, events int) matchPlan {
	setup := matchRequest{
		HomeTeam:        home,
		AwayTeam:        away,
		Category:        categories[g.rnd.IntN(len(categories))],
		LegNumber:       leg,
		SubstitutionCap: 1 + g.rnd.IntN(model.MaxSubstitutionCap),
	}
	roster := map[model.Side][]string{}
	for _, side := range []model.Side{model.Home, model.Away} {
		for i := range playersPerSide {
			p := playerRequest{
				ID:     uuid.NewString(),
				Name:   fmt.Sprintf("%s %d", firstNames[g.rnd.IntN(len(firstNames))], i+1),
				Number: i + 1,
				Team:   string(side),
			}
			setup.Players = append(setup.Players, p)
			roster[side] = append(roster[side], p.ID)
		}
	}

	types := model.EventTypes()
	plan := matchPlan{Setup: setup, Events: make([]eventRequest, 0, events)}
	for i := range events {
		side := model.Home
		if g.rnd.IntN(2) == 1 {
			side = model.Away
		}
		e := eventRequest{
			ID:   uuid.NewString(),
			Type: string(types[g.rnd.IntN(len(types))]),
			Team: string(side),
		}
		if i%pixelShare == pixelShare-1 {
			e.Coordinates = "pixels"
			e.Width, e.Height = pixelWidth, pixelHeight
			e.X = g.rnd.Float64() * pixelWidth
			e.Y = g.rnd.Float64() * pixelHeight
		} else {
			e.X = g.rnd.Float64() * 100
			e.Y = g.rnd.Float64() * 100
		}
		if g.rnd.IntN(2) == 0 {
			ids := roster[side]
			e.PlayerID = ids[g.rnd.IntN(len(ids))]
		}
		plan.Events = append(plan.Events, e)
	}
	return plan
}

// offPitch returns an event the service must refuse.
func offPitch() eventRequest {
	return eventRequest{ID: uuid.NewString(), Type: string(model.Shot), Team: string(model.Home), X: 150, Y: 50}
}

// goals counts the goals a plan scores for each side.
func (p matchPlan) goals() (home, away int) {
	for _, e := range p.Events {
		if e.Type != string(model.Goal) {
			continue
		}
		if e.Team == string(model.Home) {
			home++
		} else {
			away++
		}
	}
	return home, away
}
