package flights

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Offer — один синтетический вариант перелёта.
type Offer struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Price         string `json:"price"`
	Notes         string `json:"notes"`
}

const (
	NotesPreferred = "Matches your preferred airline"
	NotesStandard  = "Standard option"
)

var airlines = []string{
	"Delta",
	"Qatar Airways",
	"Singapore Airlines",
	"Ryanair",
	"Lufthansa",
	"Emirates",
}

// Generator produces synthetic flight offers. The rand source and clock are
// injectable so tests can pin the output.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func New() *Generator {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

func NewWithSource(rnd *rand.Rand, now func() time.Time) *Generator {
	return &Generator{rnd: rnd, now: now}
}

// Find returns 1-2 offers, plus one extra offer up front when the stated
// preferences mention a catalogue airline. Matching is a case-insensitive
// substring scan: preference order outer, catalogue order inner, first hit wins.
func (g *Generator) Find(destination, departureDate string, preferences []string) []Offer {
	preferred := ""
	for _, pref := range preferences {
		for _, airline := range airlines {
			if strings.Contains(strings.ToLower(pref), strings.ToLower(airline)) {
				preferred = airline
				break
			}
		}
		if preferred != "" {
			break
		}
	}

	var offers []Offer
	if preferred != "" {
		offers = append(offers, g.offer(preferred, 2, 5, 10, 14, 800, 1800, NotesPreferred))
	}

	rest := make([]string, 0, len(airlines))
	for _, a := range airlines {
		if a != preferred {
			rest = append(rest, a)
		}
	}
	n := g.randint(1, 2)
	for i := 0; i < n; i++ {
		airline := rest[g.rnd.Intn(len(rest))]
		offers = append(offers, g.offer(airline, 2, 12, 14, 20, 400, 1500, NotesStandard))
	}
	return offers
}

func (g *Generator) offer(airline string, depLo, depHi, arrLo, arrHi, priceLo, priceHi int, notes string) Offer {
	now := g.now()
	return Offer{
		Airline:       airline,
		FlightNumber:  fmt.Sprintf("%s%d", strings.ToUpper(airline[:2]), g.randint(100, 999)),
		DepartureTime: now.Add(time.Duration(g.randint(depLo, depHi)) * time.Hour).Format("15:04"),
		ArrivalTime:   now.Add(time.Duration(g.randint(arrLo, arrHi)) * time.Hour).Format("15:04"),
		Price:         fmt.Sprintf("%d EUR", g.randint(priceLo, priceHi)),
		Notes:         notes,
	}
}

// randint mirrors inclusive-bounds random integers.
func (g *Generator) randint(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}
