package flights

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func testGenerator() *Generator {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	return NewWithSource(rand.New(rand.NewSource(42)), func() time.Time { return now })
}

func TestFind_PreferredAirlineFirst(t *testing.T) {
	g := testGenerator()
	offers := g.Find("Paris", "2025-01-01", []string{"I love Delta"})
	if len(offers) < 2 || len(offers) > 3 {
		t.Fatalf("want 2-3 offers, got %d", len(offers))
	}
	if offers[0].Airline != "Delta" {
		t.Fatalf("first offer airline = %q, want Delta", offers[0].Airline)
	}
	if offers[0].Notes != NotesPreferred {
		t.Fatalf("first offer notes = %q", offers[0].Notes)
	}
	for _, o := range offers[1:] {
		if o.Airline == "Delta" {
			t.Fatalf("standard offer reused preferred airline")
		}
		if o.Notes != NotesStandard {
			t.Fatalf("standard offer notes = %q", o.Notes)
		}
	}
}

func TestFind_NoAirlineMatch(t *testing.T) {
	g := testGenerator()
	offers := g.Find("Paris", "2025-01-01", []string{"I love window seats"})
	if len(offers) < 1 || len(offers) > 2 {
		t.Fatalf("want 1-2 offers, got %d", len(offers))
	}
	for _, o := range offers {
		if o.Notes == NotesPreferred {
			t.Fatalf("unexpected preferred offer: %+v", o)
		}
	}
}

func TestFind_MatchIsCaseInsensitiveSubstring(t *testing.T) {
	g := testGenerator()
	offers := g.Find("Doha", "2025-03-10", []string{"window seat", "prefer qatar airways when possible"})
	if offers[0].Airline != "Qatar Airways" {
		t.Fatalf("first offer airline = %q", offers[0].Airline)
	}
}

func TestFind_OfferShape(t *testing.T) {
	g := testGenerator()
	offers := g.Find("Paris", "2025-01-01", []string{"Lufthansa please"})
	o := offers[0]
	if !strings.HasPrefix(o.FlightNumber, "LU") || len(o.FlightNumber) != 5 {
		t.Fatalf("flight number %q", o.FlightNumber)
	}
	if !strings.HasSuffix(o.Price, " EUR") {
		t.Fatalf("price %q", o.Price)
	}
	if _, err := time.Parse("15:04", o.DepartureTime); err != nil {
		t.Fatalf("departure time %q: %v", o.DepartureTime, err)
	}
	if _, err := time.Parse("15:04", o.ArrivalTime); err != nil {
		t.Fatalf("arrival time %q: %v", o.ArrivalTime, err)
	}
}

func TestFind_NoPreferences(t *testing.T) {
	g := testGenerator()
	offers := g.Find("Rome", "2025-06-01", nil)
	if len(offers) < 1 || len(offers) > 2 {
		t.Fatalf("want 1-2 offers, got %d", len(offers))
	}
}
