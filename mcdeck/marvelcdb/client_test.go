package marvelcdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// apiServer serves canned card database responses.
func apiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Error(err)
		}
	}
	mux.HandleFunc("/packs/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"code": "core"}, {"code": "rhino"}]`)
	})
	mux.HandleFunc("/cards/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"code": "01001a", "name": "Spider-Man", "type_code": "hero",
			 "linked_card": {"code": "01001b", "name": "Peter Parker", "type_code": "alter_ego"}},
			{"code": "01001b", "name": "Peter Parker", "type_code": "alter_ego", "hand_size": 6},
			{"code": "01002", "name": "Nova", "type_code": "ally", "cost": 2}
		]`)
	})
	mux.HandleFunc("/cards/core", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"code": "01002", "name": "Nova", "type_code": "ally", "cost": 2}]`)
	})
	mux.HandleFunc("/cards/rhino", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"code": "01094", "name": "Rhino", "type_code": "villain"}]`)
	})
	mux.HandleFunc("/decklist/12345", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"name": "Web Warriors", "investigator_code": "01001a",
			"slots": {"01002": 3}}`)
	})
	mux.HandleFunc("/decklist/unknown-card", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"name": "Broken", "investigator_code": "01001a",
			"slots": {"99999": 1}}`)
	})
	mux.HandleFunc("/notjson", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoadCards(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	if err := c.LoadCards(context.Background(), false); err != nil {
		t.Fatalf("LoadCards() error = %v", err)
	}
	if card := c.Card("01002"); card == nil || card.Name() != "Nova" {
		t.Errorf("Card(01002) = %v, want Nova", card)
	}
	if card := c.Card("01094"); card != nil {
		t.Error("player cards load fetched encounter packs")
	}
	// A second load is a no-op.
	if err := c.LoadCards(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if card := c.Card("01094"); card != nil {
		t.Error("repeated LoadCards() refetched the database")
	}
}

func TestLoadCardsAll(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	if err := c.LoadCards(context.Background(), true); err != nil {
		t.Fatalf("LoadCards() error = %v", err)
	}
	if card := c.Card("01094"); card == nil || card.Name() != "Rhino" {
		t.Errorf("Card(01094) = %v, want Rhino from the encounter pack", card)
	}
	cards := c.Cards()
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Code() > cards[i].Code() {
			t.Fatalf("Cards() are not in code order: %q before %q", cards[i-1].Code(), cards[i].Code())
		}
	}
}

func TestLoadDeck(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	deck, err := c.LoadDeck(context.Background(), "12345")
	if err != nil {
		t.Fatalf("LoadDeck() error = %v", err)
	}
	if deck.Name != "Web Warriors" {
		t.Errorf("deck name = %q, want Web Warriors", deck.Name)
	}
	if len(deck.Cards) != 2 {
		t.Fatalf("deck holds %d entries, want 2", len(deck.Cards))
	}
	if deck.Cards[0].Card.Code() != "01001a" || deck.Cards[0].Qty != 1 {
		t.Errorf("entry 0 = %s x%d, want the hero first", deck.Cards[0].Card.Code(), deck.Cards[0].Qty)
	}
	if deck.Cards[1].Card.Code() != "01002" || deck.Cards[1].Qty != 3 {
		t.Errorf("entry 1 = %s x%d, want 01002 x3", deck.Cards[1].Card.Code(), deck.Cards[1].Qty)
	}
}

func TestLoadDeckUnknownCard(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	if _, err := c.LoadDeck(context.Background(), "unknown-card"); err == nil {
		t.Error("LoadDeck() accepted a deck with an unknown card code")
	}
}

func TestGetJSONContentType(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	var v any
	if err := c.getJSON(context.Background(), server.URL+"/notjson", &v); err == nil {
		t.Error("getJSON() accepted a non-JSON content type")
	}
}

func TestGetJSONStatus(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	var v any
	if err := c.getJSON(context.Background(), server.URL+"/missing", &v); err == nil {
		t.Error("getJSON() accepted a non-200 response")
	}
}

func TestOctgnCardLinked(t *testing.T) {
	server := apiServer(t)
	c := NewClient(server.URL)
	if err := c.LoadCards(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	hero := c.Card("01001a")
	data, err := c.OctgnCard(hero)
	if err != nil {
		t.Fatalf("OctgnCard() error = %v", err)
	}
	alt := data.Alt()
	if alt == nil {
		t.Fatal("linked card did not become the alternate side")
	}
	if alt.Name() != "Peter Parker" {
		t.Errorf("alt name = %q, want Peter Parker", alt.Name())
	}
	// The full cached record is preferred over the inline stub, so the
	// alt side carries the hand size only the full record has.
	if v, _ := alt.Properties().Get("HandSize"); v != 6 {
		t.Errorf("alt HandSize = %v, want 6 from the cached record", v)
	}
}

func TestImageURL(t *testing.T) {
	c := NewClient("")
	with := NewCard(map[string]any{"imagesrc": "/bundles/cards/01002.png"})
	if got, want := c.ImageURL(with), DefaultSiteURL+"/bundles/cards/01002.png"; got != want {
		t.Errorf("ImageURL() = %q, want %q", got, want)
	}
	without := NewCard(map[string]any{"code": "01002"})
	if got := c.ImageURL(without); got != "" {
		t.Errorf("ImageURL() = %q for a card without an image, want empty", got)
	}
}
