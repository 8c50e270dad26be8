// Package marvelcdb is a client for the public MarvelCDB card
// database API. See https://marvelcdb.com/api/ for the API terms.
package marvelcdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://marvelcdb.com/api/public"
	// DefaultSiteURL is the site root card image paths are relative to.
	DefaultSiteURL = "https://marvelcdb.com"

	packFetchLimit = 4
)

// Client fetches and caches card data from the public API. Cards load
// once per client; later LoadCards calls are no-ops. The client's
// card cache is not safe for concurrent mutation.
type Client struct {
	baseURL string
	siteURL string
	httpc   *http.Client

	cards map[string]*Card
	codes []string
}

// NewClient creates a client against the given API root, or the
// public one when baseURL is empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		siteURL: DefaultSiteURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// LoadCards downloads the card database. With all false only the
// player cards list is fetched; with all true every pack is fetched
// separately, which also covers encounter cards. Loading happens once
// per client regardless of the all flag on later calls.
func (c *Client) LoadCards(ctx context.Context, all bool) error {
	if c.cards != nil {
		return nil
	}
	cards := make(map[string]*Card)
	if all {
		var packs []struct {
			Code string `json:"code"`
		}
		if err := c.getJSON(ctx, c.baseURL+"/packs/", &packs); err != nil {
			return err
		}
		packCards := make([][]map[string]any, len(packs))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(packFetchLimit)
		for i, pack := range packs {
			i, pack := i, pack
			g.Go(func() error {
				url := c.baseURL + "/cards/" + pack.Code
				return c.getJSON(gctx, url, &packCards[i])
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, list := range packCards {
			mergeCards(cards, list)
		}
	}
	// The player cards list is always fetched; it carries the hero
	// backside records.
	var list []map[string]any
	if err := c.getJSON(ctx, c.baseURL+"/cards/", &list); err != nil {
		return err
	}
	mergeCards(cards, list)

	codes := make([]string, 0, len(cards))
	for code := range cards {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	c.cards = cards
	c.codes = codes
	slog.Info("Loaded card database",
		slog.String("type", "net"),
		slog.Int("cards", len(cards)),
		slog.Bool("all", all))
	return nil
}

func mergeCards(cards map[string]*Card, list []map[string]any) {
	for _, fields := range list {
		card := NewCard(fields)
		if code := card.Code(); code != "" {
			cards[code] = card
		}
	}
}

// Card returns the cached card with the given code, or nil. LoadCards
// must have run first.
func (c *Client) Card(code string) *Card {
	return c.cards[code]
}

// Cards returns all cached cards in code order.
func (c *Client) Cards() []*Card {
	cards := make([]*Card, 0, len(c.codes))
	for _, code := range c.codes {
		cards = append(cards, c.cards[code])
	}
	return cards
}

// LoadDeck fetches a public deck list by ID and resolves its cards
// against the card database, loading the player cards first if
// needed. The hero card is included.
func (c *Client) LoadDeck(ctx context.Context, deckID string) (*Deck, error) {
	if err := c.LoadCards(ctx, false); err != nil {
		return nil, err
	}
	var raw struct {
		Name             string         `json:"name"`
		InvestigatorCode string         `json:"investigator_code"`
		Slots            map[string]int `json:"slots"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/decklist/"+deckID, &raw); err != nil {
		return nil, err
	}
	deck := &Deck{Name: raw.Name}
	if raw.InvestigatorCode != "" {
		hero := c.Card(raw.InvestigatorCode)
		if hero == nil {
			return nil, fmt.Errorf("could not parse deck JSON: unknown hero code %s", raw.InvestigatorCode)
		}
		deck.Cards = append(deck.Cards, DeckEntry{Card: hero, Qty: 1})
	}
	codes := make([]string, 0, len(raw.Slots))
	for code := range raw.Slots {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		card := c.Card(code)
		if card == nil {
			return nil, fmt.Errorf("could not parse deck JSON: unknown card code %s", code)
		}
		deck.Cards = append(deck.Cards, DeckEntry{Card: card, Qty: raw.Slots[code]})
	}
	return deck, nil
}

// ImageURL resolves a card's front image URL, or "" when the record
// has no image.
func (c *Client) ImageURL(card *Card) string {
	src := card.String("imagesrc")
	if src == "" {
		return ""
	}
	return c.siteURL + src
}

// FetchImage downloads a card's front image.
func (c *Client) FetchImage(ctx context.Context, card *Card) ([]byte, error) {
	url := c.ImageURL(card)
	if url == "" {
		return nil, fmt.Errorf("card %s has no image", card.Code())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to open URL %s: status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open URL %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to open URL %s: status %s", url, resp.Status)
	}
	ctype := resp.Header.Get("Content-Type")
	if mime, _, _ := strings.Cut(ctype, ";"); strings.TrimSpace(mime) != "application/json" {
		return fmt.Errorf("unexpected server response from %s: content type %q", url, ctype)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode server response as JSON: %w", err)
	}
	return nil
}
