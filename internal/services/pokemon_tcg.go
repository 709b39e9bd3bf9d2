package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/ymatsuda/card-inventory/internal/metrics"
	"github.com/ymatsuda/card-inventory/internal/models"
)

const (
	pokemonTCGBaseURL        = "https://api.pokemontcg.io/v2"
	pokemonTCGDefaultTimeout = 10 * time.Second
	pokemonTCGPageSize       = 20

	// cardCacheSize bounds the per-ID lookup cache. Card detail pages hit
	// the same IDs repeatedly within a session.
	cardCacheSize = 200
)

// PokemonTCGService handles API calls to the external Pokemon TCG catalog.
type PokemonTCGService struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	limiter   *rate.Limiter
	cardCache *lru.Cache[string, models.PokemonTCGCard]
}

// NewPokemonTCGService creates a new Pokemon TCG API service. The API works
// without a key but with tighter upstream quotas, so outbound calls are
// limited to two per second either way.
func NewPokemonTCGService(apiKey string) *PokemonTCGService {
	cardCache, _ := lru.New[string, models.PokemonTCGCard](cardCacheSize)

	return &PokemonTCGService{
		client: &http.Client{
			Timeout: pokemonTCGDefaultTimeout,
		},
		apiKey:    apiKey,
		baseURL:   pokemonTCGBaseURL,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		cardCache: cardCache,
	}
}

type pokemonCardListResponse struct {
	Data []pokemonCard `json:"data"`
}

type pokemonCardResponse struct {
	Data pokemonCard `json:"data"`
}

type pokemonSetListResponse struct {
	Data []pokemonSet `json:"data"`
}

type pokemonCard struct {
	TCGPlayer *pokemonTCGPrices `json:"tcgplayer"`
	Set       pokemonSet        `json:"set"`
	Images    pokemonImages     `json:"images"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Number    string            `json:"number"`
	Rarity    string            `json:"rarity"`
}

type pokemonSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	ReleaseDate string `json:"releaseDate"`
	Total       int    `json:"total"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPrices struct {
	Prices map[string]pokemonPriceSet `json:"prices"`
}

type pokemonPriceSet struct {
	Low    float64 `json:"low"`
	Mid    float64 `json:"mid"`
	High   float64 `json:"high"`
	Market float64 `json:"market"`
}

// SearchCards queries the external catalog by card name and optional set
// name.
func (s *PokemonTCGService) SearchCards(ctx context.Context, name, setName string) ([]models.PokemonTCGCard, error) {
	query := fmt.Sprintf("name:%q", name)
	if setName != "" {
		query += fmt.Sprintf(" set.name:%q", setName)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", fmt.Sprintf("%d", pokemonTCGPageSize))
	reqURL := fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode())

	var listResp pokemonCardListResponse
	if err := s.get(ctx, reqURL, &listResp); err != nil {
		return nil, err
	}

	cards := make([]models.PokemonTCGCard, len(listResp.Data))
	for i, pc := range listResp.Data {
		cards[i] = convertPokemonCard(pc)
	}
	return cards, nil
}

// GetCard fetches one card by its external ID. Returns (nil, nil) when the
// catalog has no such card. Results are cached per ID.
func (s *PokemonTCGService) GetCard(ctx context.Context, id string) (*models.PokemonTCGCard, error) {
	if cached, ok := s.cardCache.Get(id); ok {
		metrics.PokemonTCGRequestsTotal.WithLabelValues("cache").Inc()
		return &cached, nil
	}

	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, url.PathEscape(id))

	var cardResp pokemonCardResponse
	err := s.get(ctx, reqURL, &cardResp)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	card := convertPokemonCard(cardResp.Data)
	s.cardCache.Add(id, card)
	return &card, nil
}

// GetSets lists the available card sets.
func (s *PokemonTCGService) GetSets(ctx context.Context) ([]models.PokemonTCGSet, error) {
	var setsResp pokemonSetListResponse
	if err := s.get(ctx, s.baseURL+"/sets", &setsResp); err != nil {
		return nil, err
	}

	sets := make([]models.PokemonTCGSet, len(setsResp.Data))
	for i, ps := range setsResp.Data {
		sets[i] = models.PokemonTCGSet{
			ID:          ps.ID,
			Name:        ps.Name,
			Series:      ps.Series,
			ReleaseDate: ps.ReleaseDate,
			Total:       ps.Total,
		}
	}
	return sets, nil
}

var errNotFound = fmt.Errorf("not found")

func (s *PokemonTCGService) get(ctx context.Context, reqURL string, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.PokemonTCGRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to reach pokemon tcg API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.PokemonTCGRequestsTotal.WithLabelValues("success").Inc()
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.PokemonTCGRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("pokemon tcg API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.PokemonTCGRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to decode pokemon tcg response: %w", err)
	}

	metrics.PokemonTCGRequestsTotal.WithLabelValues("success").Inc()
	return nil
}

// convertPokemonCard maps the external payload to the internal shape. Market
// price prefers the normal printing, then holofoil, then reverse holofoil.
func convertPokemonCard(pc pokemonCard) models.PokemonTCGCard {
	var marketPrice *float64
	if pc.TCGPlayer != nil && pc.TCGPlayer.Prices != nil {
		for _, printing := range []string{"normal", "holofoil", "reverseHolofoil"} {
			if ps, ok := pc.TCGPlayer.Prices[printing]; ok && ps.Market > 0 {
				price := ps.Market
				marketPrice = &price
				break
			}
		}
	}

	return models.PokemonTCGCard{
		TCGID:       pc.ID,
		Name:        pc.Name,
		CardNumber:  pc.Number,
		SetName:     pc.Set.Name,
		Rarity:      pc.Rarity,
		ImageURL:    pc.Images.Large,
		MarketPrice: marketPrice,
		ReleaseDate: pc.Set.ReleaseDate,
		Series:      pc.Set.Series,
	}
}
