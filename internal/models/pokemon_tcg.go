package models

// PokemonTCGCard is a read-only lookup result from the external Pokemon TCG
// catalog. It is never persisted; the caller decides whether to turn it into
// a Card.
type PokemonTCGCard struct {
	TCGID       string   `json:"tcg_id"`
	Name        string   `json:"name"`
	CardNumber  string   `json:"card_number"`
	SetName     string   `json:"set_name"`
	Rarity      string   `json:"rarity"`
	ImageURL    string   `json:"image_url"`
	MarketPrice *float64 `json:"market_price"`
	ReleaseDate string   `json:"release_date"`
	Series      string   `json:"series"`
}

type PokemonTCGSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	ReleaseDate string `json:"releaseDate"`
	Total       int    `json:"total"`
}
