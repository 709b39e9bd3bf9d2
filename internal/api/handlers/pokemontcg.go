package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ymatsuda/card-inventory/internal/services"
)

type PokemonTCGHandler struct {
	tcgService *services.PokemonTCGService
}

func NewPokemonTCGHandler(tcg *services.PokemonTCGService) *PokemonTCGHandler {
	return &PokemonTCGHandler{
		tcgService: tcg,
	}
}

// SearchCards proxies a catalog search by card name and optional set name.
func (h *PokemonTCGHandler) SearchCards(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'name' is required"})
		return
	}

	cards, err := h.tcgService.SearchCards(c.Request.Context(), name, c.Query("set_name"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "pokemon tcg API is unavailable"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *PokemonTCGHandler) GetCard(c *gin.Context) {
	cardID := c.Param("id")

	card, err := h.tcgService.GetCard(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "pokemon tcg API is unavailable"})
		return
	}

	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *PokemonTCGHandler) GetSets(c *gin.Context) {
	sets, err := h.tcgService.GetSets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "pokemon tcg API is unavailable"})
		return
	}

	c.JSON(http.StatusOK, sets)
}
