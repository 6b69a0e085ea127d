// internal/api/handler/strategies.go
package handler

import (
	"net/http"
	"sort"

	"github.com/stockmcp/stockmcp/internal/api/response"
	"github.com/stockmcp/stockmcp/internal/strategy"
)

// StrategyInfo describes one registered strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategiesHandler lists the registered strategies.
type StrategiesHandler struct {
	strategies *strategy.Engine
}

// NewStrategiesHandler creates a new strategies handler.
func NewStrategiesHandler(strategies *strategy.Engine) *StrategiesHandler {
	return &StrategiesHandler{strategies: strategies}
}

// List returns all registered strategies sorted by name.
func (h *StrategiesHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.strategies.GetAll()

	infos := make([]StrategyInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, StrategyInfo{
			Name:        s.Name(),
			Description: s.Description(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	response.JSON(w, http.StatusOK, map[string]any{
		"strategies": infos,
	})
}
