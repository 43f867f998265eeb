package layout

import (
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
)

// LayoutStrategy defines the interface for different layout rendering strategies
type LayoutStrategy interface {
	Render(frame *player.Frame, param model.LayoutParam) []string
	GetName() string
}

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		0: &FullLayoutStrategy{},
		1: &CompactLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to full layout if invalid style
	return &FullLayoutStrategy{}
}
