package component

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

// StatusHeader shows the calculator title and the held price of the selected asset
type StatusHeader struct {
	title   string
	asset   string
	price   *price.AssetPrice
	loading bool
	width   int
	now     func() time.Time

	container lipgloss.Style
	titleText lipgloss.Style
	assetText lipgloss.Style
	priceText lipgloss.Style
	muted     lipgloss.Style
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(title string) *StatusHeader {
	palette := style.DefaultPalette()

	return &StatusHeader{
		title: title,
		now:   time.Now,

		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2).
			MarginBottom(1),
		titleText: lipgloss.NewStyle().Foreground(palette.Primary).Bold(true),
		assetText: lipgloss.NewStyle().Foreground(palette.TextSecondary),
		priceText: lipgloss.NewStyle().Foreground(palette.Success).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(palette.TextMuted),
	}
}

// SetAsset sets the selected asset and forgets the price.
func (h *StatusHeader) SetAsset(asset string) {
	h.asset = asset
	h.price = nil
}

// SetLoading marks a price fetch in flight.
func (h *StatusHeader) SetLoading(loading bool) {
	h.loading = loading
}

// SetPrice records the held price, or nil when unavailable.
func (h *StatusHeader) SetPrice(p *price.AssetPrice) {
	h.price = p
	h.loading = false
}

// SetWidth sets the header width
func (h *StatusHeader) SetWidth(width int) {
	h.width = width
}

// View renders the status header
func (h *StatusHeader) View() string {
	parts := []string{h.titleText.Render(h.title)}

	if h.asset != "" {
		parts = append(parts, h.assetText.Render(h.asset))
	}

	switch {
	case h.loading:
		parts = append(parts, h.muted.Render("fetching price…"))
	case h.price != nil:
		quote := strings.ToUpper(h.price.Quote)
		text := humanize.CommafWithDigits(h.price.Price, 2) + " " + quote
		parts = append(parts,
			h.priceText.Render(text),
			h.muted.Render("updated "+humanize.RelTime(h.price.FetchedAt, h.now(), "ago", "from now")))
	case h.asset != "":
		parts = append(parts, h.muted.Render("price unavailable"))
	}

	content := strings.Join(parts, h.muted.Render(" │ "))
	if h.width > 4 {
		return h.container.Width(h.width - 2).Render(content)
	}
	return h.container.Render(content)
}
