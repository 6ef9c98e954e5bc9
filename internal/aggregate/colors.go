package aggregate

// FallbackColor is used for categories missing from the palette.
const FallbackColor = "#666666"

var categoryColors = map[string]string{
	"salary":       "#16a34a",
	"freelance":    "#22c55e",
	"investment":   "#4ade80",
	"bonus":        "#86efac",
	"other_income": "#2563eb",

	"takeaway":      "#dc2626",
	"groceries":     "#ef4444",
	"rent":          "#f87171",
	"house-bill":    "#f59e0b",
	"transport":     "#fb923c",
	"subscriptions": "#facc15",
	"entertainment": "#eab308",
	"insurance":     "#f472b6",
	"healthcare":    "#ec4899",
	"education":     "#8b5cf6",
	"savings":       "#3b82f6",
	"misc":          "#9ca3af",

	"Uncategorized": FallbackColor,
}

// ColorFor returns the chart color for an exact category label.
func ColorFor(label string) string {
	if c, ok := categoryColors[label]; ok {
		return c
	}
	return FallbackColor
}
