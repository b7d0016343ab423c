package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
)

// BubbleSVG draws every circle of result with its label and weight. The viewBox matches bounds.
func BubbleSVG(result packer.Result, bounds packer.Bounds, opts ...Option) []byte {
	o := newOptions(opts)
	palette := NewPalette(o.Seed)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		bounds.MinX, bounds.MinY, bounds.Width(), bounds.Height(), bounds.Width(), bounds.Height())
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		bounds.MinX, bounds.MinY, bounds.Width(), bounds.Height(), hex(o.Background))

	for _, c := range result.Circles {
		fill := palette.Next()
		if c.Radius <= 0 {
			continue
		}
		fontSize := c.Radius / 2
		fmt.Fprintf(&buf, `  <g class="bubble">`+"\n")
		fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			c.Position.X, c.Position.Y, c.Radius, hex(fill))
		fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" fill="%s" text-anchor="middle">`,
			c.Position.X, c.Position.Y, fontSize, hex(TextColor(fill)))
		fmt.Fprintf(&buf, `<tspan x="%.2f" dy="-0.1em">%s</tspan>`, c.Position.X, escapeXML(chat.Truncate(c.Label, o.LabelLength)))
		fmt.Fprintf(&buf, `<tspan x="%.2f" dy="1.1em">%d</tspan>`, c.Position.X, c.Weight)
		buf.WriteString("</text>\n  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
