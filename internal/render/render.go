// Package render formats decoded statistics for the terminal
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Norgate-AV/shoporusni/internal/stats"
)

// Renderer formats statistics with or without colour
type Renderer struct {
	current  *color.Color
	increase *color.Color
}

// New creates a renderer. Colour is forced on unless noColor is set,
// so piping the output keeps the emphasis.
func New(noColor bool) *Renderer {
	r := &Renderer{
		current:  color.New(color.FgRed),
		increase: color.New(color.FgGreen),
	}

	if noColor {
		r.current.DisableColor()
		r.increase.DisableColor()
	} else {
		r.current.EnableColor()
		r.increase.EnableColor()
	}

	return r
}

// Render returns "<current>↑<increase>" for personnel units
func (r *Renderer) Render(doc *stats.Statistics) string {
	return r.pair(doc.Data.Stats.PersonnelUnits, doc.Data.Increase.PersonnelUnits)
}

// Table writes every counter with its increase
func (r *Renderer) Table(w io.Writer, doc *stats.Statistics) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "DATE\t%s (day %d)\n", doc.Data.Date, doc.Data.Day)

	increase := doc.Data.Increase.List()
	for i, c := range doc.Data.Stats.List() {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, r.pair(c.Value, increase[i].Value))
	}

	return tw.Flush()
}

func (r *Renderer) pair(current, increase int64) string {
	return fmt.Sprintf("%s↑%s", r.current.Sprint(current), r.increase.Sprint(increase))
}
