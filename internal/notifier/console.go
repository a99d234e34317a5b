package notifier

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"PriceBoard/internal/model"
)

var (
	upColor    = color.New(color.FgGreen)
	downColor  = color.New(color.FgRed)
	boldColor  = color.New(color.Bold)
	mutedColor = color.New(color.FgHiBlack)
)

// PrintHeader writes the summary header for sel to w, colouring the change line.
func PrintHeader(w io.Writer, sel model.Selection) error {
	h := FormatHeader(sel.Stats)
	if _, err := boldColor.Fprintln(w, h.Price); err != nil {
		return err
	}
	line := downColor
	if h.Rising {
		line = upColor
	}
	if _, err := line.Fprintln(w, h.Change); err != nil {
		return err
	}
	_, err := mutedColor.Fprintln(w, FormatSummary(sel))
	return err
}

// PrintCatalog lists the ranges in display order, marking the selected one.
func PrintCatalog(w io.Writer, specs []model.RangeSpec, selected string) error {
	for _, s := range specs {
		marker := " "
		if s.ID == selected {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %-4s %-4s %4d days\n", marker, s.Label, s.ID, s.LookbackDays); err != nil {
			return err
		}
	}
	return nil
}
