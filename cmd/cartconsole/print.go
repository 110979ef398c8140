package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/erazemk/cartconsole/internal/console"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	dangerColor  = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.Bold)
)

// printView writes the flash line, the form fields and, when rows came back, the
// results table.
func printView(w io.Writer, v console.View) {
	switch v.Flash.Kind {
	case console.FlashSuccess:
		successColor.Fprintln(w, v.Flash.Message)
	case console.FlashDanger:
		dangerColor.Fprintln(w, v.Flash.Message)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fields := []struct{ label, value string }{
		{"Customer ID", v.Form.CustomerID},
		{"Product ID", v.Form.ProductID},
		{"Quantity", v.Form.Quantity},
		{"Price", v.Form.Price},
		{"Checkout", v.Form.Checkout},
	}
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.label, f.value)
	}
	tw.Flush()

	if len(v.Results) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range console.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, headerColor.Sprint(col))
	}
	fmt.Fprintln(tw)
	for _, item := range v.Results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", item.ShopcartID, item.ProductID, item.Quantity, item.Price, item.Checkout)
	}
	tw.Flush()
}
