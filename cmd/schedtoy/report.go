package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.Bold, color.Underline)
	ranColor    = color.New(color.FgGreen)
	lostColor   = color.New(color.FgRed)
)

// printOutcomes prints producers in the order the worker ran them; those
// that never ran come last.
func printOutcomes(w io.Writer, title string, outcomes []outcome) {
	sorted := slices.Clone(outcomes)
	slices.SortStableFunc(sorted, func(a, b outcome) int {
		switch {
		case a.ExecOrder == 0 && b.ExecOrder != 0:
			return 1
		case a.ExecOrder != 0 && b.ExecOrder == 0:
			return -1
		}
		return cmp.Compare(a.ExecOrder, b.ExecOrder)
	})

	headerColor.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "order\tproducer\tclass\tresult")
	var ran, lost int
	for _, o := range sorted {
		order := "-"
		c := lostColor
		if o.ExecOrder > 0 {
			order = fmt.Sprint(o.ExecOrder)
			c = ranColor
			ran++
		} else {
			lost++
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", order, o.Producer, o.Class, c.Sprint(describe(o.Err)))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "ran %d, not run %d\n\n", ran, lost)
}

func printLockOrder(w io.Writer, title string, results []lockResult) {
	sorted := slices.Clone(results)
	slices.SortFunc(sorted, func(a, b lockResult) int { return cmp.Compare(a.Acquire, b.Acquire) })

	headerColor.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "acquire\tarrive\tgoroutine")
	var inOrder int
	for _, r := range sorted {
		c := lostColor
		if r.Arrive == r.Acquire {
			c = ranColor
			inOrder++
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\n", r.Acquire, c.Sprint(r.Arrive), r.Goroutine)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d of %d acquired in arrival order\n\n", inOrder, len(results))
}
