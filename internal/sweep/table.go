package sweep

import (
	"fmt"
	"io"
	"strings"
)

// WriteTable prints the result as fixed-width columns of ten characters with
// two decimals, building names spanning their two columns.
func WriteTable(w io.Writer, res *Result) error {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 20))
	for _, name := range res.Buildings {
		fmt.Fprintf(&b, "%20s", name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%10s%10s", "Offer", "Price")
	for range res.Buildings {
		fmt.Fprintf(&b, "%10s%10s", "DeltaKW", "DeltaDegF")
	}
	fmt.Fprintf(&b, "%10s\n", "TotLoad")

	for _, r := range res.Rows {
		fmt.Fprintf(&b, "%10.2f%10.2f", r.Offer, r.Price)
		for _, l := range r.Loads {
			fmt.Fprintf(&b, "%10.2f%10.2f", l.Quantity, l.Response)
		}
		fmt.Fprintf(&b, "%10.2f\n", r.TotalLoad)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
