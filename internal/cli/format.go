package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/me/hive/pkg/model"
)

// table writes aligned columns.
func table(out io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

// pageFooter notes when more results exist.
func pageFooter[T any](out io.Writer, p *model.Page[T]) {
	if p.HasMore() {
		fmt.Fprintf(out, "\n(page %d, %d of %s shown; use --page %d for more)\n",
			p.Page, len(p.Items), humanize.Comma(int64(p.Total)), p.Page+1)
	}
}

// ago renders an RFC 3339 timestamp relative to now.
func ago(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

func hours(h float64) string {
	s := humanize.FtoaWithDigits(h, 2)
	if h == 1 {
		return s + " hour"
	}
	return s + " hours"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
