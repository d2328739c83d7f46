// Command history is a read-only reporting tool over the balance ledger.
// It lists rows inside a trailing time window or prints per-account
// summaries (count/avg/min/max).
//
// Usage:
//
//	history --db ./wal/balance_history --days 7
//	history --db ./wal/balance_history --account main
//	history --db ./wal/balance_history --summary
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
	"github.com/hotbroker/bnAlphaChecker/internal/storage/ledger"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func main() {
	dbDir := flag.String("db", "./wal/balance_history", "balance history directory")
	account := flag.String("account", "", "filter by account note")
	days := flag.Int("days", 7, "trailing window in days")
	summary := flag.Bool("summary", false, "print per-account summaries")
	flag.Parse()

	store, err := ledger.NewWALStore(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	rows, err := store.Rows()
	if err != nil {
		log.Fatal(err)
	}

	if *summary {
		printSummaries(rows)
		return
	}
	printHistory(rows, *account, *days)
}

func printHistory(rows []domain.LedgerRow, account string, days int) {
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	filtered := ledger.Filter(rows, account, since)

	title := "Balance history"
	if account != "" {
		title += " - " + account
	}
	fmt.Println(headerStyle.Render(title))

	if len(filtered) == 0 {
		fmt.Println(faintStyle.Render("no records in window"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range filtered {
		fmt.Fprintf(w, "%s\t$%s USD\t[%s]\t%s\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.TotalUSDT.StringFixed(2),
			r.SourceKind,
			r.Note)
	}
	w.Flush()

	fmt.Println(faintStyle.Render(fmt.Sprintf("%d records", len(filtered))))
}

func printSummaries(rows []domain.LedgerRow) {
	summaries := ledger.Summarize(rows)

	fmt.Println(headerStyle.Render("Account summary"))
	if len(summaries) == 0 {
		fmt.Println(faintStyle.Render("no records"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tACCOUNT\tCOUNT\tAVG\tMIN\tMAX\tLAST UPDATE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%s\t$%s\t$%s\t%s\n",
			s.SourceKind,
			s.Note,
			s.Count,
			s.Avg.StringFixed(2),
			s.Min.StringFixed(2),
			s.Max.StringFixed(2),
			s.LastRecord.Format("01-02 15:04"))
	}
	w.Flush()
}
