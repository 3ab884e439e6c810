package main

import (
	"chat-gateway/internal"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// inspect prints the directory keys under a prefix. It opens the database read-only,
// so it can run next to a live gateway.
func main() {
	dbPath := flag.String("db", "./data/gateway", "Path to badger DB")
	prefix := flag.String("prefix", "room:", "Prefix to scan (user:, room:, membership:, msg:)")
	limit := flag.Int("limit", 0, "Maximum rows, 0 for all")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		log.Fatalf("open %s: %v", *dbPath, err)
	}
	defer db.Close()

	rows, err := internal.ScanPrefix(db, *prefix, *limit, internal.DefaultMapper)
	if err != nil {
		log.Fatalf("scan %q: %v", *prefix, err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Time", "ID", "Scope", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorders(tablewriter.Border{Left: false, Right: false, Top: false, Bottom: true})
	table.SetFooter([]string{"", "", "", "", "rows", strconv.Itoa(len(rows))})
	for _, row := range rows {
		table.Append([]string{row.Key, row.Type, row.Timestamp, row.EntityID, row.Namespace, row.Detail})
	}
	table.Render()
}
