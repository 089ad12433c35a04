package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Luciana-papello/gestao-cs/config"
	"github.com/Luciana-papello/gestao-cs/sheets"
)

// sheet-snapshot dumps the three source tables to timestamped JSON files so
// data issues can be inspected offline without hitting the dashboard.
func main() {
	outDir := flag.String("out", "snapshots", "Directory to write snapshot files into.")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall fetch timeout.")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := sheets.NewClient()
	tables := []struct {
		name    string
		sheetID string
		tab     string
	}{
		{"clientes", config.ClassificationSheetID(), config.ClientsTab},
		{"pedidos", config.ClassificationSheetID(), config.OrdersTab},
		{"satisfacao", config.SurveySheetID(), ""},
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output dir: %v\n", err)
		os.Exit(1)
	}

	stamp := time.Now().Format("20060102_150405")
	for _, t := range tables {
		table := client.FetchTab(ctx, t.sheetID, t.tab)
		filename := filepath.Join(*outDir, fmt.Sprintf("%s_%s.json", t.name, stamp))
		if err := writeJSON(filename, table); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", filename, err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d rows -> %s\n", t.name, table.Len(), filename)
	}
}

func writeJSON(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
