// Command diagnose probes every configured data source and prints the
// results as a table. Exit code 1 if any source fails its probe.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/david/vetting-hub/internal/sources"
)

func main() {
	_ = godotenv.Load()

	reg, err := sources.LoadRegistry(os.Getenv("SOURCES_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load sources config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	adapters := map[sources.SourceKey]sources.DataSource{
		sources.SourceSenate:    sources.NewSenateSource(reg.Senate, reg.HTTP, nil, false),
		sources.SourceNYC:       sources.NewNYCSource(reg.NYC, reg.HTTP, nil, false),
		sources.SourceCheckbook: sources.NewCheckbookSource(reg.Checkbook, reg.HTTP, nil, false),
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Key", "Source", "Level", "Status", "Message"})

	failed := false
	for _, key := range []sources.SourceKey{sources.SourceSenate, sources.SourceNYC, sources.SourceCheckbook} {
		src := adapters[key]
		status := src.TestConnection(ctx)
		msg := status.Message
		if status.Error != "" {
			msg = msg + " (" + status.Error + ")"
		}
		t.AppendRow(table.Row{key, src.Name(), src.GovernmentLevel(), status.Status, msg})
		if !status.OK() {
			failed = true
		}
	}
	t.Render()

	if failed {
		os.Exit(1)
	}
}
