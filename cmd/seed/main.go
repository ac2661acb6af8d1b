package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gameshelf/backend/internal/config"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/ingestion"
)

func init() {
	config.LoadConfig()
}

// Feeds a dump of externally fetched candidate records through the ingestion
// gate and upserts the survivors. The dump is a JSON array in the mapped
// record shape the fetch job produces.
func main() {
	file := flag.String("file", "games.json", "path to the candidate dump")
	flag.Parse()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	var records []ingestion.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}

	database.Connect(config.AppConfig.DatabaseURL)

	ctx := context.Background()
	rejected := map[ingestion.RejectReason]int{}
	ingested := 0

	for _, rec := range records {
		decision := ingestion.ShouldIngest(rec.Candidate, nil)
		if !decision.Allowed {
			rejected[decision.Reason]++
			continue
		}
		if err := ingestion.Upsert(ctx, database.DB, rec); err != nil {
			log.Fatalf("Failed to upsert rawgId=%d: %v", rec.RawgID, err)
		}
		ingested++
	}

	fmt.Printf("Ingested %d/%d records\n", ingested, len(records))
	for reason, count := range rejected {
		fmt.Printf("  rejected %s: %d\n", reason, count)
	}
}
