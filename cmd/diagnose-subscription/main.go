package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/subscription_diagnostics/config"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/diagnostics"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/models"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/utils"
)

func main() {
	subscriptionID := flag.Int("subscription-id", 0, "Subscription to diagnose (required)")
	timeout := flag.Duration("timeout", 30*time.Second, "Wall-clock budget for the run")
	pretty := flag.Bool("pretty", true, "Indent the JSON output")
	anomaliesOnly := flag.Bool("anomalies-only", false, "Run the targeted anomaly scans instead of the full timeline")
	flag.Parse()

	if *subscriptionID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: diagnose-subscription -subscription-id <id> [-timeout 30s] [-anomalies-only]")
		os.Exit(2)
	}

	ctx := context.Background()
	ctx = utils.SetCorrelationIdInContext(ctx, utils.CorrelationIdFromContextOrNew(ctx))
	ctx = utils.SetActorInContext(ctx, "DiagnoseSubscription")

	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	// Redis only backs the site-option cache; skip it unless configured.
	if strings.TrimSpace(os.Getenv("REDIS_ADDRESS")) != "" {
		config.ConnectRedisWithRetry()
	}

	store := models.NewDiagStore(db, config.GetLogger())

	settings := diagnostics.DefaultSettings()
	settings.AnalysisTimeout = *timeout
	settings.EnvironmentSignals = !config.EnvironmentSignalChecksDisabled()

	engine, err := diagnostics.NewEngine(store, store, store, settings, config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build engine: %v\n", err)
		os.Exit(1)
	}

	var result any
	if *anomaliesOnly {
		result, err = engine.DetectAnomalies(ctx, *subscriptionID)
	} else {
		result, err = engine.BuildTimeline(ctx, *subscriptionID)
	}
	if err != nil {
		if errors.Is(err, diagnostics.ErrSubscriptionNotFound) {
			fmt.Fprintf(os.Stderr, "subscription %d not found\n", *subscriptionID)
		} else {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		}
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
}
