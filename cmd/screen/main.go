// Command screen runs one screening batch from a CSV file and prints the
// verdicts as a table or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"

	"riskscreen/internal/app"
	"riskscreen/internal/intake"
	"riskscreen/internal/platform/config"
	"riskscreen/internal/platform/logger"
	"riskscreen/internal/platform/redis"
	"riskscreen/internal/screening"
	"riskscreen/internal/screening/metrics"
)

func main() {
	in := flag.String("in", "", "CSV file of transactions")
	asJSON := flag.Bool("json", false, "print verdicts as JSON")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: screen -in transactions.csv [-json]")
		os.Exit(2)
	}
	if err := run(*in, *asJSON, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
}

func run(path string, asJSON bool, out io.Writer) error {
	log := logger.NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rows, err := intake.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
	}

	svc, err := app.BuildService(cfg, rc, metrics.NewWithRegistry(prometheus.NewRegistry()), log)
	if err != nil {
		return err
	}
	verdicts, err := svc.Process(ctx, rows)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(verdicts)
	}
	renderTable(out, verdicts)
	return nil
}

func renderTable(out io.Writer, verdicts []screening.RiskVerdict) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Transaction", "Payer", "Receiver", "Types", "Risk", "Confidence", "Evidence", "Reason"})
	table.SetAutoWrapText(true)
	table.SetRowLine(true)
	for _, v := range verdicts {
		table.Append([]string{
			v.TransactionID,
			v.Entities[0],
			v.Entities[1],
			v.EntityTypes[0] + " / " + v.EntityTypes[1],
			fmt.Sprintf("%.2f", v.RiskScore),
			fmt.Sprintf("%.2f", v.ConfidenceScore),
			strings.Join(v.EvidenceSources, "; "),
			v.Rationale,
		})
	}
	table.Render()
}
