package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"inzite-research-be/internal/config"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	baseURL := flag.String("api", cfg.App.BaseURL+"/api", "research API base URL")
	userID := flag.String("user", "", "owner of the research session")
	token := flag.String("token", "", "bearer token")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		color.Red("usage: poller [flags] <startup idea>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &client{
		baseURL: strings.TrimRight(*baseURL, "/"),
		token:   *token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}

	color.Cyan("Starting research: %s", query)
	sessionID, err := c.start(ctx, query, *userID)
	if err != nil {
		color.Red("Failed to start: %v", err)
		os.Exit(1)
	}
	color.Green("Session: %s", sessionID)

	p := poller{
		client:      c,
		interval:    cfg.Workflow.PollInterval,
		maxAttempts: cfg.Workflow.PollMaxAttempts,
		onStep: func(step string) {
			color.Yellow("  %s", step)
		},
	}

	res, err := p.run(ctx, sessionID)
	switch {
	case err != nil:
		color.Red("Polling failed: %v", err)
		os.Exit(1)
	case res.TimedOut:
		color.Yellow(timeoutMessage)
	case res.Status == "failed":
		color.Red("Research failed: %s", res.Error)
		os.Exit(1)
	default:
		color.Green("Research completed, report %d", res.ResultID)
		report, err := c.report(ctx, res.ResultID, *userID)
		if err != nil {
			color.Red("Could not load report: %v", err)
			os.Exit(1)
		}
		fmt.Println(report)
	}
}
