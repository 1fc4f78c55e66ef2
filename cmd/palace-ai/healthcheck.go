package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GharsallahDev/memory-palace/internal/api"
	"github.com/GharsallahDev/memory-palace/internal/health"
)

func runHealthcheck(baseURL string, allowDegraded bool, out io.Writer) error {
	var body api.HealthResponse
	resp, err := resty.New().
		SetTimeout(5*time.Second).
		R().
		SetResult(&body).
		Get(strings.TrimRight(baseURL, "/") + "/health")
	if err != nil {
		return fmt.Errorf("probe %s: %w", baseURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}

	names := make([]string, 0, len(body.Services))
	for name := range body.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "status: %s (version %s)\n", body.Status, body.Version)
	var down []string
	for _, name := range names {
		state := "ready"
		if !body.Services[name] {
			state = "not ready"
			down = append(down, name)
		}
		fmt.Fprintf(out, "  %-20s %s\n", name, state)
	}

	if body.Status != health.StatusHealthy && !allowDegraded {
		return fmt.Errorf("service degraded: %s", strings.Join(down, ", "))
	}
	return nil
}
