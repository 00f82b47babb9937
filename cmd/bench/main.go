package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type ack struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	Status  string `json:"status"`
}

func main() {
	var (
		target      = flag.String("url", "http://localhost:8081", "Mock server base URL")
		path        = flag.String("path", "/bench?x=1", "Request target to send")
		method      = flag.String("method", http.MethodGet, "HTTP method")
		concurrency = flag.Int("concurrency", 50, "Number of concurrent workers")
		requests    = flag.Int("requests", 10000, "Total number of requests")
		timeout     = flag.Duration("timeout", 2*time.Second, "Per-request timeout")
	)
	flag.Parse()

	conc := max(*concurrency, 1)
	total := max(*requests, 1)
	per := total / conc
	rem := total % conc
	url := strings.TrimRight(*target, "/") + *path

	client := &http.Client{
		Timeout: *timeout,
		Transport: &http.Transport{
			MaxIdleConns:        conc,
			MaxIdleConnsPerHost: conc,
		},
	}

	lat := make([]float64, 0, total)
	var latMu sync.Mutex
	var mismatches atomic.Int64

	t0 := time.Now()
	var wg sync.WaitGroup
	for i := range conc {
		n := per
		if i < rem {
			n++
		}
		if n <= 0 {
			continue
		}
		wg.Go(func() {
			for range n {
				start := time.Now()
				ok, err := doOne(client, *method, url, *path)
				if err != nil {
					continue
				}
				if !ok {
					mismatches.Add(1)
				}
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				latMu.Lock()
				lat = append(lat, ms)
				latMu.Unlock()
			}
		})
	}
	wg.Wait()
	elapsed := time.Since(t0).Seconds()

	if len(lat) == 0 {
		fmt.Printf("no successful requests\n")
		os.Exit(1)
	}
	sort.Float64s(lat)
	rps := float64(len(lat)) / elapsed

	fmt.Printf("url=%s method=%s concurrency=%d requests=%d mismatches=%d\n", url, *method, conc, len(lat), mismatches.Load())
	fmt.Printf("elapsed_s=%.3f rps=%.1f\n", elapsed, rps)
	fmt.Printf("latency_ms p50=%.3f p95=%.3f p99=%.3f min=%.3f max=%.3f\n",
		percentile(lat, 50), percentile(lat, 95), percentile(lat, 99), lat[0], lat[len(lat)-1])
	if mismatches.Load() > 0 {
		os.Exit(1)
	}
}

// doOne sends a request and reports whether the reply is the expected acknowledgment.
func doOne(client *http.Client, method, url, wantPath string) (bool, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/json" {
		return false, nil
	}
	var a ack
	if err := json.Unmarshal(body, &a); err != nil {
		return false, nil
	}
	return a.Path == wantPath && a.Status == "ok", nil
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted))*float64(p)/100.0) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
