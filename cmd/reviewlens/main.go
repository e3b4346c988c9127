// cmd/reviewlens/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/service"
	"github.com/reviewlens/reviewlens/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scrape":
		if len(os.Args) < 3 || strings.HasPrefix(os.Args[2], "--") {
			fmt.Fprintf(os.Stderr, "Error: URL required\n")
			fmt.Fprintf(os.Stderr, "Usage: reviewlens scrape <url> [flags]\n")
			os.Exit(1)
		}
		runScrape(os.Args[2], os.Args[3:])

	case "product":
		if len(os.Args) < 3 || strings.HasPrefix(os.Args[2], "--") {
			fmt.Fprintf(os.Stderr, "Error: product name required\n")
			fmt.Fprintf(os.Stderr, "Usage: reviewlens product <name> [flags]\n")
			os.Exit(1)
		}
		runProduct(os.Args[2], os.Args[3:])

	case "platforms":
		runPlatforms(os.Args[2:])

	case "version", "--version":
		fmt.Printf("reviewlens %s (built %s, commit %s)\n", version, buildTime, gitCommit)

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runScrape(url string, args []string) {
	svc, cleanup := buildService(args)
	defer cleanup()

	result, err := svc.ScrapeURL(signalContext(), service.URLRequest{
		URL:    url,
		Filter: filterFromArgs(args),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func runProduct(name string, args []string) {
	svc, cleanup := buildService(args)
	defer cleanup()

	var platforms []string
	if v := flagValue(args, "--platforms"); v != "" {
		platforms = splitList(v)
	}

	result, err := svc.ScrapeProduct(signalContext(), service.ProductRequest{
		Product:   name,
		Platforms: platforms,
		Filter:    filterFromArgs(args),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
	if !result.Success {
		os.Exit(1)
	}
}

func runPlatforms(args []string) {
	svc, cleanup := buildService(args)
	defer cleanup()

	fmt.Printf("%-14s %-20s %-8s %s\n", "NAME", "DOMAIN", "BROWSER", "SEARCHABLE")
	for _, p := range svc.Platforms() {
		fmt.Printf("%-14s %-20s %-8v %v\n", p.Name, p.Domain, p.RequiresBrowser, p.SearchURL != "")
	}
}

// buildService loads settings and assembles the pipeline for a CLI run.
func buildService(args []string) (*service.Service, func()) {
	settings := config.Default()
	if file := flagValue(args, "--config"); file != "" {
		loaded, err := config.LoadFromFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings = loaded
	}
	if hasFlag(args, "--browser") {
		settings.Scraper.EnableBrowser = true
	}
	if hasFlag(args, "--verbose") || hasFlag(args, "-v") {
		settings.LogLevel = "debug"
	}

	logger := utils.NewLoggerWithLevel(utils.ParseLevel(settings.LogLevel))
	svc, cleanup, err := service.Build(settings, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return svc, cleanup
}

// filterFromArgs builds the review filter from command line flags.
func filterFromArgs(args []string) analyzer.Filter {
	filter := analyzer.Filter{
		Sentiment: flagValue(args, "--sentiment"),
		SortBy:    flagValue(args, "--sort"),
	}
	if v := flagValue(args, "--keywords"); v != "" {
		filter.Keywords = splitList(v)
	}
	if v := flagValue(args, "--categories"); v != "" {
		filter.Categories = splitList(v)
	}
	if v := flagValue(args, "--min-rating"); v != "" {
		filter.MinRating = parseFloat(v, "--min-rating")
	}
	if v := flagValue(args, "--max-rating"); v != "" {
		filter.MaxRating = parseFloat(v, "--max-rating")
	}
	if v := flagValue(args, "--limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --limit must be an integer\n")
			os.Exit(1)
		}
		filter.Limit = n
	}
	return filter
}

func parseFloat(v, flag string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s must be a number\n", flag)
		os.Exit(1)
	}
	return f
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}

func flagValue(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, name+"=") {
			return strings.TrimPrefix(arg, name+"=")
		}
	}
	return ""
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	return ctx
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`reviewlens - product review extraction

Usage:
  reviewlens scrape <url> [flags]      Extract reviews from one page
  reviewlens product <name> [flags]    Search platforms for a product's reviews
  reviewlens platforms                 List supported platforms
  reviewlens version                   Print version information

Flags:
  --config <file>        YAML configuration file
  --platforms <list>     Comma-separated platforms for product search
  --keywords <list>      Comma-separated keywords to rank reviews by
  --categories <list>    Keep only reviews matching these categories
  --sentiment <value>    Keep only positive, negative or neutral reviews
  --min-rating <n>       Minimum star rating
  --max-rating <n>       Maximum star rating
  --sort <key>           Order results by relevance, rating, date or length
  --limit <n>            Maximum reviews in the result
  --browser              Enable the headless browser backend
  --verbose, -v          Debug logging
`)
}
