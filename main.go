package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domainscout/domainscout/checker"
	"github.com/domainscout/domainscout/config"
	"github.com/domainscout/domainscout/handle_resources"
	"github.com/domainscout/domainscout/mcp_tools"
	"github.com/domainscout/domainscout/utils"
)

// domainRe matches plausible domain names: dot-separated alphanumeric
// labels without leading or trailing dashes, ending in a TLD of at least
// two letters.
var domainRe = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// isDomain function is used to check if the given resource looks like a domain name.
func isDomain(resource string) bool {
	return domainRe.MatchString(resource)
}

func handler(w http.ResponseWriter, r *http.Request) {
	if len(config.ConcurrencyLimiter) == config.RateLimit {
		log.Printf("Rate limit reached, waiting for a slot to become available...\n")
	}
	config.ConcurrencyLimiter <- struct{}{}
	config.Wg.Add(1)
	defer func() {
		config.Wg.Done()
		<-config.ConcurrencyLimiter
	}()

	ctx := r.Context()
	resource := strings.TrimPrefix(r.URL.Path, "/")
	resource = strings.TrimPrefix(resource, "check/")
	resource = strings.ToLower(resource)

	if !isDomain(resource) {
		utils.HandleHTTPError(w, utils.ErrorTypeBadRequest, "Not a valid domain name: "+resource)
		return
	}

	handle_resources.HandleCheck(ctx, w, r, resource, "check:")
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handle_resources.HandleHealth)
	mux.HandleFunc("/ready", handle_resources.HandleReady)
	mux.HandleFunc("/info", handle_resources.HandleInfo)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/mcp", mcp_tools.NewHTTPHandler(checker.New(config.HttpClient)))
	mux.HandleFunc("/", handler)

	go func() {
		fmt.Printf("Server is listening on port %d...\n", config.Port)
		err := http.ListenAndServe(fmt.Sprintf(":%d", config.Port), mux)
		if err != nil {
			fmt.Println("Server failed to start:", err)
			os.Exit(1)
		}
	}()

	// Add a signal listener. When a shutdown signal is received, wait for all
	// in-flight checks to complete before shutting down the server.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Received shutdown signal, waiting for all checks to complete...")
	config.Wg.Wait()

	log.Println("All checks completed. Shutting down server...")
	config.RedisClient.Close()
	os.Exit(0)
}
