//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "foxnuts-farm-api"
	ConsumerName = "storefront-web"

	StateCatalogSeeded   = "the snacks catalog is seeded"
	StateProductMissing  = "no product with slug ghost-makhana"
	StateNewsletterEmpty = "nobody is subscribed to the newsletter"
)

const (
	ExistingSlug   = "classic-makhana"
	MissingSlug    = "ghost-makhana"
	SeedCategory   = "snacks"
	SubscriberMail = "pact.reader@example.com"
)

// ExampleProductPayload is the product the provider seeds for catalog states.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":            "7d4cf0a2-58f1-4c1e-9d43-2b0f7f6b1a10",
		"name":          "Classic Makhana",
		"slug":          ExistingSlug,
		"description":   "Slow roasted fox nuts with rock salt",
		"price":         12.5,
		"images":        []string{"https://cdn.foxnuts.example/classic.png"},
		"category":      SeedCategory,
		"tags":          []string{"salted"},
		"stock":         40,
		"averageRating": 0,
		"totalReviews":  0,
		"isActive":      true,
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
