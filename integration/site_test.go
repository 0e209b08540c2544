//go:build integration
// +build integration

package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSite_E2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	c := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	body := get(t, c, baseURL+"/melons")
	if !strings.Contains(body, "Our Melons") {
		t.Fatalf("melon listing missing:\n%s", body)
	}

	// First melon id in the sample data set.
	resp, err := c.PostForm(baseURL+"/add_to_cart/mel-01", url.Values{})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: status=%d", resp.StatusCode)
	}
	if !strings.Contains(string(raw), "Melon successfully added to cart.") {
		t.Fatalf("missing confirmation flash:\n%s", string(raw))
	}

	body = get(t, c, baseURL+"/cart")
	if !strings.Contains(body, "Order Total") {
		t.Fatalf("cart page missing total:\n%s", body)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func get(t *testing.T, c *http.Client, url string) string {
	t.Helper()

	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status=%d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
