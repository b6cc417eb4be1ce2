//go:build integration

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/docker/docker/api/types/container"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/crawler"
)

// ChromeContainer wraps a testcontainers Chrome instance
type ChromeContainer struct {
	testcontainers.Container
	wsURL string
}

// setupChromeContainer starts a Chrome container with CDP exposed. The
// host gateway alias lets the containerized browser reach test servers
// running on the host.
func setupChromeContainer(ctx context.Context) (*ChromeContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "chromedp/headless-shell:latest",
		ExposedPorts: []string{"9222/tcp"},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.ExtraHosts = append(hc.ExtraHosts, "host.docker.internal:host-gateway")
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("DevTools listening").WithStartupTimeout(60*time.Second),
			wait.ForHTTP("/json/version").WithPort("9222/tcp").WithStartupTimeout(60*time.Second),
		),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	port, err := c.MappedPort(ctx, "9222")
	if err != nil {
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	versionURL := fmt.Sprintf("http://%s:%s/json/version", host, port.Port())
	wsURL, err := getWebSocketURL(versionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get WebSocket URL: %w", err)
	}

	return &ChromeContainer{
		Container: c,
		wsURL:     replaceHost(wsURL, host, port.Port()),
	}, nil
}

// getWebSocketURL fetches the DevTools WebSocket URL from Chrome
func getWebSocketURL(versionURL string) (string, error) {
	resp, err := http.Get(versionURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.WebSocketDebuggerURL, nil
}

// replaceHost replaces the container internal host with the external mapped host
func replaceHost(wsURL, host, port string) string {
	// Chrome returns ws://127.0.0.1:9222/devtools/browser/<uuid>; swap in
	// the mapped external host:port.
	idx := 0
	for i := len("ws://"); i < len(wsURL); i++ {
		if wsURL[i] == '/' {
			idx = i
			break
		}
	}
	if idx > 0 {
		return fmt.Sprintf("ws://%s:%s%s", host, port, wsURL[idx:])
	}
	return wsURL
}

// startFixtureServer serves a page that fires one fetch on load and one
// per End keypress, mimicking the web app's background GraphQL traffic.
func startFixtureServer(t *testing.T) (baseURL string) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html><body><script>
fetch('/api/data?page=1');
document.addEventListener('keydown', function (e) {
	if (e.key === 'End') { fetch('/api/data?page=2'); }
});
</script></body></html>`)
	})
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"page": %q}`, r.URL.Query().Get("page"))
	})

	ln, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	return "http://host.docker.internal:" + port
}

// responseLog collects intercepted responses with their bodies.
type responseLog struct {
	mu      sync.Mutex
	entries map[string]string
}

func (l *responseLog) record(url, body string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[url] = body
}

func (l *responseLog) get(suffix string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for url, body := range l.entries {
		if len(url) >= len(suffix) && url[len(url)-len(suffix):] == suffix {
			return body, true
		}
	}
	return "", false
}

func (l *responseLog) waitFor(t *testing.T, suffix string) string {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		if body, ok := l.get(suffix); ok {
			return body
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("no response matching %q intercepted", suffix)
	return ""
}

func TestIntegration_CDPPage_InterceptsResponsesAndKeys(t *testing.T) {
	ctx := context.Background()

	chrome, err := setupChromeContainer(ctx)
	if err != nil {
		t.Fatalf("failed to start chrome: %v", err)
	}
	defer chrome.Terminate(ctx)

	baseURL := startFixtureServer(t)

	allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, chrome.wsURL)
	defer cancel()
	tab, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	page, err := NewCDPPage(tab)
	if err != nil {
		t.Fatalf("failed to wrap tab: %v", err)
	}

	log := &responseLog{entries: map[string]string{}}
	var navigations []string
	var navMu sync.Mutex

	releaseResp := page.OnResponse(func(ev crawler.ResponseEvent) {
		body, err := ev.Body(ctx)
		if err != nil {
			return
		}
		log.record(ev.URL, string(body))
	})
	defer releaseResp()
	releaseNav := page.OnFrameNavigated(func(url string) {
		navMu.Lock()
		navigations = append(navigations, url)
		navMu.Unlock()
	})
	defer releaseNav()

	// Navigation fires the main-frame event and the page's initial fetch.
	if err := page.Navigate(ctx, baseURL+"/"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}

	body := log.waitFor(t, "/api/data?page=1")
	if body != `{"page": "1"}` {
		t.Errorf("page 1 body: got %q", body)
	}

	navMu.Lock()
	sawMainFrame := len(navigations) > 0
	navMu.Unlock()
	if !sawMainFrame {
		t.Error("expected a main-frame navigation event")
	}

	// The End key triggers the page's lazy-load fetch.
	if err := page.SendKey(ctx, crawler.KeyEnd); err != nil {
		t.Fatalf("send key failed: %v", err)
	}
	body = log.waitFor(t, "/api/data?page=2")
	if body != `{"page": "2"}` {
		t.Errorf("page 2 body: got %q", body)
	}
}

func TestIntegration_CDPPage_ReleasedListenerStopsFiring(t *testing.T) {
	ctx := context.Background()

	chrome, err := setupChromeContainer(ctx)
	if err != nil {
		t.Fatalf("failed to start chrome: %v", err)
	}
	defer chrome.Terminate(ctx)

	baseURL := startFixtureServer(t)

	allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, chrome.wsURL)
	defer cancel()
	tab, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	page, err := NewCDPPage(tab)
	if err != nil {
		t.Fatalf("failed to wrap tab: %v", err)
	}

	log := &responseLog{entries: map[string]string{}}
	release := page.OnResponse(func(ev crawler.ResponseEvent) {
		log.record(ev.URL, "")
	})
	release()

	if err := page.Navigate(ctx, baseURL+"/"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	time.Sleep(2 * time.Second)

	if _, ok := log.get("/api/data?page=1"); ok {
		t.Error("released listener still observed a response")
	}
}
