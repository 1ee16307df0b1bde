// Package snapshot captures PNG screenshots of a running dashboard with a
// headless browser, one image per tab.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"loan-dashboard/config"
	"loan-dashboard/utils"
)

// DefaultTabs are captured when none are given.
var DefaultTabs = []string{"single", "batch", "analytics"}

// Capturer drives headless Chrome against the dashboard.
type Capturer struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig

	Width, Height int
	Settle        time.Duration
}

func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	logger = logger.With("snapshot")
	return &Capturer{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		Width:  1280,
		Height: 900,
		Settle: 2 * time.Second,
	}
}

// Capture screenshots each tab of the dashboard at baseURL into outDir and
// returns the written paths in tab order.
func (c *Capturer) Capture(ctx context.Context, baseURL, outDir string, tabs []string) ([]string, error) {
	if len(tabs) == 0 {
		tabs = DefaultTabs
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := findChromeBinary(c.cfg.ChromeBin)
	c.logger.Info("Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(c.Width, c.Height),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	paths := make([]string, len(tabs))
	var mu sync.Mutex
	for i, tab := range tabs {
		i, tab := i, tab
		c.pool.Submit(func() error {
			target, err := tabURL(baseURL, tab)
			if err != nil {
				return err
			}
			out := filepath.Join(outDir, fileName(tab))
			if err := c.captureOne(browserCtx, target, out); err != nil {
				c.logger.Error("Capture of %s failed: %v", tab, err)
				return err
			}
			c.logger.Info("Saved %s", out)
			mu.Lock()
			paths[i] = out
			mu.Unlock()
			return nil
		})
	}
	if err := c.pool.Wait(); err != nil {
		return paths, fmt.Errorf("snapshot: %w", err)
	}
	return paths, nil
}

func (c *Capturer) captureOne(browserCtx context.Context, target, out string) error {
	return c.retry.Do(browserCtx, "capture "+target, func(context.Context) error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		var buf []byte
		if err := chromedp.Run(ctx,
			chromedp.Navigate(target),
			chromedp.WaitVisible("main", chromedp.ByQuery),
			chromedp.Sleep(c.Settle),
			chromedp.FullScreenshot(&buf, 100),
		); err != nil {
			return err
		}
		return os.WriteFile(out, buf, 0644)
	})
}

func tabURL(baseURL, tab string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("snapshot: invalid url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("snapshot: invalid url %q: scheme and host required", baseURL)
	}
	u.Path = "/"
	u.RawQuery = url.Values{"tab": {tab}}.Encode()
	return u.String(), nil
}

func fileName(tab string) string {
	return "dashboard_" + tab + ".png"
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
