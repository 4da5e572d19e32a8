// Package browser opens Bluesky posts in the system web browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// WebURL is the Bluesky web app that post links point to.
const WebURL = "https://bsky.app"

const postCollection = "app.bsky.feed.post"

// PostURL converts a post AT-URI (at://<did>/app.bsky.feed.post/<rkey>)
// into its web link.
func PostURL(atURI string) (string, error) {
	rest, ok := strings.CutPrefix(atURI, "at://")
	if !ok {
		return "", fmt.Errorf("not an AT-URI: %q", atURI)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", fmt.Errorf("malformed post URI: %q", atURI)
	}
	if parts[1] != postCollection {
		return "", fmt.Errorf("not a post URI: %q", atURI)
	}
	return fmt.Sprintf("%s/profile/%s/post/%s", WebURL, url.PathEscape(parts[0]), url.PathEscape(parts[2])), nil
}

// Launcher starts the platform command that opens a URL.
type Launcher func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated by Open
}

// Browser opens validated web URLs.
type Browser struct {
	goos   string
	launch Launcher
}

// Option configures a Browser.
type Option func(*Browser)

// WithLauncher replaces the command launcher.
func WithLauncher(l Launcher) Option {
	return func(b *Browser) {
		b.launch = l
	}
}

// WithGOOS overrides the detected platform.
func WithGOOS(goos string) Option {
	return func(b *Browser) {
		b.goos = goos
	}
}

// New creates a Browser for the current platform.
func New(opts ...Option) *Browser {
	b := &Browser{goos: runtime.GOOS, launch: startCommand}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open opens the specified URL in the default browser. Only http and https
// URLs are passed to the system.
func (b *Browser) Open(urlString string) error {
	if strings.ContainsAny(urlString, " \t\r\n\x00;$`|&") {
		return errors.New("invalid URL: contains forbidden characters")
	}
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsedURL.Scheme)
	}

	switch b.goos {
	case "linux":
		return b.launch("xdg-open", urlString)
	case "darwin":
		return b.launch("open", urlString)
	case "windows":
		return b.launch("rundll32", "url.dll,FileProtocolHandler", urlString)
	default:
		return fmt.Errorf("unsupported platform: %s", b.goos)
	}
}
