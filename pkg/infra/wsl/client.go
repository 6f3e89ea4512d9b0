package wsl

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/interfaces"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/types"
)

// DefaultCommand is the WSL command-line tool invoked for all
// subsystem operations.
const DefaultCommand = "wsl.exe"

// config holds internal client configuration
type config struct {
	wslPath string
	appData string
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithPath sets the path of the WSL executable
func WithPath(path string) Option {
	return func(c *config) {
		c.wslPath = path
	}
}

// WithAppData sets the local application data directory searched for
// distribution backing storage
func WithAppData(dir string) Option {
	return func(c *config) {
		c.appData = dir
	}
}

// Client talks to the host WSL subsystem through wsl.exe
type Client struct {
	cfg config
}

// NewClient creates a new WSL subsystem client
func NewClient(opts ...Option) *Client {
	cfg := config{
		wslPath: DefaultCommand,
		appData: os.Getenv("LOCALAPPDATA"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{cfg: cfg}
}

var _ interfaces.Manager = (*Client)(nil)

// ListDistributions returns the names of all installed distributions
func (c *Client) ListDistributions(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, c.cfg.wslPath, "--list", "--quiet").Output()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list distributions",
			goerr.V("command", c.cfg.wslPath), goerr.T(types.TagEnvironment))
	}

	return ParseDistributionList(out), nil
}

// Terminate stops the given distribution so its filesystem is quiesced
func (c *Client) Terminate(ctx context.Context, distribution string) error {
	out, err := exec.CommandContext(ctx, c.cfg.wslPath, "--terminate", distribution).CombinedOutput()
	if err != nil {
		return goerr.Wrap(err, "failed to terminate distribution",
			goerr.V("distribution", distribution),
			goerr.V("output", string(DecodeConsoleOutput(out))),
			goerr.T(types.TagEnvironment))
	}

	ctxlog.From(ctx).Debug("Terminated distribution", "distribution", distribution)
	return nil
}

// StoragePath resolves the backing ext4.vhdx of the given distribution
// by searching the per-package LocalState directories. This is a
// best-effort lookup: callers must tolerate failure.
func (c *Client) StoragePath(ctx context.Context, distribution string) (string, error) {
	if c.cfg.appData == "" {
		return "", goerr.New("local application data directory is not set")
	}

	pattern := filepath.Join(c.cfg.appData, "Packages", "*", "LocalState", "ext4.vhdx")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", goerr.Wrap(err, "failed to scan package directories", goerr.V("pattern", pattern))
	}

	want := normalizeName(distribution)
	var fallback string
	for _, m := range matches {
		pkgDir := filepath.Base(filepath.Dir(filepath.Dir(m)))
		if strings.Contains(normalizeName(pkgDir), want) {
			return m, nil
		}
		fallback = m
	}

	// A single installed distribution is unambiguous even without a
	// package name match
	if len(matches) == 1 {
		return fallback, nil
	}

	return "", goerr.New("no backing storage found for distribution",
		goerr.V("distribution", distribution), goerr.V("candidates", len(matches)))
}

// normalizeName lowercases a name and strips everything outside [a-z0-9]
// so that package directory names (e.g. CanonicalGroupLimited.Ubuntu22.04LTS_...)
// can be matched against distribution names (e.g. Ubuntu-22.04).
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseDistributionList parses the raw output of `wsl.exe --list --quiet`
// into distribution names.
func ParseDistributionList(raw []byte) []string {
	decoded := DecodeConsoleOutput(raw)

	var names []string
	for _, line := range strings.Split(string(decoded), "\n") {
		name := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// DecodeConsoleOutput converts wsl.exe output to UTF-8. wsl.exe writes
// UTF-16LE when attached to a pipe; the NUL-byte check keeps plain
// UTF-8 output (already-decoded or non-Windows stand-ins) intact.
func DecodeConsoleOutput(raw []byte) []byte {
	if !bytes.ContainsRune(raw, 0) {
		return raw
	}

	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	decoded, err := decoder.Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}
