package wsl_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"golang.org/x/text/encoding/unicode"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
	"github.com/braxton-mills/WSLDistributionTools/pkg/infra/wsl"
)

func utf16le(t *testing.T, s string) []byte {
	t.Helper()
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	gt.NoError(t, err)
	return encoded
}

func TestParseDistributionList(t *testing.T) {
	t.Run("decodes UTF-16LE output", func(t *testing.T) {
		raw := utf16le(t, "Ubuntu-22.04\r\nDebian\r\n\r\n")
		gt.Array(t, wsl.ParseDistributionList(raw)).Equal([]string{"Ubuntu-22.04", "Debian"})
	})

	t.Run("passes plain UTF-8 output through", func(t *testing.T) {
		raw := []byte("Ubuntu\nAlpine\n")
		gt.Array(t, wsl.ParseDistributionList(raw)).Equal([]string{"Ubuntu", "Alpine"})
	})

	t.Run("empty output yields no names", func(t *testing.T) {
		gt.Number(t, len(wsl.ParseDistributionList(nil))).Equal(0)
	})
}

func TestDecodeConsoleOutput(t *testing.T) {
	t.Run("round-trips UTF-16LE", func(t *testing.T) {
		raw := utf16le(t, "Access is denied.")
		gt.Value(t, string(wsl.DecodeConsoleOutput(raw))).Equal("Access is denied.")
	})

	t.Run("leaves NUL-free bytes untouched", func(t *testing.T) {
		gt.Value(t, string(wsl.DecodeConsoleOutput([]byte("plain text")))).Equal("plain text")
	})
}

func TestClient_StoragePath(t *testing.T) {
	newAppData := func(t *testing.T, packages ...string) string {
		t.Helper()
		appData := t.TempDir()
		for _, pkg := range packages {
			dir := filepath.Join(appData, "Packages", pkg, "LocalState")
			gt.NoError(t, os.MkdirAll(dir, 0755))
			gt.NoError(t, os.WriteFile(filepath.Join(dir, "ext4.vhdx"), []byte("vhdx"), 0600))
		}
		return appData
	}

	t.Run("matches the package directory by name", func(t *testing.T) {
		appData := newAppData(t,
			"CanonicalGroupLimited.Ubuntu22.04LTS_79rhkp1fndgsc",
			"TheDebianProject.DebianGNULinux_76v4gfsz19hv4",
		)
		client := wsl.NewClient(wsl.WithAppData(appData))

		path, err := client.StoragePath(context.Background(), "Ubuntu-22.04")
		gt.NoError(t, err)
		gt.True(t, strings.Contains(path, "Ubuntu22.04"))
		gt.True(t, strings.HasSuffix(path, "ext4.vhdx"))
	})

	t.Run("single candidate wins without a name match", func(t *testing.T) {
		appData := newAppData(t, "SomeVendor.SomeDistro_1234")
		client := wsl.NewClient(wsl.WithAppData(appData))

		path, err := client.StoragePath(context.Background(), "custom")
		gt.NoError(t, err)
		gt.True(t, strings.HasSuffix(path, "ext4.vhdx"))
	})

	t.Run("ambiguous candidates fail", func(t *testing.T) {
		appData := newAppData(t, "VendorA.DistroA_1", "VendorB.DistroB_2")
		client := wsl.NewClient(wsl.WithAppData(appData))

		_, err := client.StoragePath(context.Background(), "unrelated")
		gt.Error(t, err)
	})

	t.Run("unset app data directory fails", func(t *testing.T) {
		client := wsl.NewClient(wsl.WithAppData(""))

		_, err := client.StoragePath(context.Background(), "demo")
		gt.Error(t, err)
	})
}

func TestExporter_Start_LaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-wsl.exe")
	exporter := wsl.NewExporter(wsl.WithPath(missing))

	_, err := exporter.Start(context.Background(), &model.ExportRequest{
		Distribution: "demo",
		DestPath:     filepath.Join(t.TempDir(), "demo.tar"),
	})
	gt.Error(t, err)
}

func TestExporter_Start_ObservesExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX stand-in for wsl.exe")
	}

	// 'true' ignores the export arguments and exits 0 immediately
	exporter := wsl.NewExporter(wsl.WithPath("true"))

	proc, err := exporter.Start(context.Background(), &model.ExportRequest{
		Distribution: "demo",
		DestPath:     filepath.Join(t.TempDir(), "demo.tar"),
	})
	gt.NoError(t, err)

	deadline := time.After(5 * time.Second)
	for {
		if exited, code := proc.Exited(); exited {
			gt.Number(t, code).Equal(0)
			return
		}
		select {
		case <-deadline:
			t.Fatal("process did not exit within timeout")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
