package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"gopkg.in/yaml.v3"

	"github.com/Nicoretti/usb-info/pkg/config"
	"github.com/Nicoretti/usb-info/pkg/enumerate"
	"github.com/Nicoretti/usb-info/pkg/render"
	"github.com/Nicoretti/usb-info/pkg/snapshot"
	"github.com/Nicoretti/usb-info/pkg/usb"
)

func testRecords() []usb.Record {
	return []usb.Record{
		{Path: usb.MustPath(1), VendorID: 0x1d6b, ProductID: 0x0002, Manufacturer: "Linux Foundation", Product: "2.0 root hub", IsHub: true},
		{Path: usb.MustPath(1, 1), VendorID: 0x05e3, ProductID: 0x0610, Manufacturer: "Genesys Logic", Product: "Hub", IsHub: true},
		{Path: usb.MustPath(1, 1, 4), VendorID: 0x046d, ProductID: 0xc52b, Manufacturer: "Logitech", Product: "USB Receiver", Address: 5, Speed: usb.SpeedFull},
		{Path: usb.MustPath(1, 3), VendorID: 0x0781, ProductID: 0x5583, Manufacturer: "SanDisk", Product: "Ultra Fit", Serial: "4C53"},
		{Path: usb.MustPath(2, 2, 1), VendorID: 0x046d, ProductID: 0xc52b, Manufacturer: "Logitech", Product: "USB Receiver"},
	}
}

// isolate points the per-user config lookup at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "")
}

// writeSnapshot stores testRecords in a snapshot file and returns its path.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.usbsnap")
	if err := snapshot.WriteFile(path, snapshot.New("sysfs", testRecords())); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// useEnumerator replaces the backend for the duration of the test.
func useEnumerator(t *testing.T, e enumerate.Enumerator) {
	t.Helper()
	orig := openEnumerator
	openEnumerator = func(config.Config, *slog.Logger) enumerate.Enumerator { return e }
	t.Cleanup(func() { openEnumerator = orig })
}

func runShow(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := RunShow(args, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunShow_FullTree(t *testing.T) {
	isolate(t)
	code, out, errOut := runShow(t, "-snapshot", writeSnapshot(t))

	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, errOut)
	}

	want := strings.Join([]string{
		"USB devices: 5 devices on 2 buses",
		"Bus 001  1d6b:0002  Linux Foundation 2.0 root hub",
		"├── 1-1  05e3:0610  Genesys Logic Hub",
		"│   └── 1-1.4  046d:c52b  Logitech USB Receiver",
		"└── 1-3  0781:5583  SanDisk Ultra Fit",
		"",
		"Bus 002  [hub]",
		"└── 2-2  [hub]",
		"    └── 2-2.1  046d:c52b  Logitech USB Receiver",
		"",
	}, "\n")
	if out != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunShow_Subtree(t *testing.T) {
	isolate(t)
	code, out, _ := runShow(t, "-snapshot", writeSnapshot(t), "-subtree", "1-1", "-no-header")

	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}
	want := "1-1  05e3:0610  Genesys Logic Hub\n└── 1-1.4  046d:c52b  Logitech USB Receiver\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunShow_SubtreeNotFound(t *testing.T) {
	isolate(t)
	code, out, errOut := runShow(t, "-snapshot", writeSnapshot(t), "-subtree", "1-3.9")

	if code != exitNotFound {
		t.Errorf("expected exit code %d, got %d", exitNotFound, code)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
	if !strings.Contains(errOut, "not found") {
		t.Errorf("expected 'not found' in stderr, got %q", errOut)
	}
}

func TestRunShow_InvalidSubtree(t *testing.T) {
	isolate(t)
	m := enumerate.NewMockEnumerator(t)
	useEnumerator(t, m)

	code, _, errOut := runShow(t, "-subtree", "1-3.")
	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(errOut, "invalid device path") {
		t.Errorf("expected invalid path message, got %q", errOut)
	}
	// The mock has no expectations: the backend must not be touched.
}

func TestRunShow_DeviceFilter(t *testing.T) {
	isolate(t)
	code, out, _ := runShow(t, "-snapshot", writeSnapshot(t), "-device", "0781:5583", "-device", "ffff:0001", "-no-header")

	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}
	want := "Bus 001  1d6b:0002  Linux Foundation 2.0 root hub\n└── 1-3  0781:5583  SanDisk Ultra Fit\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunShow_EmptyFilterResultSucceeds(t *testing.T) {
	isolate(t)
	code, out, _ := runShow(t, "-snapshot", writeSnapshot(t), "-device", "ffff:ffff")

	if code != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, code)
	}
	if out != "USB devices: 0 devices on 0 buses\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunShow_InvalidDevice(t *testing.T) {
	isolate(t)
	code, _, _ := runShow(t, "-device", "logitech")
	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
}

func TestRunShow_BackendError(t *testing.T) {
	isolate(t)
	m := enumerate.NewMockEnumerator(t)
	m.EXPECT().Enumerate(mock.Anything).
		Return(nil, &enumerate.BackendError{Backend: "sysfs", Err: errors.New("permission denied")}).Once()
	useEnumerator(t, m)

	code, _, errOut := runShow(t)
	if code != exitBackend {
		t.Errorf("expected exit code %d, got %d", exitBackend, code)
	}
	if !strings.Contains(errOut, "sysfs: permission denied") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunShow_DuplicatePathFromBackend(t *testing.T) {
	isolate(t)
	recs := testRecords()
	useEnumerator(t, enumerate.Static{Records: append(recs, recs[0])})

	code, _, _ := runShow(t)
	if code != exitBackend {
		t.Errorf("expected exit code %d, got %d", exitBackend, code)
	}
}

func TestRunShow_MissingSnapshot(t *testing.T) {
	isolate(t)
	code, _, _ := runShow(t, "-snapshot", filepath.Join(t.TempDir(), "nope.usbsnap"))
	if code != exitBackend {
		t.Errorf("expected exit code %d, got %d", exitBackend, code)
	}
}

func TestRunShow_StyleFlags(t *testing.T) {
	isolate(t)
	snap := writeSnapshot(t)

	_, out, _ := runShow(t, "-snapshot", snap, "-ascii", "-no-header", "-subtree", "1")
	if !strings.Contains(out, "|-- 1-1  05e3:0610") || !strings.Contains(out, "`-- 1-3  0781:5583") {
		t.Errorf("expected ASCII connectors, got:\n%s", out)
	}

	_, out, _ = runShow(t, "-snapshot", snap, "-color", "always")
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI colors with -color always")
	}

	_, out, _ = runShow(t, "-snapshot", snap, "-color", "always", "-no-color")
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected -no-color to win")
	}

	_, out, _ = runShow(t, "-snapshot", snap, "-verbose", "-subtree", "1-1.4")
	if !strings.Contains(out, "[addr 5, 12 Mbps]") {
		t.Errorf("expected verbose details, got:\n%s", out)
	}
}

func TestRunShow_JSON(t *testing.T) {
	isolate(t)
	code, out, _ := runShow(t, "-snapshot", writeSnapshot(t), "-format", "json")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}

	var doc render.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Devices != 5 || len(doc.Roots) != 2 {
		t.Errorf("unexpected document %+v", doc)
	}
	if !doc.Roots[1].Placeholder || doc.Roots[1].Children[0].Children[0].ID != "046d:c52b" {
		t.Errorf("unexpected bus 2 content %+v", doc.Roots[1])
	}
}

func TestRunShow_YAML(t *testing.T) {
	isolate(t)
	code, out, _ := runShow(t, "-snapshot", writeSnapshot(t), "-format", "yaml", "-subtree", "1-3")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}

	var doc render.Document
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc.Devices != 1 || doc.Roots[0].Serial != "4C53" {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestRunShow_ConfigFile(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "usbtree.yaml")
	content := "header: false\nglyphs: ascii\ndevices: [\"0781:5583\"]\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	snap := writeSnapshot(t)

	_, out, _ := runShow(t, "-config", cfgPath, "-snapshot", snap)
	want := "Bus 001  1d6b:0002  Linux Foundation 2.0 root hub\n`-- 1-3  0781:5583  SanDisk Ultra Fit\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}

	// Flags override the file.
	_, out, _ = runShow(t, "-config", cfgPath, "-snapshot", snap, "-device", "046d:c52b")
	if strings.Contains(out, "0781:5583") || !strings.Contains(out, "2-2.1  046d:c52b") {
		t.Errorf("expected -device to replace the configured filter, got:\n%s", out)
	}
}

func TestRunShow_BadConfig(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "usbtree.yaml")
	if err := os.WriteFile(cfgPath, []byte("colour: never\n"), 0644); err != nil {
		t.Fatal(err)
	}

	code, _, errOut := runShow(t, "-config", cfgPath)
	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(errOut, cfgPath) {
		t.Errorf("expected config path in error, got %q", errOut)
	}
}

func TestRunShow_UnexpectedArgument(t *testing.T) {
	isolate(t)
	code, _, errOut := runShow(t, "extra")
	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(errOut, `unexpected argument "extra"`) {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunIDs(t *testing.T) {
	isolate(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := RunIDs([]string{"-snapshot", writeSnapshot(t)}, stdout, stderr)
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	wantPaths := []string{"1", "1-1", "1-1.4", "1-3", "2-2.1"}
	if len(lines) != len(wantPaths) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(wantPaths), len(lines), stdout)
	}
	for i, p := range wantPaths {
		if got := strings.Fields(lines[i])[0]; got != p {
			t.Errorf("line %d: path %q, want %q", i, got, p)
		}
	}
	if !strings.Contains(lines[2], "046d:c52b  Logitech USB Receiver") {
		t.Errorf("unexpected line %q", lines[2])
	}
}

func TestRunIDs_JSON(t *testing.T) {
	isolate(t)
	stdout := &bytes.Buffer{}

	code := RunIDs([]string{"-snapshot", writeSnapshot(t), "-format", "json", "-device", "046d:c52b"}, stdout, &bytes.Buffer{})
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}

	var entries []IDEntry
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	// Ancestors kept by the filter are listed too.
	want := []string{"1", "1-1", "1-1.4", "2-2.1"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Path != want[i] {
			t.Errorf("entry %d: %q, want %q", i, e.Path, want[i])
		}
	}
}

func TestRunSnapshot(t *testing.T) {
	isolate(t)
	useEnumerator(t, enumerate.Static{Records: testRecords()})
	out := filepath.Join(t.TempDir(), "capture.usbsnap")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := RunSnapshot([]string{"-o", out}, stdout, stderr)
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	if !strings.Contains(stdout.String(), "Wrote 5 devices to "+out) {
		t.Errorf("unexpected output %q", stdout)
	}

	snap, err := snapshot.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if snap.Backend != config.BackendSysfs || len(snap.Devices) != 5 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	// The capture replays to the same tree.
	_, replay, _ := runShow(t, "-snapshot", out, "-no-header", "-subtree", "1-1")
	if replay != "1-1  05e3:0610  Genesys Logic Hub\n└── 1-1.4  046d:c52b  Logitech USB Receiver\n" {
		t.Errorf("unexpected replay:\n%s", replay)
	}
}

func TestRunSnapshot_NoOutput(t *testing.T) {
	isolate(t)
	stderr := &bytes.Buffer{}
	code := RunSnapshot(nil, &bytes.Buffer{}, stderr)
	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(stderr.String(), "no output file specified") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunSnapshot_BackendError(t *testing.T) {
	isolate(t)
	useEnumerator(t, &enumerate.Libusb{})
	if enumerate.LibusbSupported {
		t.Skip("libusb backend available in this build")
	}

	code := RunSnapshot([]string{"-o", filepath.Join(t.TempDir(), "x")}, &bytes.Buffer{}, &bytes.Buffer{})
	if code != exitBackend {
		t.Errorf("expected exit code %d, got %d", exitBackend, code)
	}
}

func TestRunExplore_BackendError(t *testing.T) {
	isolate(t)
	code := RunExplore([]string{"-snapshot", filepath.Join(t.TempDir(), "missing")}, &bytes.Buffer{}, &bytes.Buffer{})
	if code != exitBackend {
		t.Errorf("expected exit code %d, got %d", exitBackend, code)
	}
}

func TestRunExplore_Help(t *testing.T) {
	var stderr bytes.Buffer
	code := RunExplore([]string{"-h"}, &bytes.Buffer{}, &stderr)
	if code != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, code)
	}
	for _, want := range []string{"Usage: usbtree explore", "Shell commands:", "cd <path>"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("usage should contain %q, got:\n%s", want, stderr.String())
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitSuccess},
		{usb.ErrInvalidPath, exitCommandError},
		{usb.ErrInvalidID, exitCommandError},
		{config.ErrInvalidConfig, exitCommandError},
		{&enumerate.BackendError{Backend: "sysfs"}, exitBackend},
	}

	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
