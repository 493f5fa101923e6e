package brew

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/brewstrap/internal/config"
)

// installedPrefix builds a prefix that already looks fully bootstrapped:
// executable brew, helper tools present, tap cloned.
func installedPrefix(t *testing.T) *config.Prefix {
	t.Helper()
	prefix := config.New(t.TempDir())
	if err := os.MkdirAll(prefix.Bin(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(prefix.Brew(), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(prefix.Bin(), toolsMarker), []byte("elf"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(prefix.TapDir(), 0755); err != nil {
		t.Fatal(err)
	}
	return prefix
}

// toolsTarball builds an in-memory gzipped tarball with the given files.
func toolsTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	for name, body := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(body)),
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func toolsServer(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+toolsArchive {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureInstalledFreshClonesBrew(t *testing.T) {
	prefix := config.New(t.TempDir())
	runner := newFakeRunner()
	srv := toolsServer(t, toolsTarball(t, map[string]string{toolsMarker: "elf"}))
	inst := NewInstaller(prefix, runner,
		WithHTTPClient(srv.Client()), WithArtifactBaseURL(srv.URL))

	if err := inst.EnsureInstalled(); err != nil {
		t.Fatalf("EnsureInstalled() failed: %v", err)
	}

	cloneKey := strings.Join([]string{"clone", "--depth", "1", "--branch", brewBranch, brewRepoURL, prefix.Root}, " ")
	if !runner.ranCommand(cloneKey) {
		t.Error("fresh prefix should be shallow-cloned")
	}
	if !runner.ranCommand("tap " + config.TapID) {
		t.Error("missing tap should be tapped")
	}
	if _, err := os.Stat(filepath.Join(prefix.Bin(), toolsMarker)); err != nil {
		t.Errorf("helper tools were not extracted: %v", err)
	}
}

func TestEnsureInstalledIdempotent(t *testing.T) {
	prefix := installedPrefix(t)
	runner := newFakeRunner()
	runner.outputs["config --get remote.origin.url"] = brewRepoURL + "\n"
	inst := NewInstaller(prefix, runner)

	if err := inst.EnsureInstalled(); err != nil {
		t.Fatalf("EnsureInstalled() failed: %v", err)
	}
	if calls := runner.runCalls(); len(calls) != 0 {
		t.Errorf("bootstrapped prefix should need no commands, ran %d", len(calls))
	}
}

func TestEnsureInstalledCloneFailure(t *testing.T) {
	prefix := config.New(t.TempDir())
	runner := newFakeRunner()
	cloneKey := strings.Join([]string{"clone", "--depth", "1", "--branch", brewBranch, brewRepoURL, prefix.Root}, " ")
	runner.runErrs[cloneKey] = errors.New("exit status 128")
	inst := NewInstaller(prefix, runner)

	err := inst.EnsureInstalled()
	if err == nil {
		t.Fatal("EnsureInstalled() should fail when the clone fails")
	}
	var be *BootstrapError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BootstrapError", err)
	}
	if be.Step != "clone" || be.Source != brewRepoURL {
		t.Errorf("BootstrapError = %+v, want clone step with canonical URL", be)
	}
}

func TestEnsureInstalledRepairsForeignRemote(t *testing.T) {
	prefix := installedPrefix(t)
	runner := newFakeRunner()
	runner.outputs["config --get remote.origin.url"] = "https://example.com/fork\n"
	inst := NewInstaller(prefix, runner)

	if err := inst.EnsureInstalled(); err != nil {
		t.Fatalf("EnsureInstalled() failed: %v", err)
	}

	calls := runner.runCalls()
	if len(calls) != 4 {
		t.Fatalf("repair should issue 4 git commands, got %d", len(calls))
	}
	if key(calls[0].args) != "config remote.origin.url "+brewRepoURL {
		t.Errorf("first repair step = %q", key(calls[0].args))
	}
	if key(calls[2].args) != "fetch --force --depth 1 origin" {
		t.Errorf("third repair step = %q", key(calls[2].args))
	}
	if key(calls[3].args) != "reset --hard origin/"+brewBranch {
		t.Errorf("fourth repair step = %q", key(calls[3].args))
	}
	for _, c := range calls {
		if c.dir != prefix.Root {
			t.Errorf("repair step ran in %q, want clone root", c.dir)
		}
	}
}

func TestEnsureInstalledRemovesObsoleteTap(t *testing.T) {
	prefix := installedPrefix(t)
	runner := newFakeRunner()
	runner.outputs["config --get remote.origin.url"] = brewRepoURL + "\n"
	if err := os.MkdirAll(prefix.ObsoleteTapDir(), 0755); err != nil {
		t.Fatal(err)
	}
	inst := NewInstaller(prefix, runner)

	if err := inst.EnsureInstalled(); err != nil {
		t.Fatalf("EnsureInstalled() failed: %v", err)
	}

	if _, err := os.Stat(prefix.ObsoleteTapDir()); !os.IsNotExist(err) {
		t.Error("obsolete flat tap directory should be removed")
	}
	if !runner.ranCommand("prune") {
		t.Error("prune should run after removing the obsolete tap")
	}
}

func TestEnsureInstalledDownloadsTools(t *testing.T) {
	prefix := installedPrefix(t)
	if err := os.Remove(filepath.Join(prefix.Bin(), toolsMarker)); err != nil {
		t.Fatal(err)
	}
	runner := newFakeRunner()
	runner.outputs["config --get remote.origin.url"] = brewRepoURL + "\n"
	srv := toolsServer(t, toolsTarball(t, map[string]string{
		toolsMarker:  "elf",
		"patchelf.1": "manpage",
	}))
	inst := NewInstaller(prefix, runner,
		WithHTTPClient(srv.Client()), WithArtifactBaseURL(srv.URL))

	if err := inst.EnsureInstalled(); err != nil {
		t.Fatalf("EnsureInstalled() failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(prefix.Bin(), toolsMarker))
	if err != nil {
		t.Fatalf("tools marker missing after download: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Error("extracted tool should keep its execute bit")
	}
}

func TestEnsureInstalledToolsDownloadFailure(t *testing.T) {
	prefix := installedPrefix(t)
	if err := os.Remove(filepath.Join(prefix.Bin(), toolsMarker)); err != nil {
		t.Fatal(err)
	}
	runner := newFakeRunner()
	runner.outputs["config --get remote.origin.url"] = brewRepoURL + "\n"
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	inst := NewInstaller(prefix, runner,
		WithHTTPClient(srv.Client()), WithArtifactBaseURL(srv.URL))

	err := inst.EnsureInstalled()
	if err == nil {
		t.Fatal("EnsureInstalled() should fail when the tools download fails")
	}
	var be *BootstrapError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BootstrapError", err)
	}
	if !strings.Contains(be.Source, toolsArchive) {
		t.Errorf("BootstrapError.Source = %q, should carry the artifact URL", be.Source)
	}
}

func TestRemoteCanonical(t *testing.T) {
	prefix := installedPrefix(t)
	runner := newFakeRunner()
	inst := NewInstaller(prefix, runner)

	runner.outputs["config --get remote.origin.url"] = brewRepoURL + "\n"
	if remote, ok := inst.RemoteCanonical(); !ok || remote != brewRepoURL {
		t.Errorf("RemoteCanonical() = %q, %v", remote, ok)
	}

	runner.outputs["config --get remote.origin.url"] = "https://example.com/fork\n"
	if _, ok := inst.RemoteCanonical(); ok {
		t.Error("a foreign remote should not report canonical")
	}
}

func TestUpdateSyncsThenUpgrades(t *testing.T) {
	prefix := installedPrefix(t)
	runner := newFakeRunner()
	runner.outputs["outdated"] = "aubio\n"
	runner.outputs["info --json=v1 aubio"] = infoJSON("aubio", "0.4.9", true)
	inst := NewInstaller(prefix, runner)
	mgr := NewManager(prefix, runner)

	if err := inst.Update(mgr); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	calls := runner.runCalls()
	// brew sync (2), tap sync (2), then remove+install+link for aubio.
	if len(calls) < 6 {
		t.Fatalf("expected syncs followed by the upgrade, got %d calls", len(calls))
	}
	if calls[0].dir != prefix.Root || key(calls[0].args) != "fetch --force --depth 1 origin" {
		t.Errorf("first call = %q in %q, want brew clone fetch", key(calls[0].args), calls[0].dir)
	}
	if calls[2].dir != prefix.TapDir() {
		t.Errorf("tap sync ran in %q, want tap dir", calls[2].dir)
	}
	if key(calls[4].args) != "rm --force aubio" {
		t.Errorf("upgrade should follow the syncs, got %q", key(calls[4].args))
	}
}

func TestUpdateStopsWhenSyncFails(t *testing.T) {
	prefix := installedPrefix(t)
	runner := newFakeRunner()
	runner.runErrs["fetch --force --depth 1 origin"] = errors.New("exit status 128")
	inst := NewInstaller(prefix, runner)
	mgr := NewManager(prefix, runner)

	err := inst.Update(mgr)
	if err == nil {
		t.Fatal("Update() should fail when the brew clone sync fails")
	}
	var be *BootstrapError
	if !errors.As(err, &be) || be.Step != "sync brew" {
		t.Errorf("error = %v, want *BootstrapError from the brew sync", err)
	}
	if runner.ranCommand("outdated") {
		t.Error("upgrade must not run after a failed sync")
	}
	if len(runner.runCalls()) != 1 {
		t.Errorf("tap sync must not run after a failed brew sync, got %d calls", len(runner.runCalls()))
	}
}

func TestExtractTarGzRejectsEscapingEntries(t *testing.T) {
	dest := t.TempDir()
	archive := toolsTarball(t, map[string]string{
		"../escape": "nope",
		"safe":      "ok",
	})

	if err := extractTarGz(bytes.NewReader(archive), dest); err != nil {
		t.Fatalf("extractTarGz() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "safe")); err != nil {
		t.Errorf("safe entry should extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "escape")); !os.IsNotExist(err) {
		t.Error("entry escaping the destination must not be written")
	}
}
