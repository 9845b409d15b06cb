package gitconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/herrhotzenplotz/gcli"
)

const sampleConfig = `[core]
	repositoryformatversion = 0
	bare = false

[remote "origin"]
	url = git@github.com:herrhotzenplotz/gcli.git
	fetch = +refs/heads/*:refs/remotes/origin/*

[remote "upstream"]
	url = https://gitlab.com/example/group/project.git

[remote "unknown"]
	url = https://example.com/not/a/forge.git
`

func writeSampleConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRemotes(t *testing.T) {
	path := writeSampleConfig(t)
	remotes, err := Remotes(path)
	if err != nil {
		t.Fatalf("Remotes: %v", err)
	}
	if len(remotes) != 3 {
		t.Fatalf("got %d remotes, want 3", len(remotes))
	}

	origin := remotes[0]
	if origin.Name != "origin" {
		t.Errorf("remotes[0].Name = %q, want origin", origin.Name)
	}
	if origin.Forge != gcli.ForgeGitHub {
		t.Errorf("origin.Forge = %q, want github", origin.Forge)
	}
	if origin.Owner != "herrhotzenplotz" || origin.Repo != "gcli" {
		t.Errorf("origin owner/repo = %q/%q, want herrhotzenplotz/gcli", origin.Owner, origin.Repo)
	}

	upstream := remotes[1]
	if upstream.Forge != gcli.ForgeGitLab {
		t.Errorf("upstream.Forge = %q, want gitlab", upstream.Forge)
	}
	// GitLab subgroup URLs have more than one "/" before the project name;
	// SplitN(rest, "/", 2) keeps everything past the first segment as Repo.
	if upstream.Owner != "example" || upstream.Repo != "group/project" {
		t.Errorf("upstream owner/repo = %q/%q, want example/group/project", upstream.Owner, upstream.Repo)
	}

	unknown := remotes[2]
	if unknown.Forge != "" {
		t.Errorf("unknown.Forge = %q, want empty", unknown.Forge)
	}
}

func TestByRemoteNamed(t *testing.T) {
	path := writeSampleConfig(t)
	r, err := ByRemote(path, "upstream")
	if err != nil {
		t.Fatalf("ByRemote: %v", err)
	}
	if r.Forge != gcli.ForgeGitLab {
		t.Errorf("ByRemote(upstream).Forge = %q, want gitlab", r.Forge)
	}
}

func TestByRemoteMissing(t *testing.T) {
	path := writeSampleConfig(t)
	if _, err := ByRemote(path, "does-not-exist"); err == nil {
		t.Fatal("expected error for a missing remote name")
	}
}

func TestByRemoteDefaultsToFirst(t *testing.T) {
	path := writeSampleConfig(t)
	r, err := ByRemote(path, "")
	if err != nil {
		t.Fatalf("ByRemote: %v", err)
	}
	if r.Name != "origin" {
		t.Errorf("ByRemote(\"\").Name = %q, want origin", r.Name)
	}
}

func TestExtractRemoteSSHURIForm(t *testing.T) {
	forge, owner, repo := ExtractRemote("ssh://git@codeberg.org/someone/project.git")
	if forge != gcli.ForgeGitea {
		t.Errorf("forge = %q, want gitea", forge)
	}
	if owner != "someone" || repo != "project" {
		t.Errorf("owner/repo = %q/%q, want someone/project", owner, repo)
	}
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".git", "config"), []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := filepath.Join(root, ".git", "config")
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFindNotAGitRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err != ErrNotAGitRepository {
		t.Errorf("Find error = %v, want ErrNotAGitRepository", err)
	}
}
