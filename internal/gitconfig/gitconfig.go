// Package gitconfig scans a repository's .git/config to infer a forge type
// and owner/repo pair from a remote's URL. This is a hand-rolled line-oriented
// scanner rather than a full INI parser — gitconfig.c's approach generalizes
// directly and no ecosystem .gitconfig parser is present in the pack.
package gitconfig

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/herrhotzenplotz/gcli"
)

// Remote is a single parsed "remote" section of a .git/config file.
type Remote struct {
	Name  string
	URL   string
	Forge gcli.ForgeType
	Owner string
	Repo  string
}

// ErrNotAGitRepository is returned when no .git directory is found walking
// upward from the starting directory to the filesystem root.
var ErrNotAGitRepository = errors.New("gitconfig: not a git repository")

// Find walks upward from dir (or the working directory, if dir is empty)
// looking for a .git directory, the same upward search find_file_in_dotgit
// performs, and returns the path to its config file.
func Find(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ".git", "config")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotAGitRepository
		}
		dir = parent
	}
}

// Remotes parses the named .git/config and returns every "remote" section
// it finds, in file order.
func Remotes(path string) ([]Remote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Remote
	var current *Remote

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			name, ok := remoteSectionName(line)
			if !ok {
				current = nil
				continue
			}
			out = append(out, Remote{Name: name})
			current = &out[len(out)-1]
			continue
		}
		if current == nil {
			continue
		}
		key, val, ok := parseEntry(line)
		if !ok || key != "url" {
			continue
		}
		current.URL = val
		current.Forge, current.Owner, current.Repo = ExtractRemote(val)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// remoteSectionName recognizes a [remote "name"] header line and returns
// the quoted name.
func remoteSectionName(line string) (string, bool) {
	line = strings.TrimPrefix(line, "[")
	line = strings.TrimSuffix(line, "]")
	if !strings.HasPrefix(line, "remote") {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "remote"))
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

func parseEntry(line string) (key, val string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// ExtractRemote infers forge type and owner/repo from a remote URL, covering
// the https:// and ssh (git@host:owner/repo, ssh://git@host/owner/repo)
// forms gitconfig.c's url_extractors table handles. An unrecognized host
// returns ForgeType("") with owner/repo left empty.
func ExtractRemote(url string) (forge gcli.ForgeType, owner, repo string) {
	rest, forge, ok := stripKnownPrefix(url)
	if !ok {
		return "", "", ""
	}
	rest = strings.TrimSuffix(rest, ".git")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return forge, "", ""
	}
	return forge, parts[0], parts[1]
}

func stripKnownPrefix(url string) (rest string, forge gcli.ForgeType, ok bool) {
	switch {
	case strings.HasPrefix(url, "https://github.com/"):
		return strings.TrimPrefix(url, "https://github.com/"), gcli.ForgeGitHub, true
	case strings.HasPrefix(url, "https://gitlab.com/"):
		return strings.TrimPrefix(url, "https://gitlab.com/"), gcli.ForgeGitLab, true
	case strings.HasPrefix(url, "https://codeberg.org/"):
		return strings.TrimPrefix(url, "https://codeberg.org/"), gcli.ForgeGitea, true
	case strings.HasPrefix(url, "git@github.com:"):
		return strings.TrimPrefix(url, "git@github.com:"), gcli.ForgeGitHub, true
	case strings.HasPrefix(url, "git@gitlab.com:"):
		return strings.TrimPrefix(url, "git@gitlab.com:"), gcli.ForgeGitLab, true
	case strings.HasPrefix(url, "git@codeberg.org:"):
		return strings.TrimPrefix(url, "git@codeberg.org:"), gcli.ForgeGitea, true
	case strings.HasPrefix(url, "ssh://git@github.com/"):
		return strings.TrimPrefix(url, "ssh://git@github.com/"), gcli.ForgeGitHub, true
	case strings.HasPrefix(url, "ssh://git@gitlab.com/"):
		return strings.TrimPrefix(url, "ssh://git@gitlab.com/"), gcli.ForgeGitLab, true
	case strings.HasPrefix(url, "ssh://git@codeberg.org/"):
		return strings.TrimPrefix(url, "ssh://git@codeberg.org/"), gcli.ForgeGitea, true
	default:
		return "", "", false
	}
}

// ByRemote locates the named remote (or the first one found, if name is
// empty) in the given .git/config and returns its inferred forge/owner/repo.
func ByRemote(path, name string) (Remote, error) {
	remotes, err := Remotes(path)
	if err != nil {
		return Remote{}, err
	}
	if name != "" {
		for _, r := range remotes {
			if r.Name == name {
				return r, nil
			}
		}
		return Remote{}, errors.New("gitconfig: no such remote: " + name)
	}
	if len(remotes) == 0 {
		return Remote{}, errors.New("gitconfig: no remotes to auto-detect forge")
	}
	return remotes[0], nil
}
