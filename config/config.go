// Package config defines the shapes of the configuration inputs the forge
// abstraction core expects a collaborator to resolve and hand in. It does
// not read or parse any configuration file itself — locating and parsing
// ~/.config/gcli/config or a repo-local .gcli file is a CLI-layer concern
// outside this module's scope.
package config

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/herrhotzenplotz/gcli"
)

// Account holds the resolved credentials and endpoint for a single forge
// account, as a collaborator would load it from a config file section.
type Account struct {
	Forge   gcli.ForgeType
	APIBase string
	Token   string
	User    string
}

// Resolved is the final set of inputs a collaborator assembles before
// constructing a gcli.Context: which account to use, and the override
// (if any) the user passed on the command line or environment.
type Resolved struct {
	Account Account

	// Owner/Repo are the defaults inferred or specified for the current
	// operation, e.g. via internal/gitconfig or an explicit -o/-r flag.
	Owner string
	Repo  string
}

// StaticSelector returns a gcli.ForgeSelector that always resolves to t,
// the simplest case of a collaborator that already knows which backend to
// dispatch to (an explicit -f flag, or a single configured account).
func StaticSelector(t gcli.ForgeType) gcli.ForgeSelector {
	return func() (gcli.ForgeType, error) {
		return t, nil
	}
}

// HTTPClient builds the *http.Client for a.Forge's adapter to use as its
// transport, the same shape the teacher's example/newreposecret builds
// (oauth2.StaticTokenSource wrapped with oauth2.NewClient) against the
// GitHub API.
//
// It is only correct for backends whose adapter sends a bare "Bearer"
// Authorization header — ForgeGitLab and ForgeBugzilla — since that is the
// scheme oauth2.NewClient's transport hardcodes. Pass the empty string as
// the adapter's own token argument in that case, so the adapter's transport
// layer doesn't also set Authorization and collide with this one.
// ForgeGitHub and ForgeGitea use a "token " scheme oauth2 cannot produce;
// for those, pass a.Token straight to the adapter constructor instead and
// call HTTPClient only when a.Token is empty, for its transport defaults.
func (a Account) HTTPClient(ctx context.Context) *http.Client {
	if a.Token == "" || (a.Forge != gcli.ForgeGitLab && a.Forge != gcli.ForgeBugzilla) {
		return &http.Client{}
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.Token})
	return oauth2.NewClient(ctx, src)
}
