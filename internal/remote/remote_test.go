package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repokit/repokit/internal/changelog"
)

func TestParseGitHubURL(t *testing.T) {
	t.Parallel()

	want := changelog.RepoRef{Owner: "acme", Name: "widgets"}
	tests := map[string]struct {
		raw     string
		want    changelog.RepoRef
		wantErr bool
	}{
		"https":                {raw: "https://github.com/acme/widgets", want: want},
		"https with .git":      {raw: "https://github.com/acme/widgets.git", want: want},
		"https trailing slash": {raw: "https://github.com/acme/widgets/", want: want},
		"npm git+https":        {raw: "git+https://github.com/acme/widgets.git", want: want},
		"npm git+ssh":          {raw: "git+ssh://git@github.com/acme/widgets.git", want: want},
		"ssh url":              {raw: "ssh://git@github.com/acme/widgets", want: want},
		"git protocol":         {raw: "git://github.com/acme/widgets.git", want: want},
		"scp form":             {raw: "git@github.com:acme/widgets.git", want: want},
		"github shorthand":     {raw: "github:acme/widgets", want: want},
		"bare shorthand":       {raw: "acme/widgets", want: want},
		"dotted name":          {raw: "https://github.com/acme/widgets.js.git", want: changelog.RepoRef{Owner: "acme", Name: "widgets.js"}},
		"surrounding spaces":   {raw: "  https://github.com/acme/widgets  ", want: want},
		"other host":           {raw: "https://gitlab.com/acme/widgets.git", wantErr: true},
		"other scp host":       {raw: "git@gitlab.com:acme/widgets.git", wantErr: true},
		"missing name":         {raw: "https://github.com/acme", wantErr: true},
		"empty":                {raw: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseGitHubURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotGitHub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writePackageJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), PackageJSON)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromPackageJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    changelog.RepoRef
		wantErr error
	}{
		"string form": {
			content: `{"name": "widgets", "repository": "git+https://github.com/acme/widgets.git"}`,
			want:    changelog.RepoRef{Owner: "acme", Name: "widgets"},
		},
		"object form": {
			content: `{"repository": {"type": "git", "url": "git+https://github.com/acme/widgets.git"}}`,
			want:    changelog.RepoRef{Owner: "acme", Name: "widgets"},
		},
		"shorthand": {
			content: `{"repository": "github:acme/widgets"}`,
			want:    changelog.RepoRef{Owner: "acme", Name: "widgets"},
		},
		"no repository field": {
			content: `{"name": "widgets"}`,
			wantErr: ErrNoRepository,
		},
		"object without url": {
			content: `{"repository": {"type": "git"}}`,
			wantErr: ErrNoRepository,
		},
		"non github url": {
			content: `{"repository": "https://gitlab.com/acme/widgets"}`,
			wantErr: ErrNotGitHub,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := FromPackageJSON(writePackageJSON(t, tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromPackageJSON_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := FromPackageJSON(filepath.Join(t.TempDir(), PackageJSON))
	assert.ErrorIs(t, err, ErrNoRepository)
}

func TestFromPackageJSON_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := FromPackageJSON(writePackageJSON(t, `{"repository": `))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRepository)
}

type fakeRemotes map[string]string

func (f fakeRemotes) RemoteURL(name string) (string, error) {
	if url, ok := f[name]; ok {
		return url, nil
	}
	return "", errors.New("remote not found")
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		packageJSON string
		remotes     URLSource
		want        changelog.RepoRef
		wantErr     error
	}{
		"package.json wins": {
			packageJSON: `{"repository": "github:acme/widgets"}`,
			remotes:     fakeRemotes{"origin": "git@github.com:fork/widgets.git"},
			want:        changelog.RepoRef{Owner: "acme", Name: "widgets"},
		},
		"falls back to origin": {
			packageJSON: `{"name": "widgets"}`,
			remotes:     fakeRemotes{"origin": "git@github.com:fork/widgets.git"},
			want:        changelog.RepoRef{Owner: "fork", Name: "widgets"},
		},
		"origin on another host": {
			remotes: fakeRemotes{"origin": "git@gitlab.com:fork/widgets.git"},
			wantErr: ErrNotGitHub,
		},
		"no origin": {
			remotes: fakeRemotes{"upstream": "git@github.com:acme/widgets.git"},
			wantErr: ErrNoRepository,
		},
		"nothing at all": {
			wantErr: ErrNoRepository,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var path string
			if tt.packageJSON != "" {
				path = writePackageJSON(t, tt.packageJSON)
			}

			got, err := Detect(path, tt.remotes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status     int
		token      string
		wantStatus int
	}{
		"exists":            {status: http.StatusOK},
		"exists with token": {status: http.StatusOK, token: "s3cret"},
		"missing":           {status: http.StatusNotFound, wantStatus: http.StatusNotFound},
		"unauthorized":      {status: http.StatusUnauthorized, token: "bad", wantStatus: http.StatusUnauthorized},
		"server error":      {status: http.StatusBadGateway, wantStatus: http.StatusBadGateway},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			requests := make(chan *http.Request, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests <- r.Clone(context.Background())
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			checker := NewChecker(WithAPIURL(srv.URL+"/"), WithToken(tt.token))
			err := checker.Check(context.Background(), changelog.RepoRef{Owner: "acme", Name: "widgets"})

			req := <-requests
			assert.Equal(t, "/repos/acme/widgets", req.URL.Path)
			assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
			if tt.token != "" {
				assert.Equal(t, "Bearer "+tt.token, req.Header.Get("Authorization"))
			} else {
				assert.Empty(t, req.Header.Get("Authorization"))
			}

			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			var remoteErr *RemoteRepositoryError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.wantStatus, remoteErr.Status)
			assert.Equal(t, "https://github.com/acme/widgets", remoteErr.URL)
		})
	}
}

func TestChecker_CancelledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewChecker(WithAPIURL(srv.URL)).Check(ctx, changelog.RepoRef{Owner: "acme", Name: "widgets"})
	assert.ErrorIs(t, err, context.Canceled)
}
