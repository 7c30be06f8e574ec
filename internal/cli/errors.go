package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/repokit/repokit/internal/changelog"
	"github.com/repokit/repokit/internal/config"
	clierrors "github.com/repokit/repokit/internal/errors"
	"github.com/repokit/repokit/internal/remote"
)

// classify turns err into the CLIError shown to the user. It returns nil for
// a bare ExitError, which has already reported itself.
func classify(err error) *clierrors.CLIError {
	if err == nil {
		return nil
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return nil
	}

	var (
		fmErr      *changelog.FrontmatterError
		markerErr  *changelog.MarkerError
		versionErr *changelog.VersionFormatError
		ambiguous  *changelog.AmbiguousHashError
		branchErr  *changelog.BranchMismatchError
		lookupErr  *changelog.CommitLookupError
		revertErr  *changelog.RevertResolutionError
		tmplErr    *changelog.TemplateError
		remoteErr  *remote.RemoteRepositoryError
		configErr  *config.ValidationError
		pathErr    *fs.PathError
	)

	var cliErr *clierrors.CLIError
	switch {
	case errors.As(err, &fmErr) && fmErr.Reason == changelog.ReasonMissingLastHash:
		cliErr = clierrors.MissingLastHash(fmErr.Path)
	case errors.As(err, &fmErr):
		cliErr = clierrors.InvalidFrontmatter(fmErr.Path, fmErr.Reason)
	case errors.As(err, &markerErr):
		cliErr = clierrors.InvalidMarkers(markerErr.Path, markerErr.Marker, markerErr.Reason)
	case errors.As(err, &versionErr):
		cliErr = clierrors.InvalidVersion(versionErr.Tag)
	case errors.As(err, &ambiguous):
		cliErr = clierrors.AmbiguousHash(ambiguous.Ref, ambiguous.Candidates)
	case errors.As(err, &branchErr):
		cliErr = clierrors.NotOnBranch(branchErr.Ref, branchErr.Branch)
	case errors.As(err, &lookupErr):
		cliErr = clierrors.CommitNotFound(lookupErr.Ref)
	case errors.As(err, &revertErr):
		cliErr = clierrors.UnresolvedRevert(revertErr.Hash, revertErr.Summary)
	case errors.As(err, &tmplErr):
		cliErr = clierrors.TemplateMissing(tmplErr.Name, tmplErr.Dir, tmplErr.Err)
	case errors.As(err, &remoteErr):
		cliErr = clierrors.RemoteRepositoryMissing(remoteErr.URL, remoteErr.Status)
	case errors.Is(err, remote.ErrNoRepository):
		cliErr = clierrors.RepositoryUnknown()
	case errors.As(err, &configErr):
		cliErr = clierrors.InvalidConfig(configErr)
	case errors.As(err, &pathErr) && errors.Is(err, fs.ErrNotExist):
		cliErr = clierrors.MissingChangelog(pathErr.Path)
	case errors.Is(err, context.Canceled):
		cliErr = clierrors.New(clierrors.Runtime, "interrupted")
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	cliErr.Cause = err
	return cliErr
}
