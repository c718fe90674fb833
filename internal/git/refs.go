package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/NicabarNimble/go-gitprovision/internal/errors"
)

// RefLister reports whether a branch is known to a local copy
type RefLister interface {
	HasBranch(dir, branch string) (bool, error)
}

// RepoRefs reads branch references straight from the repository on disk
type RepoRefs struct {
	Remote string
}

// NewRepoRefs creates a RefLister that also consults the origin remote
func NewRepoRefs() *RepoRefs {
	return &RepoRefs{Remote: "origin"}
}

// HasBranch checks refs/heads/<branch>, then refs/remotes/<remote>/<branch>
func (r *RepoRefs) HasBranch(dir, branch string) (bool, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return false, fmt.Errorf("failed to open repository %s: %w", dir, err)
	}

	names := []plumbing.ReferenceName{plumbing.NewBranchReferenceName(branch)}
	if r.Remote != "" {
		names = append(names, plumbing.NewRemoteReferenceName(r.Remote, branch))
	}

	for _, name := range names {
		_, err := repo.Reference(name, false)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, fmt.Errorf("failed to read reference %s: %w", name, err)
		}
	}
	return false, nil
}
