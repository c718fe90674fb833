package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/NicabarNimble/go-gitprovision/internal/errors"
	"github.com/NicabarNimble/go-gitprovision/internal/urlutils"
)

// FatalMarker is the substring of git's error output that aborts a clone
const FatalMarker = "fatal: "

// Strategy selects how a missing branch is detected
type Strategy string

const (
	// StrategyStderr tries checkout and matches the "pathspec did not match" message
	StrategyStderr Strategy = "stderr"
	// StrategyRefs looks the branch up in the repository refs before checkout
	StrategyRefs Strategy = "refs"
)

// BranchOutcome describes how CheckoutOrCreate resolved a branch
type BranchOutcome int

const (
	// BranchUnresolved means checkout failed for a reason other than a missing branch
	BranchUnresolved BranchOutcome = iota
	// BranchCheckedOut means an existing branch was checked out
	BranchCheckedOut
	// BranchCreated means the branch was missing and has been created
	BranchCreated
)

func (o BranchOutcome) String() string {
	switch o {
	case BranchCheckedOut:
		return "checked out"
	case BranchCreated:
		return "created"
	default:
		return "unresolved"
	}
}

// Outcome is the result of a full Provision run
type Outcome struct {
	Path   string
	Branch string
	Result BranchOutcome
}

// Provisioner clones repositories and selects branches in the local copy
type Provisioner struct {
	runner   Runner
	refs     RefLister
	baseDir  string
	strict   bool
	strategy Strategy
	log      zerolog.Logger
}

// Option configures a Provisioner
type Option func(*Provisioner)

// WithBaseDir sets the directory the local copy is created in.
// An empty value means the current working directory.
func WithBaseDir(dir string) Option {
	return func(p *Provisioner) { p.baseDir = dir }
}

// WithStrict enables or disables repository location validation
func WithStrict(strict bool) Option {
	return func(p *Provisioner) { p.strict = strict }
}

// WithStrategy sets the branch resolution strategy
func WithStrategy(s Strategy) Option {
	return func(p *Provisioner) { p.strategy = s }
}

// WithRefLister sets the lookup used by StrategyRefs
func WithRefLister(refs RefLister) Option {
	return func(p *Provisioner) { p.refs = refs }
}

// WithLogger sets the logger for informational messages
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provisioner) { p.log = log }
}

// NewProvisioner creates a Provisioner. Defaults: strict validation,
// StrategyStderr, go-git backed ref lookup and no logging.
func NewProvisioner(runner Runner, opts ...Option) *Provisioner {
	p := &Provisioner{
		runner:   runner,
		refs:     NewRepoRefs(),
		strict:   true,
		strategy: StrategyStderr,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision clones location and selects branch in the new local copy.
// It stops at the first error; the local copy is left in place if the
// branch step fails.
func (p *Provisioner) Provision(ctx context.Context, location, branch string) (*Outcome, error) {
	if branch == "" {
		return nil, errors.NewProvisionError("checkout", errors.KindInvalidInput, "branch name must be specified", nil)
	}

	path, err := p.Clone(ctx, location)
	if err != nil {
		return nil, err
	}
	p.log.Info().
		Str("repository", location).
		Str("path", path).
		Msgf("Repository with name %s has been cloned to path %s!", location, path)

	result, err := p.CheckoutOrCreate(ctx, branch, path)
	if err != nil {
		return nil, err
	}
	if result != BranchUnresolved {
		p.log.Info().
			Str("branch", branch).
			Stringer("outcome", result).
			Msgf("Branch with name %q has been selected!", branch)
	}

	return &Outcome{Path: path, Branch: branch, Result: result}, nil
}

// Clone validates location, removes any existing local copy and runs
// git clone. It returns the path of the local copy.
//
// Only a "fatal: " marker in git's error output is treated as failure;
// a non-zero exit status without it is logged and otherwise ignored.
func (p *Provisioner) Clone(ctx context.Context, location string) (string, error) {
	if location == "" {
		return "", errors.NewProvisionError("clone", errors.KindInvalidLocation, "repository location must be specified", urlutils.ErrEmptyLocation)
	}

	if p.strict {
		if err := urlutils.ValidateLocation(location); err != nil {
			return "", errors.NewProvisionError("clone", errors.KindInvalidLocation, "location rejected", err)
		}
	}

	name, err := urlutils.DirName(location)
	if err != nil {
		return "", errors.NewProvisionError("clone", errors.KindInvalidLocation, "location rejected", err)
	}

	baseDir, err := filepath.Abs(p.baseDir)
	if err != nil {
		return "", errors.NewProvisionError("clone", errors.KindFilesystem, "failed to resolve base directory", err)
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return "", errors.NewProvisionError("clone", errors.KindFilesystem, fmt.Sprintf("cannot use base directory %s", baseDir), err)
	}
	if !info.IsDir() {
		return "", errors.NewProvisionError("clone", errors.KindFilesystem, fmt.Sprintf("base directory %s is not a directory", baseDir), nil)
	}
	target := filepath.Join(baseDir, name)

	if err := removeExisting(target); err != nil {
		return "", errors.NewProvisionError("clone", errors.KindFilesystem, fmt.Sprintf("failed to remove existing %s", target), err)
	}

	// Run from the caller's directory so relative locations resolve as given;
	// "--" keeps a location starting with "-" from being read as an option.
	res, err := p.runner.Run(ctx, "", "clone", "--", location, target)
	if err != nil {
		return "", errors.NewProvisionError("clone", errors.KindRunner, "failed to run git clone", err)
	}

	if stderr := string(res.Stderr); strings.Contains(stderr, FatalMarker) {
		return "", errors.NewCloneFatalError(location, stderr)
	}
	if res.ExitCode != 0 {
		p.log.Warn().
			Int("exit_code", res.ExitCode).
			Str("stderr", strings.TrimSpace(string(res.Stderr))).
			Msg("git clone exited with non-zero status")
	}

	return target, nil
}

// CheckoutOrCreate checks out branch in dir, creating it when git reports
// that it does not exist. dir is passed to every git call; the process
// working directory is not changed.
func (p *Provisioner) CheckoutOrCreate(ctx context.Context, branch, dir string) (BranchOutcome, error) {
	if branch == "" {
		return BranchUnresolved, errors.NewProvisionError("checkout", errors.KindInvalidInput, "branch name must be specified", nil)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return BranchUnresolved, errors.NewProvisionError("checkout", errors.KindFilesystem, fmt.Sprintf("cannot use local copy %s", dir), err)
	}
	if !info.IsDir() {
		return BranchUnresolved, errors.NewProvisionError("checkout", errors.KindFilesystem, fmt.Sprintf("local copy %s is not a directory", dir), nil)
	}

	if p.strategy == StrategyRefs && p.refs != nil {
		exists, err := p.refs.HasBranch(dir, branch)
		if err == nil {
			if !exists {
				return p.create(ctx, branch, dir)
			}
			res, err := p.checkout(ctx, branch, dir)
			if err != nil {
				return BranchUnresolved, err
			}
			if res.ExitCode == 0 {
				return BranchCheckedOut, nil
			}
			p.unresolved(branch, res)
			return BranchUnresolved, nil
		}
		p.log.Warn().Err(err).Msg("Branch lookup failed, falling back to checkout output")
	}

	res, err := p.checkout(ctx, branch, dir)
	if err != nil {
		return BranchUnresolved, err
	}
	if IsMissingBranch(res.Stderr, branch) {
		return p.create(ctx, branch, dir)
	}
	if res.ExitCode == 0 {
		return BranchCheckedOut, nil
	}
	p.unresolved(branch, res)
	return BranchUnresolved, nil
}

// MissingBranchMessage is the text git prints when checkout cannot resolve branch
func MissingBranchMessage(branch string) string {
	return fmt.Sprintf("pathspec '%s' did not match any file(s) known to git", branch)
}

// IsMissingBranch reports whether stderr contains the missing-branch message.
// Containment is used, so the "error: " prefix and trailing newline are optional.
func IsMissingBranch(stderr []byte, branch string) bool {
	return bytes.Contains(stderr, []byte(MissingBranchMessage(branch)))
}

func (p *Provisioner) checkout(ctx context.Context, branch, dir string) (*Result, error) {
	res, err := p.runner.Run(ctx, dir, "checkout", branch)
	if err != nil {
		return nil, errors.NewProvisionError("checkout", errors.KindRunner, "failed to run git checkout", err)
	}
	return res, nil
}

// create runs checkout -b. Its result is logged but not inspected.
func (p *Provisioner) create(ctx context.Context, branch, dir string) (BranchOutcome, error) {
	res, err := p.runner.Run(ctx, dir, "checkout", "-b", branch)
	if err != nil {
		return BranchUnresolved, errors.NewProvisionError("checkout", errors.KindRunner, "failed to run git checkout -b", err)
	}
	p.log.Debug().
		Str("branch", branch).
		Int("exit_code", res.ExitCode).
		Msg("Created branch")
	return BranchCreated, nil
}

func (p *Provisioner) unresolved(branch string, res *Result) {
	p.log.Warn().
		Str("branch", branch).
		Int("exit_code", res.ExitCode).
		Str("stdout", strings.TrimSpace(string(res.Stdout))).
		Str("stderr", strings.TrimSpace(string(res.Stderr))).
		Msg("Checkout failed for a reason other than a missing branch; branch left unchanged")
}

func removeExisting(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.RemoveAll(path)
}
