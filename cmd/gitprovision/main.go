// Package gitprovision provides a CLI tool for cloning a repository and selecting a branch
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitprovision/internal/config"
	"github.com/NicabarNimble/go-gitprovision/internal/errors"
	"github.com/NicabarNimble/go-gitprovision/internal/git"
	"github.com/NicabarNimble/go-gitprovision/internal/logging"
)

type provisionOptions struct {
	repository string
	branch     string
	baseDir    string
	strategy   string
	strict     bool
}

var (
	// newRunner and newRefLister allow for mocking in tests
	newRunner = func(binary string) git.Runner {
		return git.NewExecRunner(binary)
	}
	newRefLister = func() git.RefLister {
		return git.NewRepoRefs()
	}
)

func newRootCmd() *cobra.Command {
	opts := &provisionOptions{}

	cmd := &cobra.Command{
		Use:   "gitprovision -c <repository> -b <branch>",
		Short: "Clone a repository and switch to a branch",
		Long: `Clone a repository into a directory named after it and switch to the given
branch, creating the branch when it does not exist.

An existing directory with the same name is removed before cloning.`,
		Example: `  gitprovision -c https://example.com/group/myrepo.git -b feature-x
  gitprovision -c git@example.com:group/myrepo.git -b main --base-dir /tmp/work
  GITPROVISION_BRANCH_STRATEGY=refs gitprovision -c https://example.com/myrepo.git -b dev`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.repository, "repository", "c", "", "Repository location to clone")
	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "Branch to select or create")
	cmd.Flags().StringVar(&opts.baseDir, "base-dir", "", "Directory to clone into (default: current directory)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Missing branch detection: stderr or refs")
	cmd.Flags().BoolVar(&opts.strict, "strict", true, "Reject locations that do not look like git remotes")
	cmd.MarkFlagRequired("repository")
	cmd.MarkFlagRequired("branch")

	return cmd
}

func runProvision(cmd *cobra.Command, opts *provisionOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Flags override the environment only when given explicitly
	if cmd.Flags().Changed("base-dir") {
		cfg.BaseDir = opts.baseDir
	}
	if cmd.Flags().Changed("strategy") {
		cfg.BranchStrategy = strings.ToLower(opts.strategy)
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = opts.strict
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p := git.NewProvisioner(newRunner(cfg.GitBinary),
		git.WithBaseDir(cfg.BaseDir),
		git.WithStrict(cfg.Strict),
		git.WithStrategy(git.Strategy(cfg.BranchStrategy)),
		git.WithRefLister(newRefLister()),
		git.WithLogger(logger),
	)

	_, err = p.Provision(cmd.Context(), opts.repository, opts.branch)
	return err
}

// execute runs the command and returns the process exit status
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var pe *errors.ProvisionError
	if errors.As(err, &pe) && pe.Detail != "" {
		fmt.Fprint(stderr, pe.Detail)
		if !strings.HasSuffix(pe.Detail, "\n") {
			fmt.Fprintln(stderr)
		}
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return errors.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
