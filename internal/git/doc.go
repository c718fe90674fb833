// Package git provides the repository provisioning operations.
//
// This package clones a remote repository into a deterministically named
// local directory and selects a branch in the resulting copy, creating it
// when it does not exist. All version-control work is delegated to the git
// executable through a Runner; the package itself contains no git protocol
// logic.
//
// Key Components:
//
// Runner: Executes one git subcommand in a given directory and returns the
// exit status plus captured stdout and stderr. ExecRunner is the process
// implementation; tests substitute a fake.
//
// RefLister: Reports whether a branch exists in a local copy. RepoRefs reads
// the refs with go-git and is used by StrategyRefs.
//
// Provisioner: Clone, CheckoutOrCreate and Provision (both in sequence).
//
// Example Usage:
//
//	p := NewProvisioner(NewExecRunner("git"), WithLogger(log))
//	out, err := p.Provision(ctx, "https://example.com/group/myrepo.git", "feature-x")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Path, out.Result)
//
// Error Handling:
//
// Failures are returned as *errors.ProvisionError values whose Kind selects
// the process exit code. A checkout that fails for a reason other than a
// missing branch is not an error: it yields BranchUnresolved and a warning.
//
// Thread Safety:
//
// A Provisioner holds no mutable state, but two runs against the same local
// directory race on its removal and re-creation.
package git
