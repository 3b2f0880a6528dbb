package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/gitrepo/pkg/executil"
	"github.com/hay-kot/gitrepo/pkg/gitstatus"
)

// fakeWorkingRepo returns a directory that resolves as a working repository
// without running git.
func fakeWorkingRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return real
}

func newRecordedRepo(t *testing.T, rec *executil.RecordingExecutor) *Repository {
	t.Helper()
	r, err := New(context.Background(), fakeWorkingRepo(t), Options{
		GitPath:  "/usr/bin/git",
		Executor: rec,
		Logger:   zerolog.Nop(),
	}, ResolveOptions{})
	require.NoError(t, err)
	return r
}

func TestRepository_CommandArgs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(r *Repository) error
		want []string
	}{
		{
			name: "init",
			call: func(r *Repository) error { _, err := r.Init(ctx); return err },
			want: []string{"init", "."},
		},
		{
			name: "status",
			call: func(r *Repository) error { _, err := r.Status(ctx); return err },
			want: []string{"status"},
		},
		{
			name: "add all",
			call: func(r *Repository) error { _, err := r.Add(ctx); return err },
			want: []string{"add", "-v", "-A"},
		},
		{
			name: "add files",
			call: func(r *Repository) error { _, err := r.Add(ctx, "a.txt", "-b.txt"); return err },
			want: []string{"add", "-v", "--", "a.txt", "-b.txt"},
		},
		{
			name: "rm cached",
			call: func(r *Repository) error { _, err := r.Rm(ctx, true, "a.txt"); return err },
			want: []string{"rm", "--cached", "--", "a.txt"},
		},
		{
			name: "commit",
			call: func(r *Repository) error { _, err := r.Commit(ctx, "first commit", false); return err },
			want: []string{"commit", "-v", "-m", "first commit"},
		},
		{
			name: "commit all",
			call: func(r *Repository) error { _, err := r.Commit(ctx, "msg", true); return err },
			want: []string{"commit", "-av", "-m", "msg"},
		},
		{
			name: "clean",
			call: func(r *Repository) error { _, err := r.Clean(ctx, true, true); return err },
			want: []string{"clean", "-f", "-d"},
		},
		{
			name: "fetch dry run",
			call: func(r *Repository) error { _, err := r.Fetch(ctx, true); return err },
			want: []string{"fetch", "--dry-run"},
		},
		{
			name: "stash pop",
			call: func(r *Repository) error { _, err := r.StashPop(ctx); return err },
			want: []string{"stash", "pop"},
		},
		{
			name: "gc",
			call: func(r *Repository) error { return r.GC(ctx, "--prune=now") },
			want: []string{"gc", "--prune=now"},
		},
		{
			name: "local branches",
			call: func(r *Repository) error { _, err := r.Branches(ctx, ScopeLocal); return err },
			want: []string{"branch"},
		},
		{
			name: "all branches",
			call: func(r *Repository) error { _, err := r.Branches(ctx, ScopeAll); return err },
			want: []string{"branch", "-a"},
		},
		{
			name: "checkout",
			call: func(r *Repository) error { _, err := r.Checkout(ctx, "feature"); return err },
			want: []string{"checkout", "feature"},
		},
		{
			name: "force delete branch",
			call: func(r *Repository) error { _, err := r.DeleteBranch(ctx, "old", true); return err },
			want: []string{"branch", "-D", "old"},
		},
		{
			name: "merge with message",
			call: func(r *Repository) error { _, err := r.Merge(ctx, "feature", "  merge feature \n"); return err },
			want: []string{"merge", "feature", "--no-ff", "-m", "merge feature"},
		},
		{
			name: "merge without message",
			call: func(r *Repository) error { _, err := r.Merge(ctx, "feature", " "); return err },
			want: []string{"merge", "feature", "--no-ff"},
		},
		{
			name: "add remote",
			call: func(r *Repository) error {
				_, err := r.AddRemote(ctx, Remote{Name: "upstream", URL: "/srv/upstream.git"})
				return err
			},
			want: []string{"remote", "add", "upstream", "/srv/upstream.git"},
		},
		{
			name: "prune default remote",
			call: func(r *Repository) error { _, err := r.PruneRemote(ctx, ""); return err },
			want: []string{"remote", "prune", "origin"},
		},
		{
			name: "delete remote branches",
			call: func(r *Repository) error { _, err := r.DeleteRemoteBranches(ctx, "a", "b"); return err },
			want: []string{"push", "origin", "--delete", "a", "b"},
		},
		{
			name: "force push",
			call: func(r *Repository) error {
				_, err := r.Push(ctx, Remote{Name: "origin"}, Branch{Name: "main"}, true)
				return err
			},
			want: []string{"push", "--force", "origin", "main"},
		},
		{
			name: "pull",
			call: func(r *Repository) error {
				_, err := r.Pull(ctx, Remote{Name: "origin"}, Branch{Name: "main"})
				return err
			},
			want: []string{"pull", "origin", "main"},
		},
		{
			name: "tag defaults message to name",
			call: func(r *Repository) error { _, err := r.Tag(ctx, "v1.0.0", ""); return err },
			want: []string{"tag", "-a", "v1.0.0", "-m", "v1.0.0"},
		},
		{
			name: "tags with pattern",
			call: func(r *Repository) error { _, err := r.Tags(ctx, "v1.*"); return err },
			want: []string{"tag", "-l", "v1.*"},
		},
		{
			name: "log",
			call: func(r *Repository) error {
				_, err := r.Log(ctx, LogOptions{Limit: 5, Grep: "fix", Format: "%H %s", From: "v1", To: "HEAD", Paths: []string{"pkg"}})
				return err
			},
			want: []string{"log", "-5", "--grep=fix", "--pretty=format:%H %s", "v1..HEAD", "--", "pkg"},
		},
		{
			name: "diff cached",
			call: func(r *Repository) error { _, err := r.DiffCached(ctx); return err },
			want: []string{"diff", "--cached"},
		},
		{
			name: "rev-parse",
			call: func(r *Repository) error { _, err := r.RevParseHead(ctx); return err },
			want: []string{"rev-parse", "HEAD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &executil.RecordingExecutor{}
			r := newRecordedRepo(t, rec)

			require.NoError(t, tt.call(r))

			cmd, ok := rec.Last()
			require.True(t, ok)
			assert.Equal(t, "/usr/bin/git", cmd.Name)
			assert.Equal(t, r.Path(), cmd.Dir)
			assert.Equal(t, tt.want, cmd.Args)
		})
	}
}

func TestRepository_Run_ReturnsCombinedOutput(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git add": {Stdout: []byte("add 'a.txt'\n"), Stderr: []byte("warning: LF\n")},
		},
	}
	r := newRecordedRepo(t, rec)

	out, err := r.Add(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "warning: LF\nadd 'a.txt'\n", out)
}

func TestRepository_Run_FailureKeepsOutput(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git commit": {Stdout: []byte("nothing to commit, working tree clean\n"), ExitCode: 1},
		},
	}
	r := newRecordedRepo(t, rec)

	out, err := r.Commit(context.Background(), "msg", false)
	require.Error(t, err)
	assert.Equal(t, "nothing to commit, working tree clean\n", out)
	assert.Equal(t, 1, executil.ExitCode(err))
	assert.Contains(t, err.Error(), "git commit")
}

func TestRepository_Status(t *testing.T) {
	raw := "On branch master\n\nNo commits yet\n\nUntracked files:\n  (use \"git add <file>...\" to include in what will be committed)\n\tfile-0.txt\n"
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git status": {Stdout: []byte(raw)},
		},
	}
	r := newRecordedRepo(t, rec)

	st, err := r.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", st.Branch)
	assert.Equal(t, []string{"file-0.txt"}, st.Untracked)
	assert.Equal(t, []string{}, st.Changes)
}

func TestRepository_Status_UsesMatchingMode(t *testing.T) {
	raw := "On branch main\nUntracked files:\n\tChanges to be committed.txt\n\tkeep.txt\n"
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"git status": {Stdout: []byte(raw)},
		},
	}

	r, err := New(context.Background(), fakeWorkingRepo(t), Options{
		Executor: rec,
		Matching: gitstatus.MatchAnchored,
	}, ResolveOptions{})
	require.NoError(t, err)

	st, err := r.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Changes to be committed.txt", "keep.txt"}, st.Untracked)
	assert.Equal(t, []string{}, st.Changes)
}

func TestRepository_Status_Failure(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git status": {Stderr: []byte("fatal: not a git repository\n"), ExitCode: 128},
		},
	}
	r := newRecordedRepo(t, rec)

	_, err := r.Status(context.Background())
	require.Error(t, err)
	assert.Equal(t, 128, executil.ExitCode(err))
}

func TestRepository_Branches(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git branch": {Stdout: []byte("  develop\n* main\n  feature/x\n")},
		},
	}
	r := newRecordedRepo(t, rec)
	ctx := context.Background()

	branches, err := r.Branches(ctx, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, []Branch{{Name: "develop"}, {Name: "main"}, {Name: "feature/x"}}, branches)

	active, err := r.ActiveBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, Branch{Name: "main"}, active)
}

func TestRepository_ActiveBranch_NoMarker(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git branch": {Stdout: []byte("")},
		},
	}
	r := newRecordedRepo(t, rec)

	_, err := r.ActiveBranch(context.Background())
	require.ErrorIs(t, err, ErrNoActiveBranch)
}

func TestRepository_Checkout_MissingBranch(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git checkout": {
				Stderr:   []byte("error: pathspec 'nope' did not match any file(s) known to git\n"),
				ExitCode: 1,
			},
		},
	}
	r := newRecordedRepo(t, rec)

	out, err := r.Checkout(context.Background(), "nope")
	require.ErrorIs(t, err, ErrBranchNotFound)
	assert.Contains(t, out, "pathspec 'nope'")
	assert.Equal(t, 1, executil.ExitCode(err))
}

func TestRepository_Checkout_OtherFailures(t *testing.T) {
	tests := []struct {
		name     string
		result   executil.Result
		err      error
		wantCode int
	}{
		{
			name:     "git could not be started",
			err:      errors.New("exec: not found"),
			wantCode: -1,
		},
		{
			name: "local changes would be overwritten",
			result: executil.Result{
				Stderr:   []byte("error: Your local changes to the following files would be overwritten by checkout:\n\ta.go\nAborting\n"),
				ExitCode: 1,
			},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &executil.RecordingExecutor{
				Results: map[string]executil.Result{"/usr/bin/git checkout": tt.result},
			}
			if tt.err != nil {
				rec.Errors = map[string]error{"/usr/bin/git": tt.err}
			}
			r := newRecordedRepo(t, rec)

			_, err := r.Checkout(context.Background(), "main")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrBranchNotFound)
			assert.Equal(t, tt.wantCode, executil.ExitCode(err))
		})
	}
}

func TestRepository_Checkout_InvalidReference(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git checkout": {Stderr: []byte("fatal: invalid reference: nope\n"), ExitCode: 128},
		},
	}
	r := newRecordedRepo(t, rec)

	_, err := r.Checkout(context.Background(), "nope")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestRepository_CreateBranch(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Branch
		wantErr error
	}{
		{
			name:   "switched message",
			output: "Switched to a new branch 'feature/login'\n",
			want:   Branch{Name: "feature/login"},
		},
		{
			name:   "last quoted token wins",
			output: "warning: 'x' is odd\nSwitched to a new branch 'topic'\n",
			want:   Branch{Name: "topic"},
		},
		{
			name:    "no quoted name",
			output:  "something unexpected\n",
			wantErr: ErrUnexpectedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &executil.RecordingExecutor{
				Results: map[string]executil.Result{
					"/usr/bin/git checkout": {Stderr: []byte(tt.output)},
				},
			}
			r := newRecordedRepo(t, rec)

			got, err := r.CreateBranch(context.Background(), "ignored")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			cmd, _ := rec.Last()
			assert.Equal(t, []string{"checkout", "-b", "ignored"}, cmd.Args)
		})
	}
}

func TestParseRemotes(t *testing.T) {
	t.Run("fetch and push lines", func(t *testing.T) {
		got, err := parseRemotes("origin  /abs/path/repo (fetch)\norigin  /abs/path/repo (push)\n")
		require.NoError(t, err)
		assert.Equal(t, []Remote{
			{Name: "origin", URL: "/abs/path/repo", Type: "(fetch)"},
			{Name: "origin", URL: "/abs/path/repo", Type: "(push)"},
		}, got)
	})

	t.Run("tab separated", func(t *testing.T) {
		got, err := parseRemotes("upstream\thttps://example.com/r.git (fetch)\n")
		require.NoError(t, err)
		assert.Equal(t, []Remote{{Name: "upstream", URL: "https://example.com/r.git", Type: "(fetch)"}}, got)
	})

	t.Run("no remotes", func(t *testing.T) {
		got, err := parseRemotes("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("wrong field count", func(t *testing.T) {
		_, err := parseRemotes("origin /abs/path/repo\n")
		require.ErrorIs(t, err, ErrUnexpectedOutput)
	})
}

func TestRepository_Remotes(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git remote -v": {Stdout: []byte("origin  /abs/path/repo (fetch)\norigin  /abs/path/repo (push)\n")},
		},
	}
	r := newRecordedRepo(t, rec)

	remotes, err := r.Remotes(context.Background())
	require.NoError(t, err)
	require.Len(t, remotes, 2)
	assert.Equal(t, "(push)", remotes[1].Type)
}

func TestRepository_RemoteBranchesByPattern(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by substring", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Results: map[string]executil.Result{
				"/usr/bin/git branch -r": {Stdout: []byte("  origin/HEAD -> origin/main\n  origin/main\n  origin/feature/a\n  origin/feature/b\n")},
			},
		}
		r := newRecordedRepo(t, rec)

		got, err := r.RemoteBranchesByPattern(ctx, "feature/")
		require.NoError(t, err)
		assert.Equal(t, []Branch{{Name: "origin/feature/a"}, {Name: "origin/feature/b"}}, got)
	})

	t.Run("silent failure is no matches", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Results: map[string]executil.Result{
				"/usr/bin/git branch -r": {ExitCode: 1},
			},
		}
		r := newRecordedRepo(t, rec)

		got, err := r.RemoteBranchesByPattern(ctx, "anything")
		require.NoError(t, err)
		assert.Equal(t, []Branch{}, got)
	})

	t.Run("failure with message is an error", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Results: map[string]executil.Result{
				"/usr/bin/git branch -r": {Stderr: []byte("fatal: bad config\n"), ExitCode: 128},
			},
		}
		r := newRecordedRepo(t, rec)

		_, err := r.RemoteBranchesByPattern(ctx, "anything")
		require.Error(t, err)
	})
}

func TestRepository_RemoteBranchCount(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Results: map[string]executil.Result{
			"/usr/bin/git branch -r": {Stdout: []byte("  origin/main\n  origin/dev\n")},
		},
	}
	r := newRecordedRepo(t, rec)
	assert.Equal(t, 2, r.RemoteBranchCount(context.Background()))

	failing := newRecordedRepo(t, &executil.RecordingExecutor{
		Errors: map[string]error{"/usr/bin/git branch": errors.New("boom")},
	})
	assert.Equal(t, 0, failing.RemoteBranchCount(context.Background()))
}

func TestRepository_Env(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	r, err := New(context.Background(), fakeWorkingRepo(t), Options{
		Executor: rec,
		Env:      map[string]string{"GIT_AUTHOR_NAME": "Ada"},
	}, ResolveOptions{})
	require.NoError(t, err)

	r.SetEnv("GIT_AUTHOR_NAME", "Grace")
	r.SetEnv("LC_ALL", "C")

	_, err = r.Status(context.Background())
	require.NoError(t, err)

	cmd, _ := rec.Last()
	assert.Equal(t, map[string]string{"GIT_AUTHOR_NAME": "Grace", "LC_ALL": "C"}, cmd.Env)

	env := r.Env()
	env["LC_ALL"] = "mutated"
	assert.Equal(t, "C", r.Env()["LC_ALL"])
}

func TestRepository_Description(t *testing.T) {
	r := newRecordedRepo(t, &executil.RecordingExecutor{})
	ctx := context.Background()

	_, err := r.Description(ctx)
	require.Error(t, err)

	require.NoError(t, r.SetDescription(ctx, "docs mirror\n"))
	got, err := r.Description(ctx)
	require.NoError(t, err)
	assert.Equal(t, "docs mirror\n", got)
	assert.FileExists(t, filepath.Join(r.Path(), ".git", "description"))
}

func TestRepository_GitDir(t *testing.T) {
	r := newRecordedRepo(t, &executil.RecordingExecutor{})
	assert.False(t, r.IsBare())
	assert.Equal(t, filepath.Join(r.Path(), ".git"), r.GitDir())
}
