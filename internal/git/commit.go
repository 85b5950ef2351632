// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-git-integration R1, R2, R3;
//
//	docs/ARCHITECTURE § Git Integration.
package git

import (
	"fmt"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "go-patch"
	authorEmail = "noreply@go-patch"
)

// HandleDirty checks for uncommitted changes and either commits them
// separately or returns an error, depending on Config.DirtyCommit. Keeping
// pre-existing edits in their own commit means undo only ever reverts
// patch output.
//
// Implements: prd005-git-integration R2.1-R2.4.
func (r *Repo) HandleDirty() error {
	dirty, err := r.IsDirty()
	if err != nil {
		return err
	}

	if !dirty {
		return nil
	}

	if !r.cfg.DirtyCommit {
		return ErrDirtyWorkTree
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging dirty files: %w", err)
	}

	_, err = wt.Commit(dirtyCommitMsg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing dirty files: %w", err)
	}

	return nil
}

// AutoCommit stages the patched files and creates a commit carrying the
// Co-Authored-By trailer that undo looks for.
//
// Implements: prd005-git-integration R1.2-R1.5.
func (r *Repo) AutoCommit(patchedFiles []string) error {
	if !r.cfg.AutoCommit || len(patchedFiles) == 0 {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, f := range patchedFiles {
		if _, err := wt.Add(f); err != nil {
			return fmt.Errorf("staging %s: %w", f, err)
		}
	}

	_, err = wt.Commit(commitMessage(patchedFiles), &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// Undo reverts the last commit if it was made by go-patch (identified by
// the Co-Authored-By trailer). Uses a soft reset to preserve the changes
// in the working tree.
//
// Implements: prd005-git-integration R3.1-R3.4.
func (r *Repo) Undo() error {
	isPatch, err := r.IsPatchCommit()
	if err != nil {
		return err
	}
	if !isPatch {
		return ErrNotPatchCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}

	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: parent.Hash,
		Mode:   gogit.SoftReset,
	})
	if err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}

	return nil
}

// commitMessage builds the auto-commit message from the patched paths.
func commitMessage(paths []string) string {
	summary := strings.Join(paths, ", ")
	if len(paths) > 3 {
		summary = fmt.Sprintf("%s and %d more files", strings.Join(paths[:3], ", "), len(paths)-3)
	}
	return fmt.Sprintf("go-patch: apply edits to %s\n\n%s", summary, coAuthorTrailer)
}
