package wordbook

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wordbookapp/wordbook/pkg/blob"
	"github.com/wordbookapp/wordbook/pkg/identity"
	"github.com/wordbookapp/wordbook/pkg/models"
	"github.com/wordbookapp/wordbook/pkg/project"
	"github.com/wordbookapp/wordbook/pkg/textcache"
	"github.com/wordbookapp/wordbook/pkg/viewstate"
)

// View loads a word list, reconciles it against the viewer's bookmark,
// applies the command's overrides, and prints the current page.
func (a *App) View(ctx context.Context, cmd *ViewCommand) error {
	return a.view(ctx, cmd, os.Stdout)
}

func (a *App) view(ctx context.Context, cmd *ViewCommand, out io.Writer) error {
	path, err := a.resolvePath(ctx, cmd.ListName)
	if err != nil {
		return err
	}

	ctrl, err := viewstate.New(viewstate.Config{
		Texts:    textcache.New(a.blobs, a.local, a.log),
		Stores:   a.Stores(),
		Identity: identity.NewStatic(a.viewer),
		Logger:   a.log,
	})
	if err != nil {
		return err
	}

	ctrl.SetIdentity(ctx, a.viewer)
	if a.config.PageSize != 0 {
		ctrl.SetPageSize(a.config.PageSize)
	}
	ctrl.Open(ctx, path)
	ctrl.Wait()

	if cmd.Search != "" {
		ctrl.SetSearch(cmd.Search)
	}
	if cmd.Shuffle {
		ctrl.Shuffle()
	}
	if cmd.Page > 0 {
		ctrl.JumpTo(cmd.Page - 1)
	}
	ctrl.Wait()

	s := ctrl.Snapshot()
	switch s.Phase {
	case viewstate.PhaseReady:
	case viewstate.PhaseNotFound:
		return fmt.Errorf("list not found: %s", path)
	case viewstate.PhaseAccessDenied:
		return fmt.Errorf("access denied: %s (sign in with -user as the list's owner to view it)", path)
	default:
		return fmt.Errorf("failed to load %s: %w", path, s.Err)
	}

	fmt.Fprintf(out, "%s: page %d/%d, %d words", models.ListName(path), s.PageIndex+1, max(s.TotalPages, 1), s.VisibleCount)
	if s.SearchQuery != "" {
		fmt.Fprintf(out, ", filter %q", s.SearchQuery)
	}
	if s.Shuffled {
		fmt.Fprint(out, ", shuffled")
	}
	fmt.Fprintln(out)
	for i, w := range s.Words() {
		fmt.Fprintf(out, "%5d  %s", s.WordIndex+i+1, w.Text)
		if w.Link != "" {
			fmt.Fprintf(out, "  <%s>", w.Link)
		}
		fmt.Fprintln(out)
	}

	if err := a.local.SetLastOpened(ctx, path); err != nil {
		a.log.Warn().Err(err).Msg("failed to record last opened list")
	}
	return nil
}

// resolvePath turns a list name into a resource path, falling back to the
// last viewed list when the name is empty.
func (a *App) resolvePath(ctx context.Context, name string) (string, error) {
	if name != "" {
		return models.ListPath(a.viewer.UserID, name), nil
	}
	path, err := a.local.LastOpened(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read last opened list: %w", err)
	}
	if path == "" {
		return "", fmt.Errorf("no list name given and none viewed before")
	}
	return path, nil
}

// Lists manages the viewer's word lists: print, remove, or rename.
func (a *App) Lists(ctx context.Context, cmd *ListsCommand) error {
	return a.lists(ctx, cmd, os.Stdout)
}

func (a *App) lists(ctx context.Context, cmd *ListsCommand, out io.Writer) error {
	owner := a.viewer.UserID
	switch {
	case cmd.Remove != "":
		path := models.ListPath(owner, cmd.Remove)
		if err := a.blobs.Delete(ctx, path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", cmd.Remove, err)
		}
		a.log.Info().Str("path", path).Msg("list removed")
	case cmd.Rename != "":
		oldPath := models.ListPath(owner, cmd.Rename)
		newPath := models.ListPath(owner, cmd.To)
		if err := a.blobs.Rename(ctx, oldPath, newPath); err != nil {
			return fmt.Errorf("failed to rename %s: %w", cmd.Rename, err)
		}
		a.log.Info().Str("from", oldPath).Str("to", newPath).Msg("list renamed")
	default:
		names, err := blob.ListNames(ctx, a.blobs, owner)
		if err != nil {
			return fmt.Errorf("failed to list word lists: %w", err)
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
	}
	return nil
}

// Put uploads a text file as one of the viewer's word lists.
func (a *App) Put(ctx context.Context, cmd *PutCommand) error {
	content, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}
	path := models.ListPath(a.viewer.UserID, cmd.ListName)
	if err := a.blobs.Put(ctx, path, string(content)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", cmd.ListName, err)
	}
	a.log.Info().
		Str("path", path).
		Int("words", len(project.SplitLines(string(content)))).
		Msg("list uploaded")
	return nil
}
