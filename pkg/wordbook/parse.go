package wordbook

import (
	"flag"
	"fmt"

	"github.com/wordbookapp/wordbook/pkg/models"
)

// Parse parses command line arguments and returns the command to execute,
// the application configuration, and any error that occurred.
// The Command carries per-invocation options; the Config carries backend and
// viewer configuration shared across all commands.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("wordbook", flag.ContinueOnError)

	var (
		remote   = flagSet.Bool("remote", false, "Use the SurrealDB backend for lists and bookmarks")
		user     = flagSet.String("user", "", "Viewer user ID (UUID); empty runs as guest")
		verbose  = flagSet.Bool("verbose", false, "Enable debug logging")
		search   = flagSet.String("search", "", "Filter visible lines by substring (view)")
		page     = flagSet.Int("page", 0, "Jump to a 1-based page (view)")
		pageSize = flagSet.Int("page-size", 0, "Lines per page: 10, 20, 50 or 100 (view)")
		shuffle  = flagSet.Bool("shuffle", false, "Shuffle the visible lines (view)")
		remove   = flagSet.String("remove", "", "Delete the named list (lists)")
		rename   = flagSet.String("rename", "", "List to rename, used with -to (lists)")
		renameTo = flagSet.String("to", "", "New name for -rename (lists)")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: wordbook [flags] <command>

Commands:
  view [list]       Print the current page of a word list
  lists             Manage the viewer's word lists
  put <list> <file> Upload a text file as a word list

Examples:
  wordbook view vocabulary                 # Open a list at its bookmark
  wordbook -search berry view vocabulary   # Filtered view
  wordbook -page 3 -page-size 50 view vocabulary
  wordbook view                            # Reopen the last viewed list
  wordbook lists                           # Print list names
  wordbook -remove old lists               # Delete a list
  wordbook -rename old -to new lists       # Rename a list
  wordbook put vocabulary words.txt        # Upload a list
  wordbook -remote -user 6a1f... view vocabulary`)
	}

	if *pageSize != 0 && !models.ValidPageSize(*pageSize) {
		return nil, nil, fmt.Errorf("invalid page size: %d (must be one of %v)", *pageSize, models.PageSizes)
	}

	var cmd Command
	config := &Config{
		Remote:   *remote,
		UserID:   *user,
		PageSize: *pageSize,
		Verbose:  *verbose,
	}

	switch remainingArgs[0] {
	case "view":
		view := &ViewCommand{
			Search:  *search,
			Page:    *page,
			Shuffle: *shuffle,
		}
		if len(remainingArgs) > 1 {
			view.ListName = remainingArgs[1]
		}
		cmd = view
	case "lists":
		if *rename != "" && *renameTo == "" {
			return nil, nil, fmt.Errorf("-rename requires -to")
		}
		cmd = &ListsCommand{
			Remove: *remove,
			Rename: *rename,
			To:     *renameTo,
		}
	case "put":
		if len(remainingArgs) < 3 {
			return nil, nil, fmt.Errorf("put requires a list name and a file: wordbook put <list> <file>")
		}
		cmd = &PutCommand{
			ListName: remainingArgs[1],
			File:     remainingArgs[2],
		}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: view, lists, put", remainingArgs[0])
	}

	// Load backend configuration from environment
	config.SurrealDBURL = getEnv("SURREALDB_URL", "ws://localhost:8000/rpc")
	config.SurrealDBNS = getEnv("SURREALDB_NS", "wordbook")
	config.SurrealDBDB = getEnv("SURREALDB_DB", "wordbook")
	config.SurrealDBUser = getEnv("SURREALDB_USER", "root")
	config.SurrealDBPass = getEnv("SURREALDB_PASS", "root")
	config.DataDir = getEnv("WORDBOOK_DATA_DIR", "data")
	config.LocalDBPath = getEnv("WORDBOOK_LOCAL_DB", "wordbook.db")
	config.LogPath = getEnv("WORDBOOK_LOG", "")

	return cmd, config, nil
}
