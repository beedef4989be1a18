package wordbook

import (
	"context"
	"fmt"
)

// Main is the main entry point for the wordbook application. It parses args,
// builds the App, and executes the selected command. Tests call it directly
// without building the binary; the context enables cancellation.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *ViewCommand:
		if err := app.View(ctx, c); err != nil {
			return fmt.Errorf("view failed: %w", err)
		}
	case *ListsCommand:
		if err := app.Lists(ctx, c); err != nil {
			return fmt.Errorf("lists failed: %w", err)
		}
	case *PutCommand:
		if err := app.Put(ctx, c); err != nil {
			return fmt.Errorf("put failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
