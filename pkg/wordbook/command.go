package wordbook

// Command represents one discrete CLI operation with its specific options.
// Commands are produced by [Parse] and executed by the matching method on
// [App]; shared configuration (backends, viewer, logging) lives in [Config],
// while per-invocation options live on the command structs.
type Command interface {
	// Name returns the command identifier used for routing.
	Name() string
}

// ViewCommand loads a word list and prints the reconciled current page: the
// persisted bookmark decides the filter, shuffle, and page unless overridden
// by the command's own options.
type ViewCommand struct {
	// ListName is the list to open. Empty reopens the last viewed list.
	ListName string
	// Search filters the visible lines before printing, replacing any
	// persisted filter.
	Search string
	// Page jumps to a 1-based page after reconciliation. Zero keeps the
	// bookmarked page.
	Page int
	// Shuffle permutes the visible lines before printing.
	Shuffle bool
}

func (c *ViewCommand) Name() string {
	return "view"
}

// ListsCommand manages the viewer's word lists. Without options it prints
// their names; Remove deletes one, Rename/To renames one.
type ListsCommand struct {
	Remove string
	Rename string
	To     string
}

func (c *ListsCommand) Name() string {
	return "lists"
}

// PutCommand uploads a text file as one of the viewer's word lists,
// overwriting any existing list of the same name.
type PutCommand struct {
	ListName string
	File     string
}

func (c *PutCommand) Name() string {
	return "put"
}
