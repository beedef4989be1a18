package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wordbookapp/wordbook/pkg/wordbook"
)

func main() {
	if err := wordbook.Main(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
