package main

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/cmd/rmectl/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
