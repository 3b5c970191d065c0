package main

import (
	"context"

	"github.com/Blackdeer1524/blockfile/cmd/blockctl/app"
)

func main() {
	app.MustExecute(context.Background())
}
