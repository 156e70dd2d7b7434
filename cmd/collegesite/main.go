// cmd/collegesite/main.go
package main

import (
	"context"
	"log"

	"github.com/dalemusser/collegesite/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	// zap is not built until config loads; early failures go to stderr.
	log.SetFlags(0)
	log.SetPrefix("collegesite: ")

	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
