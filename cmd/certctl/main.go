// Command certctl administers the certificate database.
package main

import (
	"context"
	"os"

	"certify-backend/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
