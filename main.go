package main

import (
	"os"

	"github.com/better-auth-admin/better-auth-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
