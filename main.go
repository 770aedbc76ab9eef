package main

import (
	"os"

	"github.com/Keed0303/ecommerce-starter-app/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
