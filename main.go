package main

import (
	"os"

	"rental-listings-importer/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
