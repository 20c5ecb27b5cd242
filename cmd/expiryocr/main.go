package main

import (
	"github.com/shelfscan/expiryocr/cmd/expiryocr/cmd"
)

func main() {
	cmd.Execute()
}
