package main

import (
	cmd "github.com/pyxis-oop/qablame/cmd/qablame"
)

func main() {
	cmd.Execute()
}
