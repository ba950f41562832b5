package main

import (
	"github.com/hausbuch/hausbuch/internal/cli"
)

func main() {
	cli.Execute()
}
