package main

import "github.com/fakeyudi/punchclock/cmd"

func main() {
	cmd.Execute()
}
