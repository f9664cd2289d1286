// Command scribe is papyrus's CLI entry point: a thin wrapper delegating
// all dispatch logic to pkg/cli, keeping main() minimal and pushing
// behavior into an importable package.
package main

import "github.com/papyruslang/papyrus/pkg/cli"

func main() {
	cli.Run()
}
