// Command board is the multi-sector project monitoring dashboard.
package main

import "github.com/mesh-intelligence/sectorboard/internal/cli"

func main() {
	cli.Execute()
}
