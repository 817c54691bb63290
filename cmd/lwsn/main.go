// Command lwsn runs the linear wireless sensor network simulator.
package main

import "github.com/sarchlab/lwsn/cmd"

func main() {
	cmd.Execute()
}
