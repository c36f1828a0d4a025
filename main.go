package main

import "github.com/Norgate-AV/shoporusni/cmd"

func main() {
	cmd.Execute()
}
