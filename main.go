package main

import "github.com/nonce-firewall/taskflow/cmd"

func main() {
	cmd.Execute()
}
