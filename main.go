package main

import "copkg/cmd"

func main() {
	cmd.Execute()
}
