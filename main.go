package main

import "apod-bot/cmd"

func main() {
	cmd.Run()
}
