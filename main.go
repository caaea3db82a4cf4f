package main

import "competition-jury-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
