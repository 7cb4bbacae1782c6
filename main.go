package main

import "medscan-backend/cmd"

func main() {
	cmd.Run()
}
