package main

import "github.com/vastuconnect/booking_backend/cli"

func main() {
	cli.Execute()
}
