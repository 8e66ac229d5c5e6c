// benchusb sends ASCII commands to a USB-attached bench instrument over
// raw bulk transfers.
package main

import "github.com/awenger/benchusb/cmd"

func main() {
	cmd.Execute()
}
