package main

import (
	"github.com/ArtByLance/kiosk-tv/cmd"
)

func main() {
	cmd.Execute()
}
