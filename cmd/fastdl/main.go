package main

import (
	"os"

	"github.com/surge-downloader/fastdl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
