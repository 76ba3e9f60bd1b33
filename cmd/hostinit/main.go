package main

import (
	"github.com/NVIDIA/host-init/pkg/cli"
)

func main() {
	cli.Execute()
}
