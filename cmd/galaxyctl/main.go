package main

import (
	"github.com/merizrizal/galaxyctl/pkg/cli"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
)

func main() {
	if err := cli.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
