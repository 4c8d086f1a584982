package main

import (
	"github.com/guzu92/neo4j/cmd"
)

func main() {
	cmd.Execute()
}
