package main

import "github.com/dbsmedya/stackburn/cmd/stackburn/cmd"

func main() {
	cmd.Execute()
}
