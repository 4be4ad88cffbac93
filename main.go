package main

import "github.com/abys/geosync/cmd"

func main() {
	cmd.Execute()
}
