package main

import "github.com/llehouerou/bluewaves/internal/cli"

func main() {
	cli.Execute()
}
