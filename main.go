package main

import "github.com/jsphweid/pitchnamer/cmd"

func main() {
	cmd.Execute()
}
