package main

import "github.com/jsphweid/mdlfit/cmd"

func main() {
	cmd.Execute()
}
