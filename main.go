package main

import "github.com/jsphweid/musicbraille/cmd"

func main() {
	cmd.Execute()
}
