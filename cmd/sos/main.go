package main

import "github.com/oshokin/sos-button/cmd/sos/cmd"

func main() {
	cmd.Execute()
}
