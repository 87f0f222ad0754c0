package main

import "countryfeatures/cmd/countryfeatures/cmd"

func main() {
	cmd.Execute()
}
