package main

import "github.com/Manu343726/passcheck/cmd"

func main() {
	cmd.Execute()
}
