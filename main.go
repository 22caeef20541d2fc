package main

import "github.com/staffdir/employee-directory/cmd"

func main() {
	cmd.Execute()
}
