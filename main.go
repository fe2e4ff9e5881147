package main

import (
	"github.com/joho/godotenv"

	"podctl/cmd"
)

func main() {
	_ = godotenv.Load()
	cmd.Run()
}
