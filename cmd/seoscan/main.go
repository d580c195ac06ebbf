package main

import "github.com/user/seo-scanner/internal/cli"

func main() {
	cli.Execute()
}
