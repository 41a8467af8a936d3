package main

import (
	"fmt"
	"os"

	"github.com/minanew12/badger-multisig/cmd/apesafe"
)

func main() {
	rootCmd := apesafe.BuildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
