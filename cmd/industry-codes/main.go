// industry-codes matches free-text industry descriptions against the
// LinkedIn industry codes v2 catalog by Levenshtein similarity.
package main

import (
	"os"

	"github.com/crimson-sun/industry-codes/cmd/industry-codes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
