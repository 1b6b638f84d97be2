// Command cubeinfo lists the rank-2 and rank-3 cubes found in a MAT5
// container, without loading their data.
package main

import (
	"fmt"
	"os"

	"github.com/scigolib/cubemat"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cubeinfo <file.mat>")
		os.Exit(1)
	}
	path := os.Args[1]

	rank3, err := cubemat.ListRank3(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cubeinfo:", err)
		os.Exit(1)
	}
	rank2, err := cubemat.ListRank2(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cubeinfo:", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d rank-3, %d rank-2\n", path, len(rank3), len(rank2))
	for _, d := range rank3 {
		fmt.Printf("  [3] %-20s dims=%v type=%s\n", d.Name, d.Dims, d.Type)
	}
	for _, d := range rank2 {
		fmt.Printf("  [2] %-20s dims=%v type=%s\n", d.Name, d.Dims, d.Type)
	}
}
