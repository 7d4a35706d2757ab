// Package main provides build targets for tabula using Mage.
//
// Usage:
//
//	mage build     Compile the tabula binary to bin/
//	mage test      Run all tests with the race detector
//	mage cover     Write a coverage profile to bin/cover.out
//	mage lint      Run go vet and golangci-lint
//	mage demo      Replay testdata/demo.jsonl against the built-in table
//	mage clean     Remove build artifacts
//	mage install   Install tabula to GOPATH/bin
//	mage stats     Print Go line counts per package
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "tabula"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tabula"
	demoScript = "testdata/demo.jsonl"
)

// Build compiles the tabula binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs every package's tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover writes a coverage profile and prints the per-function summary.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "cover.out")
	if err := sh.RunV("go", "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", profile)
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Demo builds the binary and replays the demo script with --watch.
func Demo() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "run", "--watch", demoScript)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// lineCount is the production and test line totals for one package directory.
type lineCount struct {
	prod, test int
}

// Stats prints Go lines of code per package directory.
func Stats() error {
	counts := map[string]*lineCount{}

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			switch path {
			case "vendor", ".git", binaryDir, "magefiles", "_examples":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		dir := filepath.Dir(path)
		c, ok := counts[dir]
		if !ok {
			c = &lineCount{}
			counts[dir] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total lineCount
	fmt.Printf("%-24s %8s %8s\n", "package", "prod", "test")
	for _, dir := range dirs {
		c := counts[dir]
		fmt.Printf("%-24s %8d %8d\n", dir, c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Printf("%-24s %8d %8d\n", "total", total.prod, total.test)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
