//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// run executes the built CLI with the given arguments, building it
// first if needed.
func run(args ...string) error {
	bin := filepath.Join(binDir, binName)
	if _, err := os.Stat(bin); err != nil {
		if err := Build(); err != nil {
			return err
		}
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Import ingests every reference list under references/ into the works
// database.
func Import() error {
	matches, err := filepath.Glob("references/*")
	if err != nil {
		return err
	}
	var files []string
	for _, m := range matches {
		switch filepath.Ext(m) {
		case ".json", ".yaml", ".yml":
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		fmt.Println("No reference lists found under references/.")
		return nil
	}
	return run(append([]string{"import"}, files...)...)
}

// Verify runs registry checks over every stored work.
func Verify() error {
	return run("verify")
}

// Position scores every stored work.
func Position() error {
	return run("position")
}

// Pipeline runs import, verify, and position in sequence.
func Pipeline() error {
	if err := Import(); err != nil {
		return err
	}
	if err := Verify(); err != nil {
		return err
	}
	return Position()
}
