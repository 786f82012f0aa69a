//go:build ignore

// build.go - wbstats build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

const binary = "wbstats"

var (
	rootDir string
	distDir string
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic("build.go must be run from the module root")
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	startTime := time.Now()

	switch *target {
	case "all":
		runTests(*verbose)
		buildBinary(*verbose, false)
	case "build":
		buildBinary(*verbose, false)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "release":
		buildBinary(*verbose, true)
		copyConfigFiles()
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string) {
	color.New(color.FgBlue).Print("[INFO] ")
	fmt.Println(msg)
}

func printSuccess(msg string) {
	color.New(color.FgGreen).Print("[SUCCESS] ")
	fmt.Println(msg)
}

func printError(msg string) {
	color.New(color.FgRed).Print("[ERROR] ")
	fmt.Println(msg)
}

func run(verbose bool, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func buildBinary(verbose, release bool) {
	printInfo("Building " + binary + "...")

	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}

	name := binary
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, name)

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	if release {
		args = append(args, "-trimpath", "-ldflags", "-s -w")
	}
	args = append(args, "-o", outputPath, "./cmd/"+binary)

	if err := run(verbose, args...); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", binary, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", name, sizeMB))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := run(verbose, args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

// copyConfigFiles ships the sample configuration next to the binary
func copyConfigFiles() {
	src := filepath.Join(rootDir, "configs", "wbstats.yaml")
	data, err := os.ReadFile(src)
	if err != nil {
		printError(fmt.Sprintf("Failed to read %s: %v", src, err))
		return
	}
	dst := filepath.Join(distDir, "configs", "wbstats.yaml")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		printError(fmt.Sprintf("Failed to create %s: %v", filepath.Dir(dst), err))
		return
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		printError(fmt.Sprintf("Failed to write %s: %v", dst, err))
		return
	}
	printInfo("Copied configs/wbstats.yaml")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	for _, dir := range []string{distDir, filepath.Join(rootDir, "charts"), filepath.Join(rootDir, "exports"), filepath.Join(rootDir, "logs")} {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			printError(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all       Run tests, then build (default)")
	fmt.Println("  build     Build dist/wbstats")
	fmt.Println("  test      Run all tests with the race detector")
	fmt.Println("  clean     Remove dist, charts, exports and logs")
	fmt.Println("  release   Build a stripped binary and copy the sample config")
}
