package framework

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	passMarker = color.New(color.FgGreen).SprintFunc()
	failMarker = color.New(color.FgRed, color.Bold).SprintFunc()
)

// PrintResults writes the final summary: pass/fail/skip counts followed by the
// name and captured error messages of every failed test.
func PrintResults(results Results) {
	passed, failed, skipped := results.Counts()
	fmt.Printf("Results: %d passed, %d failed, %d skipped\n", passed, failed, skipped)

	if results.OK() {
		fmt.Println(passMarker("ALL TESTS PASSED"))
		return
	}

	fmt.Println()
	fmt.Println(failMarker(fmt.Sprintf("FAILED TESTS (%d):", len(results.Failures))))
	for _, f := range results.Failures {
		fmt.Printf("  %s\n", f.TestID)
		for _, err := range f.Errors {
			fmt.Printf("    %s\n", err)
		}
	}
}
