package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	csimpleCmd   = "go run ./cmd/csimple check --no-color"
	checkTimeout = 30 * time.Second // covers the first go run build
	corpusDir    = "internal/compiler/testdata"
)

type testResult struct {
	fileName string
	passed   bool
	output   string // Contains detailed error/mismatch info on failure
	isGood   bool   // True for good tests, false for bad tests
}

func main() {
	goodPassed, goodFailed := 0, 0
	badPassed, badFailed := 0, 0
	failedTests := []testResult{}

	fmt.Println("\n🔍 Running good tests:")
	goodFiles, _ := filepath.Glob(filepath.Join(corpusDir, "good", "*.csim"))
	fmt.Printf("Found %d good test files...\n", len(goodFiles))

	for _, file := range goodFiles {
		fmt.Printf("→ Running good test: %s\n", filepath.Base(file))
		res := runGoodTest(file)
		if res.passed {
			fmt.Printf("  ✅ %s\n", res.fileName)
			goodPassed++
		} else {
			fmt.Printf("  ❌ %s\n", res.fileName)
			goodFailed++
			failedTests = append(failedTests, res)
		}
	}

	fmt.Println("\n💥 Running bad tests:")
	badFiles, _ := filepath.Glob(filepath.Join(corpusDir, "bad", "*.csim"))
	fmt.Printf("Found %d bad test files...\n", len(badFiles))

	for _, file := range badFiles {
		fmt.Printf("→ Running bad test: %s\n", filepath.Base(file))
		res := runBadTest(file)
		if res.passed {
			fmt.Printf("  ✅ %s (Failed as expected)\n", res.fileName)
			badPassed++
		} else {
			fmt.Printf("  ❌ %s (Unexpected Result)\n", res.fileName)
			badFailed++
			failedTests = append(failedTests, res)
		}
	}

	if len(failedTests) > 0 {
		fmt.Println("\n--- Detailed Failures ---")
		for _, failure := range failedTests {
			fmt.Printf("\n❌ Test: %s (%s)\n", failure.fileName, map[bool]string{true: "Good Test", false: "Bad Test"}[failure.isGood])
			fmt.Println("Reason:")
			fmt.Println(failure.output)
			fmt.Println("---")
		}
	}

	fmt.Println("\n--------------------")
	fmt.Printf("Good Tests Summary: ✅ Passed: %d | ❌ Failed: %d\n", goodPassed, goodFailed)
	fmt.Printf("Bad Tests Summary:  ✅ Passed: %d | ❌ Failed: %d\n", badPassed, badFailed)
	fmt.Println("--------------------")

	if goodFailed > 0 || badFailed > 0 {
		fmt.Println("\n🚨 Some tests failed!")
		os.Exit(1)
	}
	fmt.Println("\n🎉 All tests passed!")
}

// runGoodTest expects the checker to accept file.
func runGoodTest(file string) testResult {
	res := testResult{fileName: filepath.Base(file), isGood: true}

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s", csimpleCmd, file))
	outputBytes, err := runCommandWithTimeout(cmd, checkTimeout)
	output := string(outputBytes)

	switch {
	case err != nil:
		res.output = fmt.Sprintf("Check failed: %v\nOutput:\n%s", err, output)
	case !strings.Contains(output, "No type checking errors found."):
		res.output = fmt.Sprintf("Missing success line.\nOutput:\n%s", output)
	default:
		res.passed = true
	}
	return res
}

// runBadTest expects the checker to reject file with the code and line in
// its .expect sidecar.
func runBadTest(file string) testResult {
	res := testResult{fileName: filepath.Base(file), isGood: false}

	expectPath := strings.TrimSuffix(file, filepath.Ext(file)) + ".expect"
	expectBytes, err := os.ReadFile(expectPath)
	if err != nil {
		res.output = fmt.Sprintf("Missing expectation: %s", expectPath)
		return res
	}
	var code, line int
	if _, err := fmt.Sscanf(string(expectBytes), "%d %d", &code, &line); err != nil {
		res.output = fmt.Sprintf("Bad expectation %s: %v", expectPath, err)
		return res
	}
	want := fmt.Sprintf("Error %d on line %d :", code, line)

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s", csimpleCmd, file))
	outputBytes, err := runCommandWithTimeout(cmd, checkTimeout)
	output := string(outputBytes)

	switch {
	case err == nil:
		res.output = fmt.Sprintf("Expected failure but got success.\nOutput:\n%s", output)
	case !strings.Contains(output, want):
		res.output = fmt.Sprintf("Expected %q.\nExit Err: %v\nOutput:\n%s", want, err, output)
	default:
		res.passed = true
	}
	return res
}

func runCommandWithTimeout(cmd *exec.Cmd, timeout time.Duration) ([]byte, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out // Capture both stdout and stderr

	err := cmd.Start()
	if err != nil {
		return out.Bytes(), fmt.Errorf("failed to start command '%s': %w", cmd.String(), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-time.After(timeout):
		if killErr := cmd.Process.Kill(); killErr != nil {
			return out.Bytes(), fmt.Errorf("command '%s' timed out after %v and failed to kill: %w", cmd.String(), timeout, killErr)
		}
		return out.Bytes(), fmt.Errorf("command '%s' timed out after %v", cmd.String(), timeout)
	case err := <-done:
		return out.Bytes(), err
	}
}
