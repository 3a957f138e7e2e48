package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// binaryPath holds the path to the compiled binary (set once in TestMain)
var binaryPath string

// testContext holds state for a single scenario
type testContext struct {
	tmpDir   string
	exitCode int
	output   string

	watch    *exec.Cmd
	watchOut bytes.Buffer
}

// buildBinary compiles the centroidwatch binary once
func buildBinary() (string, error) {
	tmpFile, err := os.CreateTemp("", "centroidwatch-test-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpFile.Close()

	// Get the directory of this test file to find the project root
	_, thisFile, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", tmpFile.Name(), "./cmd/centroidwatch")
	cmd.Dir = projectRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build failed: %w\n%s", err, stderr.String())
	}

	return tmpFile.Name(), nil
}

// TestMain compiles the binary once before running all tests
func TestMain(m *testing.M) {
	var err error
	binaryPath, err = buildBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binary: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Remove(binaryPath)
	os.Exit(code)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "centroidwatch-e2e-*")
		if err != nil {
			return ctx, err
		}
		tc.tmpDir = tmpDir
		tc.watch = nil
		tc.watchOut.Reset()
		return ctx, nil
	})

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.stopWatching()
		if tc.tmpDir != "" {
			os.RemoveAll(tc.tmpDir)
		}
		return ctx, nil
	})

	sc.Step(`^centroidwatch is built$`, tc.centroidwatchIsBuilt)
	sc.Step(`^I run centroidwatch with "([^"]*)"$`, tc.iRunCentroidwatchWith)
	sc.Step(`^I process the pair in "([^"]*)" with "([^"]*)"$`, tc.iProcessThePairIn)
	sc.Step(`^I start centroidwatch with "([^"]*)"$`, tc.iStartCentroidwatchWith)
	sc.Step(`^the exit code should be (\d+)$`, tc.theExitCodeShouldBe)
	sc.Step(`^the output should contain "([^"]*)"$`, tc.theOutputShouldContain)
	sc.Step(`^"([^"]*)" should contain (\d+) DICOM files$`, tc.shouldContainDICOMFiles)
	sc.Step(`^"([^"]*)" should exist$`, tc.shouldExist)
	sc.Step(`^"([^"]*)" should not exist$`, tc.shouldNotExist)
	sc.Step(`^a report in "([^"]*)" should contain "([^"]*)"$`, tc.aReportShouldContain)
	sc.Step(`^(\d+) reports? should appear in "([^"]*)" within (\d+) seconds$`, tc.reportsShouldAppear)
	sc.Step(`^I place each plan from "([^"]*)" next to its report in "([^"]*)"$`, tc.placePlansNextToReports)
}

func (tc *testContext) expand(s string) string {
	return strings.ReplaceAll(s, "{tmpdir}", tc.tmpDir)
}

func (tc *testContext) centroidwatchIsBuilt() error {
	if binaryPath == "" {
		return fmt.Errorf("binary not built")
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		return fmt.Errorf("binary does not exist at %s", binaryPath)
	}
	return nil
}

func (tc *testContext) iRunCentroidwatchWith(args string) error {
	argList := strings.Fields(tc.expand(args))

	cmd := exec.Command(binaryPath, argList...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	tc.output = output.String()

	if exitErr, ok := err.(*exec.ExitError); ok {
		tc.exitCode = exitErr.ExitCode()
	} else if err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	} else {
		tc.exitCode = 0
	}

	return nil
}

// iProcessThePairIn runs "process" on the single RS/RP pair of dir.
func (tc *testContext) iProcessThePairIn(dir, extra string) error {
	dir = tc.expand(dir)
	rs, _ := filepath.Glob(filepath.Join(dir, "RS.*.dcm"))
	rp, _ := filepath.Glob(filepath.Join(dir, "RP.*.dcm"))
	if len(rs) != 1 || len(rp) != 1 {
		return fmt.Errorf("expected one pair in %s, found %v %v", dir, rs, rp)
	}
	return tc.iRunCentroidwatchWith(fmt.Sprintf(`process %s %s %s`, extra, rs[0], rp[0]))
}

func (tc *testContext) iStartCentroidwatchWith(args string) error {
	cmd := exec.Command(binaryPath, strings.Fields(tc.expand(args))...)
	cmd.Stdout = &tc.watchOut
	cmd.Stderr = &tc.watchOut
	cmd.Stdin = strings.NewReader("")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start watch: %w", err)
	}
	tc.watch = cmd
	return nil
}

func (tc *testContext) stopWatching() {
	if tc.watch == nil || tc.watch.Process == nil {
		return
	}
	_ = tc.watch.Process.Signal(os.Interrupt)
	done := make(chan struct{})
	go func() {
		_ = tc.watch.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = tc.watch.Process.Kill()
	}
	tc.watch = nil
}

func (tc *testContext) theExitCodeShouldBe(expected int) error {
	if tc.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nOutput:\n%s", expected, tc.exitCode, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(tc.output, expected) {
		return fmt.Errorf("output does not contain %q\nOutput:\n%s", expected, tc.output)
	}
	return nil
}

func (tc *testContext) shouldContainDICOMFiles(path string, count int) error {
	files, err := filepath.Glob(filepath.Join(tc.expand(path), "*.dcm"))
	if err != nil {
		return err
	}
	if len(files) != count {
		return fmt.Errorf("expected %d DICOM files, found %d", count, len(files))
	}
	return nil
}

func (tc *testContext) shouldExist(path string) error {
	path = tc.expand(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	return nil
}

func (tc *testContext) shouldNotExist(path string) error {
	path = tc.expand(path)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("path exists: %s", path)
	}
	return nil
}

// findReports returns every Centroid_*.txt one level below root.
func findReports(root string) ([]string, error) {
	return filepath.Glob(filepath.Join(root, "*", "Centroid_*.txt"))
}

func (tc *testContext) aReportShouldContain(root, expected string) error {
	reports, err := findReports(tc.expand(root))
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("no report under %s\nOutput:\n%s", root, tc.output)
	}
	for _, r := range reports {
		data, err := os.ReadFile(r)
		if err != nil {
			return err
		}
		if strings.Contains(string(data), expected) {
			return nil
		}
	}
	return fmt.Errorf("no report under %s contains %q", root, expected)
}

func (tc *testContext) reportsShouldAppear(count int, root string, seconds int) error {
	root = tc.expand(root)
	deadline := time.Now().Add(time.Duration(seconds) * time.Second)
	for {
		reports, err := findReports(root)
		if err != nil {
			return err
		}
		if len(reports) == count {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("expected %d reports in %s, found %d\nOutput:\n%s", count, root, len(reports), tc.watchOut.String())
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// placePlansNextToReports builds a verify test set: each report folder gets
// a copy of the archived plan of the same patient.
func (tc *testContext) placePlansNextToReports(backup, root string) error {
	backup, root = tc.expand(backup), tc.expand(root)
	reports, err := findReports(root)
	if err != nil {
		return err
	}
	for _, r := range reports {
		pid := strings.SplitN(filepath.Base(filepath.Dir(r)), "_", 2)[0]
		src := filepath.Join(backup, "RP."+pid+".dcm")
		if err := copyFile(src, filepath.Join(filepath.Dir(r), filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
