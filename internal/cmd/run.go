package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kevingbwu/taskcore/internal/completion"
	"github.com/kevingbwu/taskcore/internal/config"
	"github.com/kevingbwu/taskcore/internal/coordination"
	"github.com/kevingbwu/taskcore/internal/lockorder"
	"github.com/kevingbwu/taskcore/internal/logging"
	"github.com/kevingbwu/taskcore/internal/pool"
)

// Lock hierarchy for the result collector. The result list sits above the
// tally, so a collector holding the list lock may still update the tally.
const (
	resultsLockLevel = 200
	tallyLockLevel   = 100
)

var runCmd = &cobra.Command{
	Use:   "run [name=command ...]",
	Short: "Run shell commands concurrently through the worker pool",
	Long: `Run executes the given shell commands concurrently and reports
per-task outcomes once every task has finished.

Each argument is a task: either "name=command" or a bare command,
which is assigned a generated name. Examples:

  taskcore run "lint=go vet ./..." "test=go test ./..."
  taskcore run --workers 2 --timeout 30s "build=make all"
  taskcore run --only 'test-*' "test-unit=make unit" "test-e2e=make e2e"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("workers", "w", 0, "worker goroutines (default from config)")
	runCmd.Flags().Int("queue-size", 0, "task queue bound, 0 means unbounded (default from config)")
	runCmd.Flags().DurationP("timeout", "t", 0, "per-task wait timeout, 0 disables (default from config)")
	runCmd.Flags().StringP("only", "o", "", "glob pattern selecting task names to run")
}

// taskSpec is one parsed task argument.
type taskSpec struct {
	Name    string
	Command string
}

// runResult is the recorded outcome of one task.
type runResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// runTally aggregates outcomes by kind.
type runTally struct {
	passed   int
	failed   int
	timedOut int
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	workers := cfg.Pool.Workers
	if f, _ := cmd.Flags().GetInt("workers"); f > 0 {
		workers = f
	}
	queueSize := cfg.Pool.QueueCapacity
	if cmd.Flags().Changed("queue-size") {
		queueSize, _ = cmd.Flags().GetInt("queue-size")
	}
	timeout := cfg.Run.Timeout()
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	only := cfg.Run.Only
	if cmd.Flags().Changed("only") {
		only, _ = cmd.Flags().GetString("only")
	}

	specs, err := parseTaskSpecs(args)
	if err != nil {
		return err
	}
	specs, err = filterTasks(specs, only)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		fmt.Println("no tasks match the filter")
		return nil
	}

	log := logging.NopLogger()
	if cfg.Logging.Enabled && cfg.Logging.Dir != "" {
		l, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   cfg.Logging.Compress,
		})
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer l.Close()
		log = l
	}

	hub, err := coordination.NewHub(coordination.Config{Workers: workers},
		coordination.WithQueueCapacity(queueSize),
		coordination.WithLogger(log),
	)
	if err != nil {
		return err
	}
	if err := hub.Start(); err != nil {
		return err
	}

	collector := newCollector()

	var wg sync.WaitGroup
	for _, spec := range specs {
		command := spec.Command
		aw, err := hub.Submit(func() error { return runShell(command) })
		if err != nil {
			collector.record(runResult{Name: spec.Name, Err: err})
			continue
		}

		wg.Add(1)
		go func(name string, aw *completion.Awaiter[struct{}]) {
			defer wg.Done()
			start := time.Now()
			var err error
			if timeout > 0 {
				_, err = aw.WaitFor(timeout)
			} else {
				_, err = aw.Wait()
			}
			collector.record(runResult{Name: name, Duration: time.Since(start), Err: err})
		}(spec.Name, aw)
	}
	wg.Wait()

	stats := hub.Stats()
	if err := hub.Stop(); err != nil {
		return err
	}

	printSummary(collector.results, collector.tally, stats)

	if n := collector.tally.failed + collector.tally.timedOut; n > 0 {
		return fmt.Errorf("%d of %d tasks did not succeed", n, len(collector.results))
	}
	return nil
}

// parseTaskSpecs turns "name=command" arguments into task specs. A bare
// command without '=' gets a generated name. Names must be unique.
func parseTaskSpecs(args []string) ([]taskSpec, error) {
	specs := make([]taskSpec, 0, len(args))
	seen := make(map[string]bool)

	for i, arg := range args {
		var spec taskSpec
		if name, command, found := strings.Cut(arg, "="); found {
			spec = taskSpec{Name: strings.TrimSpace(name), Command: strings.TrimSpace(command)}
			if spec.Name == "" {
				return nil, fmt.Errorf("invalid task %q: empty name", arg)
			}
		} else {
			spec = taskSpec{Name: fmt.Sprintf("cmd-%d", i+1), Command: strings.TrimSpace(arg)}
		}
		if spec.Command == "" {
			return nil, fmt.Errorf("invalid task %q: empty command", arg)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("duplicate task name %q", spec.Name)
		}
		seen[spec.Name] = true
		specs = append(specs, spec)
	}
	return specs, nil
}

// filterTasks keeps the specs whose names match the glob pattern.
// An empty pattern keeps everything.
func filterTasks(specs []taskSpec, pattern string) ([]taskSpec, error) {
	if pattern == "" {
		return specs, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid --only pattern %q: %w", pattern, err)
	}
	var kept []taskSpec
	for _, spec := range specs {
		if g.Match(spec.Name) {
			kept = append(kept, spec)
		}
	}
	return kept, nil
}

// runShell executes a command via the shell. Output is captured rather
// than streamed so concurrent tasks do not interleave on stdout.
func runShell(command string) error {
	out, err := exec.Command("sh", "-c", command).CombinedOutput()
	if err != nil {
		if line := firstLine(string(out)); line != "" {
			return fmt.Errorf("%w: %s", err, line)
		}
		return err
	}
	return nil
}

// collector accumulates results from concurrent waiter goroutines under
// hierarchy-leveled locks: the result list at level 200, the tally at
// level 100.
type collector struct {
	resultsMu *lockorder.Mutex
	tallyMu   *lockorder.Mutex
	results   []runResult
	tally     runTally
}

func newCollector() *collector {
	return &collector{
		resultsMu: lockorder.NewMutex(resultsLockLevel),
		tallyMu:   lockorder.NewMutex(tallyLockLevel),
	}
}

func (c *collector) record(r runResult) {
	th := lockorder.NewThread()
	if err := c.resultsMu.Lock(th); err != nil {
		panic(err)
	}
	c.results = append(c.results, r)

	if err := c.tallyMu.Lock(th); err != nil {
		panic(err)
	}
	switch {
	case r.Err == nil:
		c.tally.passed++
	case errors.Is(r.Err, completion.ErrTimedOut):
		c.tally.timedOut++
	default:
		c.tally.failed++
	}
	if err := c.tallyMu.Unlock(th); err != nil {
		panic(err)
	}
	if err := c.resultsMu.Unlock(th); err != nil {
		panic(err)
	}
}

// printSummary renders per-task outcomes and the aggregate line.
// Styling is disabled when stdout is not a terminal.
func printSummary(results []runResult, tally runTally, stats pool.Stats) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	okStyle := lipgloss.NewStyle()
	failStyle := lipgloss.NewStyle()
	dimStyle := lipgloss.NewStyle()
	if isTTY {
		okStyle = okStyle.Foreground(lipgloss.Color("10"))
		failStyle = failStyle.Foreground(lipgloss.Color("9")).Bold(true)
		dimStyle = dimStyle.Foreground(lipgloss.Color("8"))
	}

	width := 60
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = min(w, 100)
		}
	}
	rule := dimStyle.Render(strings.Repeat("-", width))

	fmt.Println(rule)
	for _, r := range results {
		mark := okStyle.Render("ok  ")
		if r.Err != nil {
			mark = failStyle.Render("FAIL")
		}
		fmt.Printf("%s %-24s %s\n", mark, r.Name, dimStyle.Render(r.Duration.Round(time.Millisecond).String()))
		if r.Err != nil {
			fmt.Printf("     %s\n", failStyle.Render(firstLine(r.Err.Error())))
		}
	}
	fmt.Println(rule)
	fmt.Printf("%d passed, %d failed, %d timed out\n", tally.passed, tally.failed, tally.timedOut)
	fmt.Printf("%d tasks executed on %d workers\n", stats.Completed, stats.Workers)
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
