package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"wireworld/src/config"
	"wireworld/src/universe"
)

//ConsoleOut prints the batch configuration, the progress of every experiment and the results
//experiments may report from several goroutines
type ConsoleOut struct {
	w         io.Writer
	au        aurora.Aurora
	every     int
	startTime time.Time
	mu        sync.Mutex
}

//NewConsoleOut creates the progress printer, every frames between two progress lines
func NewConsoleOut(w io.Writer, colors bool, every int) *ConsoleOut {
	if every < 1 {
		every = 10
	}
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors), every: every}
}

//Register prints the running configuration
func (c *ConsoleOut) Register(o config.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.au.Bold("Running configuration:"))
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Rows, o.Cols)
	fmt.Fprintf(c.w, "  Experiments: %v\n", o.NumTests)
	fmt.Fprintf(c.w, "  Half-adders: %v\n", o.NumAdders)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(map[string]interface{}{
		"Output":  o.OutputDir,
		"Seed":    o.Seed,
		"Workers": o.Workers,
		"Scale":   o.Scale,
	})
}

func (c *ConsoleOut) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

//Emit reports progress, it never fails
func (c *ConsoleOut) Emit(experiment int, step int, _ universe.Area) error {
	if step == 0 || (step+1)%c.every != 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "  %s #%d: %v steps done\n", c.au.Cyan("experiment"), experiment, step+1)
	return nil
}

//Finished prints the summary of one experiment
func (c *ConsoleOut) Finished(res universe.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	outcome := c.au.Yellow("step limit")
	if res.Stabilized {
		outcome = c.au.Green("stabilized")
	}
	fmt.Fprintf(c.w, "%s experiment #%d: %v frames, %v half-adders (%v rejected), %s, %v\n",
		c.au.Green("Finished"), res.Experiment.Index, res.Frames, len(res.Placements), res.Rejected,
		outcome, res.Duration.Round(time.Millisecond))
}

//Failed prints an aborted experiment
func (c *ConsoleOut) Failed(experiment int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s experiment #%d: %v\n", c.au.Red("Failed"), experiment, err)
}

//Done prints the totals of the batch
func (c *ConsoleOut) Done(results []universe.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames, stabilized := 0, 0
	for _, r := range results {
		frames += r.Frames
		if r.Stabilized {
			stabilized++
		}
	}
	fmt.Fprintln(c.w, "\nFinished:")
	c.printHashData(map[string]interface{}{
		"Experiments": len(results),
		"Frames":      frames,
		"Stabilized":  stabilized,
		"Total time":  time.Since(c.startTime).Round(time.Millisecond),
	})
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
