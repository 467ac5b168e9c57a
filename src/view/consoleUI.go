package view

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"wireworld/src/config"
	"wireworld/src/universe"
)

type keyBindings struct {
	key     interface{}
	name    string
	descr   string
	handler func(v *gocui.View) error
}

//ConsoleUI replays one experiment in the terminal, stepping on demand or on a timer
//every shown frame is forwarded to the sink, so the replay leaves the same output as a batch run
type ConsoleUI struct {
	g    *gocui.Gui
	k    []keyBindings
	opts config.Options
	exp  universe.Experiment
	sink universe.Sink

	sim     *universe.Simulation
	field   universe.Area
	step    int
	placed  int
	running bool
	stopCh  chan struct{}
	err     error

	fillers [universe.NumStates]string
}

var (
	modeDescr = map[string]string{
		"waiting":    aurora.Colorize("waiting", aurora.BlueFg).String(),
		"running":    aurora.Colorize("running", aurora.CyanFg).String(),
		"stabilized": aurora.Colorize("stabilized", aurora.GreenFg).String(),
		"finished":   aurora.Colorize("finished", aurora.RedFg).String(),
		"failed":     aurora.Colorize("failed", aurora.RedFg).String(),
	}
)

//NewViewTerminal generates the experiment field and prepares the terminal
func NewViewTerminal(o config.Options, e universe.Experiment, sink universe.Sink) (*ConsoleUI, error) {
	if sink == nil {
		sink = universe.Discard
	}
	f, err := universe.NewRunner(sink).Prepare(e)
	if err != nil {
		return nil, err
	}

	t := ConsoleUI{
		opts:   o,
		exp:    e,
		sink:   sink,
		sim:    universe.NewSimulation(f.Area, e.MaxSteps),
		placed: len(f.Placements),
		step:   -1,
	}
	t.fillers[universe.Empty] = " "
	t.fillers[universe.Conductor] = aurora.Yellow("█").String()
	t.fillers[universe.ElectronHead] = aurora.Blue("█").String()
	t.fillers[universe.ElectronTail] = aurora.Red("█").String()

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit},
		{'q', "Q", "Exit", t.cmdQuit},
		{'n', "N", "Next step", t.cmdNextStep},
		{'r', "R", "Run", t.cmdRun},
		{'s', "S", "Stop", t.cmdStop},
	}
	t.g.SetManagerFunc(t.layout)
	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	//show the initial field
	t.advance()
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding("", kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return err
		}
	}
	return nil
}

//Start runs the terminal main loop until the user quits, it returns the first sink failure
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return t.err
}

//advance pulls the next frame, it must run on the gui main loop
func (t *ConsoleUI) advance() {
	if t.err != nil {
		return
	}
	step, snapshot, ok := t.sim.Next()
	if !ok {
		t.stopRunning()
		return
	}
	if err := t.sink.Emit(t.exp.Index, step, snapshot); err != nil {
		t.err = &universe.SinkError{Experiment: t.exp.Index, Step: step, Err: err}
		t.stopRunning()
		return
	}
	t.step = step
	t.field = snapshot.Clone()
}

func (t *ConsoleUI) mode() string {
	switch {
	case t.err != nil:
		return "failed"
	case t.sim.Stabilized():
		return "stabilized"
	case t.sim.Done():
		return "finished"
	case t.running:
		return "running"
	}
	return "waiting"
}

func (t *ConsoleUI) startRunning() {
	if t.running || t.sim.Done() {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	go func(stop chan struct{}, interval time.Duration) {
		if interval <= 0 {
			interval = config.DefInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.g.Update(func(g *gocui.Gui) error {
					if t.running {
						t.advance()
					}
					return nil
				})
			}
		}
	}(t.stopCh, t.opts.Interval)
}

func (t *ConsoleUI) stopRunning() {
	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
}

func (t *ConsoleUI) renderField(v *gocui.View) {
	//the entire field is redrawn at once
	v.Clear()
	a := t.field
	maxW, maxH := v.Size()
	crop := a.Cols > maxW || a.Rows > maxH

	var b bytes.Buffer
	for i, l := range a.Entities {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		if i != 0 {
			b.WriteByte('\n')
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j, c := range l {
			if j >= maxW {
				break
			}
			b.WriteString(t.fillers[c])
		}
	}
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) renderStatus(v *gocui.View) {
	s := t.sim.Status()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", t.step))
	_, _ = fmt.Fprintln(v, t.renderProp("Heads", "%v", s.Heads))
	_, _ = fmt.Fprintln(v, t.renderProp("Tails", "%v", s.Tails))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", modeDescr[t.mode()]))
	if t.err != nil {
		_, _ = fmt.Fprintln(v, aurora.Red(t.err.Error()).String())
	}
}

func (t *ConsoleUI) renderConfiguration(v *gocui.View) {
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Experiment", "#%v", t.exp.Index))
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", t.exp.Rows, t.exp.Cols))
	_, _ = fmt.Fprintln(v, t.renderProp("Half-adders", "%v of %v", t.placed, t.exp.NumAdders))
	_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", t.exp.Seed))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", t.opts.Interval))
	_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", t.exp.MaxSteps))
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 32
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil && err != gocui.ErrUnknownView {
			return err
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("field")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Wireworld half-adder experiments"); err != nil && err != gocui.ErrUnknownView {
		return err
	}

	v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = "Configuration"
	t.renderConfiguration(v)

	v, err = g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = "Status"
	t.renderStatus(v)

	v, err = g.SetView("field", leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Title = "Field"
	t.renderField(v)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	t.stopRunning()
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextStep(_ *gocui.View) error {
	if !t.running {
		t.advance()
	}
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.startRunning()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.stopRunning()
	return nil
}
