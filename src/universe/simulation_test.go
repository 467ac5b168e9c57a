package universe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//drain pulls the whole sequence, keeping a copy of every snapshot
func drain(s *Simulation) (steps []int, frames []string) {
	for {
		step, snapshot, ok := s.Next()
		if !ok {
			return
		}
		steps = append(steps, step)
		frames = append(frames, snapshot.String())
	}
}

//oscillator is a 2x2 loop with period 3, it never reaches a fixed point
func oscillator(t testing.TB) Area {
	return areaFromRows(t,
		"23",
		"11",
	)
}

func TestEngine_HeadTailConductorCycle(t *testing.T) {
	a := NewArea(3, 3)
	a.Set(1, 1, ElectronHead)
	e := NewEngine(a)

	e.Step()
	assert.Equal(t, ElectronTail, e.Area().At(1, 1))
	e.Step()
	assert.Equal(t, Conductor, e.Area().At(1, 1))
	e.Step()
	assert.Equal(t, Conductor, e.Area().At(1, 1))
	assert.Equal(t, 3, e.Status().IterationNum)
}

func TestEngine_SimultaneousUpdate(t *testing.T) {
	e := NewEngine(areaFromRows(t, "2111"))
	e.Step()
	assert.Equal(t, "3211", e.Area().String())
	e.Step()
	assert.Equal(t, "1321", e.Area().String())
	assert.Equal(t, 1, e.Status().Heads)
	assert.Equal(t, 1, e.Status().Tails)
}

func TestEngine_OscillatorPeriod(t *testing.T) {
	initial := oscillator(t)
	e := NewEngine(initial.Clone())
	for i := 0; i < 3; i++ {
		require.True(t, e.Step())
	}
	assert.True(t, initial.Equal(e.Area()))
}

func TestSimulation_EmptyFieldStabilizes(t *testing.T) {
	for _, maxSteps := range []int{1, 2, 5, 150} {
		t.Run(fmt.Sprintf("max %d", maxSteps), func(t *testing.T) {
			s := NewSimulation(NewArea(6, 6), maxSteps)
			steps, _ := drain(s)
			assert.Equal(t, []int{0}, steps)
			assert.True(t, s.Done())
		})
	}

	s := NewSimulation(NewArea(6, 6), 5)
	drain(s)
	assert.True(t, s.Stabilized())
}

func TestSimulation_BoundTermination(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 50} {
		t.Run(fmt.Sprintf("max %d", n), func(t *testing.T) {
			s := NewSimulation(oscillator(t), n)
			steps, frames := drain(s)
			require.Len(t, steps, n)
			for i, step := range steps {
				assert.Equal(t, i, step)
			}
			assert.Equal(t, "23\n11", frames[0])
			assert.False(t, s.Stabilized())
		})
	}
}

func TestSimulation_NonPositiveBound(t *testing.T) {
	for _, n := range []int{0, -1, -20} {
		steps, _ := drain(NewSimulation(oscillator(t), n))
		assert.Empty(t, steps)
	}
}

func TestSimulation_RepeatedFieldNotYielded(t *testing.T) {
	//a lone head burns out into a conductor after two transitions
	a := NewArea(3, 3)
	a.Set(1, 1, ElectronHead)
	s := NewSimulation(a, 100)
	steps, frames := drain(s)
	assert.Equal(t, []int{0, 1, 2}, steps)
	assert.Equal(t, "000\n010\n000", frames[2])
	assert.True(t, s.Stabilized())
}

func TestSimulation_ExhaustedStaysExhausted(t *testing.T) {
	s := NewSimulation(oscillator(t), 2)
	drain(s)
	for i := 0; i < 3; i++ {
		_, _, ok := s.Next()
		assert.False(t, ok)
	}
}

func Benchmark_Step(b *testing.B) {
	f, err := GenerateField(200, 200, 40, NewRNG(13374269, 0))
	require.NoError(b, err)
	e := NewEngine(f.Area)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step()
	}
}
