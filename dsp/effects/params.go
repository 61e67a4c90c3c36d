package effects

import "github.com/cwbudde/algo-pedal/dsp/param"

// Parameter ids shared across kinds. Presets address a control as
// slot/kind/id, so these strings are persisted.
const (
	ParamLevel       param.ID = "level"
	ParamMix         param.ID = "mix"
	ParamRate        param.ID = "rate"
	ParamDepth       param.ID = "depth"
	ParamDelay       param.ID = "delay"
	ParamVoices      param.ID = "voices"
	ParamFeedback    param.ID = "feedback"
	ParamManual      param.ID = "manual"
	ParamStages      param.ID = "stages"
	ParamShape       param.ID = "shape"
	ParamTime        param.ID = "time"
	ParamTone        param.ID = "tone"
	ParamWow         param.ID = "wow"
	ParamSemitones   param.ID = "semitones"
	ParamDrive       param.ID = "drive"
	ParamMode        param.ID = "mode"
	ParamSensitivity param.ID = "sensitivity"
	ParamQ           param.ID = "q"
	ParamMinFreq     param.ID = "min_freq"
	ParamMaxFreq     param.ID = "max_freq"
	ParamAttack      param.ID = "attack"
	ParamRelease     param.ID = "release"
	ParamDecay       param.ID = "decay"
	ParamDamping     param.ID = "damping"
	ParamPreDelay    param.ID = "predelay"
	ParamReference   param.ID = "reference"
	ParamMonitor     param.ID = "monitor"
)

// glide moves a control linearly from its previous value to the new one
// across a block so per-block parameter steps do not zipper.
type glide struct {
	cur    float64
	target float64
	step   float64
}

func (g *glide) set(v float64) { g.target = v }

func (g *glide) jump() {
	g.cur = g.target
	g.step = 0
}

// begin prepares an n-sample glide toward target.
func (g *glide) begin(n int) {
	if n <= 0 || g.cur == g.target {
		g.step = 0
		g.cur = g.target
		return
	}
	g.step = (g.target - g.cur) / float64(n)
}

func (g *glide) next() float64 {
	g.cur += g.step
	return g.cur
}

// end lands exactly on the target after a block.
func (g *glide) end() {
	g.cur = g.target
	g.step = 0
}
