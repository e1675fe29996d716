package plugin

import (
	"github.com/cwbudde/algo-fxrack/dsp/filter/design"
	"github.com/cwbudde/algo-fxrack/dsp/filter/ladder"
	"github.com/cwbudde/algo-fxrack/plugin/param"
)

// Parameter names. They double as persistence keys and must not change.
const (
	ParamPhaserRate       = "Phaser RateHz"
	ParamPhaserDepth      = "Phaser Depth %"
	ParamPhaserCenterFreq = "Phaser Center FreqHz"
	ParamPhaserFeedback   = "Phaser Feedback %"
	ParamPhaserMix        = "Phaser Mix %"

	ParamChorusRate        = "Chorus RateHz"
	ParamChorusDepth       = "Chorus Depth %"
	ParamChorusCenterDelay = "Chorus Center Delay ms"
	ParamChorusFeedback    = "Chorus Feedback %"
	ParamChorusMix         = "Chorus Mix %"

	ParamOverdriveSaturation = "OverDrive Saturation"

	ParamLadderMode      = "Ladder Filter Mode"
	ParamLadderCutoff    = "Ladder Filter Cutoff Hz"
	ParamLadderResonance = "Ladder Filter Resonance"
	ParamLadderDrive     = "Ladder Filter Drive"

	ParamFilterMode    = "General Filter Mode"
	ParamFilterFreq    = "General Filter Freq hz"
	ParamFilterQuality = "General Filter Quality"
	ParamFilterGain    = "General Filter Gain"
)

// CreateLayout returns the parameter layout of the rack.
func CreateLayout() param.Layout {
	return param.Layout{
		param.FloatSpec{Name: ParamPhaserRate, Range: param.NewRange(0.01, 2, 0.01), Default: 0.2, Unit: "Hz"},
		param.FloatSpec{Name: ParamPhaserDepth, Range: param.NewRange(0.01, 1, 0.01), Default: 0.05, Unit: "%"},
		param.FloatSpec{Name: ParamPhaserCenterFreq, Range: param.NewRange(20, 20000, 1), Default: 1000, Unit: "Hz"},
		param.FloatSpec{Name: ParamPhaserFeedback, Range: param.NewRange(-1, 1, 0.01), Default: 0, Unit: "%"},
		param.FloatSpec{Name: ParamPhaserMix, Range: param.NewRange(0.01, 1, 0.01), Default: 0.05, Unit: "%"},

		param.FloatSpec{Name: ParamChorusRate, Range: param.NewRange(0.01, 100, 0.01), Default: 0.2, Unit: "Hz"},
		param.FloatSpec{Name: ParamChorusDepth, Range: param.NewRange(0.01, 1, 0.01), Default: 0.05, Unit: "%"},
		param.FloatSpec{Name: ParamChorusCenterDelay, Range: param.NewRange(1, 100, 0.1), Default: 7, Unit: "%"},
		param.FloatSpec{Name: ParamChorusFeedback, Range: param.NewRange(-1, 1, 0.01), Default: 0, Unit: "%"},
		param.FloatSpec{Name: ParamChorusMix, Range: param.NewRange(0.01, 1, 0.01), Default: 0.05, Unit: "%"},

		param.FloatSpec{Name: ParamOverdriveSaturation, Range: param.NewRange(1, 100, 0.1), Default: 1},

		param.ChoiceSpec{Name: ParamLadderMode, Choices: ladder.ModeNames, Default: int(ladder.LPF12)},
		param.FloatSpec{Name: ParamLadderCutoff, Range: param.NewRange(20, 20000, 0.1), Default: 20000},
		param.FloatSpec{Name: ParamLadderResonance, Range: param.NewRange(0, 1, 0.01), Default: 0},
		param.FloatSpec{Name: ParamLadderDrive, Range: param.NewRange(1, 100, 0.1), Default: 1},

		param.ChoiceSpec{Name: ParamFilterMode, Choices: design.ModeNames, Default: int(design.ModePeak)},
		param.FloatSpec{Name: ParamFilterFreq, Range: param.NewRange(20, 20000, 1), Default: 750},
		param.FloatSpec{Name: ParamFilterQuality, Range: param.NewRange(0.1, 10, 0.05), Default: 1},
		param.FloatSpec{Name: ParamFilterGain, Range: param.NewRange(-24, 24, 0.5), Default: 0, Unit: "dB"},
	}
}
