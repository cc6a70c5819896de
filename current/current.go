// Copyright (c) 2024, The SpikingFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package current provides spike-to-current transform stages for a sim chain.

A spiking unit emits a binary signal (any value > 0 counts as a spike);
downstream units integrate input currents.  These stages sit between the
two, converting each spike into either a fixed-amplitude instantaneous
current (SpikeCurrent) or a contribution to an exponentially decaying
accumulated current (ExpDecayCurrent).
*/
package current

import (
	"github.com/emer/emergent/v2/erand"
	"github.com/emer/etable/v2/etensor"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// SpikeCurrent emits a fixed-amplitude current for every spiking element of
// its input, and zero elsewhere.  It is stateless: the current lasts
// exactly one time unit.
type SpikeCurrent struct {
	Amp float32 `def:"1" min:"0" desc:"current amplitude emitted for each spiking input element"`
}

var KiT_SpikeCurrent = kit.Types.AddType(&SpikeCurrent{}, nil)

// NewSpikeCurrent returns a SpikeCurrent stage with the given amplitude
func NewSpikeCurrent(amp float32) *SpikeCurrent {
	return &SpikeCurrent{Amp: amp}
}

func (sc *SpikeCurrent) Defaults() {
	sc.Amp = 1
}

func (sc *SpikeCurrent) Name() string { return "SpikeCurrent" }

func (sc *SpikeCurrent) Transform(x *etensor.Float32) (*etensor.Float32, error) {
	out := etensor.NewFloat32(x.Shape.Shp, nil, nil)
	for i, v := range x.Values {
		if v > 0 {
			out.Values[i] = sc.Amp
		}
	}
	return out, nil
}

func (sc *SpikeCurrent) Reset() {}

// NoiseParams are parameters for optional additive noise on an emitted
// current, to model background synaptic bombardment.
type NoiseParams struct {
	erand.RndParams
	On bool `desc:"whether to add noise to the emitted current"`
}

func (np *NoiseParams) Defaults() {
	np.On = false
	np.Dist = erand.Gaussian
	np.Mean = 0
	np.Var = 0.01
}

// ExpDecayCurrent accumulates a current that decays exponentially toward
// zero with time constant Tau, incremented by Amp for every spiking input
// element.  The accumulated current is internal state that persists across
// steps until Reset.
type ExpDecayCurrent struct {
	Tau   float32         `def:"5" min:"1" desc:"decay time constant, in simulation steps"`
	Amp   float32         `def:"1" min:"0" desc:"current increment per input spike"`
	Noise NoiseParams     `view:"inline" desc:"optional additive noise on the emitted current"`
	I     etensor.Float32 `view:"-" desc:"accumulated current -- shaped lazily from the first input"`
	Decay float32         `inactive:"+" view:"-" json:"-" xml:"-" desc:"per-step decay factor = exp(-1/tau)"`
}

var KiT_ExpDecayCurrent = kit.Types.AddType(&ExpDecayCurrent{}, nil)

// NewExpDecayCurrent returns an ExpDecayCurrent stage with the given
// time constant and amplitude
func NewExpDecayCurrent(tau, amp float32) *ExpDecayCurrent {
	ec := &ExpDecayCurrent{Tau: tau, Amp: amp}
	ec.Noise.Defaults()
	ec.Update()
	return ec
}

func (ec *ExpDecayCurrent) Defaults() {
	ec.Tau = 5
	ec.Amp = 1
	ec.Noise.Defaults()
	ec.Update()
}

// Update computes the per-step decay factor from Tau
func (ec *ExpDecayCurrent) Update() {
	ec.Decay = mat32.FastExp(-1 / ec.Tau)
}

func (ec *ExpDecayCurrent) Name() string { return "ExpDecayCurrent" }

func (ec *ExpDecayCurrent) Transform(x *etensor.Float32) (*etensor.Float32, error) {
	if ec.Decay == 0 {
		ec.Update()
	}
	if ec.I.Len() != x.Len() {
		ec.I.SetShape(x.Shape.Shp, nil, nil)
		ec.I.SetZeros()
	}
	out := etensor.NewFloat32(x.Shape.Shp, nil, nil)
	for i, v := range x.Values {
		ic := ec.I.Values[i] * ec.Decay
		if v > 0 {
			ic += ec.Amp
		}
		ec.I.Values[i] = ic
		if ec.Noise.On {
			ic += float32(ec.Noise.Gen(-1))
		}
		out.Values[i] = ic
	}
	return out, nil
}

// Reset zeros the accumulated current, keeping its shape
func (ec *ExpDecayCurrent) Reset() {
	ec.I.SetZeros()
}
