// Copyright (c) 2024, The SpikingFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spikingflow is the overall repository for the SpikingFlow pipelined
spiking-network simulation code implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* sim: the core pipelined time-step simulator -- an ordered chain of
stateful signal-transforming stages advanced one simulated time unit per
Step call, with a single reusable buffer realizing a genuine
one-time-unit-per-stage propagation delay, and an optional fast-start mode
that collapses the startup transient into the first call.

* current: spike-to-current transform stages (fixed-amplitude and
exponentially decaying currents) that plug into a sim chain between spiking
sources and downstream units.

* steplog: per-step trace recording into etable.Table data tables, for
analysis of simulator output over time.

* examples: these compile into runnable programs; examples/chain steps a
small spike -> current chain and prints its trace table.
*/
package spikingflow
