/*
 * md.go, part of mdsim.
 *
 * Copyright 2026 The mdsim developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

//Package md drives external molecular dynamics engines. The package does
//not evaluate forces or integrate anything itself: it builds the input
//for an engine which has to be installed separately, runs it, and
//recovers the results. The physics belongs to the engine; the citations
//belong to the engine's authors.
package md

import (
	mdsim "github.com/quimlab/mdsim"
)

//Handle allows to set up and run MD simulations with different engines.
type Handle interface {
	//SetName sets the name for the job, used for input
	//and output files. The extensions depend on the engine.
	SetName(name string)

	//BuildInput builds the engine's input from the molecule
	//and the simulation parameters in S.
	BuildInput(mol *mdsim.Molecule, S *Spec) error

	//Run runs the engine for a simulation previously set up.
	//It waits or not for the result depending on the value of wait.
	Run(wait bool) error

	//MinimizedGeometry reads the energy-minimized structure produced
	//before the production run, or an error if it is not there.
	MinimizedGeometry() (*mdsim.Molecule, error)

	//Output file names for the trajectory and the observable table
	//of the previously-set job.
	TrajFile() string
	DataFile() string
}

//Spec holds the parameters of an MD simulation, to be translated to a
//concrete input by a Handle. Note that the defaults are NOT part of the
//API and can change at any time.
type Spec struct {
	ForceField     string  //e.g. "amber14-all.xml"
	WaterModel     string  //e.g. "amber14/tip3pfb.xml"
	Padding        float64 //solvation box padding around the solute, nm
	Temperature    float64 //K
	Pressure       float64 //bar; 0 means no barostat
	TimeStep       float64 //ps
	Friction       float64 //Langevin friction, 1/ps
	Steps          int     //production steps
	ReportInterval int     //steps between trajectory/observable samples
	ConstrainHBond bool    //constrain bonds involving hydrogen
}

//SetDefaults puts in place a usual set of aqueous-solution simulation
//parameters: the Amber14 force field with TIP3P-FB water, 1 nm of
//padding, 300 K, 1 bar, a 2 fs time step and 1/ps of friction.
func (S *Spec) SetDefaults() {
	S.ForceField = "amber14-all.xml"
	S.WaterModel = "amber14/tip3pfb.xml"
	S.Padding = 1.0
	S.Temperature = 300
	S.Pressure = 1
	S.TimeStep = 0.002
	S.Friction = 1.0
	S.Steps = 10000
	S.ReportInterval = 100
	S.ConstrainHBond = true
}
