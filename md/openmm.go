/*
 * openmm.go, part of mdsim.
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
//In order to use this part of the library you need the OpenMM toolkit
//and its Python layer, which must be obtained from openmm.org.
//Please cite the OpenMM references if you use this driver.

package md

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	mdsim "github.com/quimlab/mdsim"
)

//OpenMMHandle drives the OpenMM engine through a generated Python
//script. Structure in, trajectory plus observable table out.
type OpenMMHandle struct {
	command   string
	inputname string
}

//NewOpenMMHandle builds an OpenMMHandle with the defaults in place.
func NewOpenMMHandle() *OpenMMHandle {
	O := new(OpenMMHandle)
	O.SetDefaults()
	return O
}

func (O *OpenMMHandle) SetDefaults() {
	O.command = os.ExpandEnv("python3")
}

//SetName sets the name of the job, from which the names of all input
//and output files are derived.
func (O *OpenMMHandle) SetName(name string) {
	O.inputname = name
}

//SetCommand sets the Python interpreter used to run the engine.
func (O *OpenMMHandle) SetCommand(name string) {
	O.command = name
}

func (O *OpenMMHandle) Command() string {
	return O.command
}

//TrajFile returns the name of the DCD trajectory the job writes.
func (O *OpenMMHandle) TrajFile() string {
	return O.inputname + ".dcd"
}

//DataFile returns the name of the observable table the job writes.
func (O *OpenMMHandle) DataFile() string {
	return O.inputname + ".csv"
}

//BuildInput writes the structure and the Python driver script for a
//simulation with the parameters in S. The script solvates the structure,
//minimizes it, and runs Langevin dynamics at constant temperature and,
//if S.Pressure is positive, constant pressure.
func (O *OpenMMHandle) BuildInput(mol *mdsim.Molecule, S *Spec) error {
	if O.inputname == "" {
		O.inputname = "mdsim"
	}
	if mol == nil || S == nil {
		return Error{ErrMissingData, OpenMM, O.inputname, "", []string{"BuildInput"}, true}
	}
	err := mdsim.PDBFileWrite(O.inputname+".pdb", mol)
	if err != nil {
		return Error{ErrCantInput, OpenMM, O.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	script, err := os.Create(O.inputname + ".py")
	if err != nil {
		return Error{ErrCantInput, OpenMM, O.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	defer script.Close()
	constraints := "None"
	if S.ConstrainHBond {
		constraints = "HBonds"
	}
	fmt.Fprintf(script, "from openmm.app import *\n")
	fmt.Fprintf(script, "from openmm import *\n")
	fmt.Fprintf(script, "from openmm.unit import *\n\n")
	fmt.Fprintf(script, "pdb = PDBFile('%s.pdb')\n", O.inputname)
	fmt.Fprintf(script, "forcefield = ForceField('%s', '%s')\n", S.ForceField, S.WaterModel)
	fmt.Fprintf(script, "modeller = Modeller(pdb.topology, pdb.positions)\n")
	fmt.Fprintf(script, "modeller.addSolvent(forcefield, padding=%g*nanometer)\n", S.Padding)
	fmt.Fprintf(script, "system = forcefield.createSystem(modeller.topology, nonbondedMethod=PME,\n")
	fmt.Fprintf(script, "        nonbondedCutoff=1.0*nanometer, constraints=%s)\n", constraints)
	if S.Pressure > 0 {
		fmt.Fprintf(script, "system.addForce(MonteCarloBarostat(%g*bar, %g*kelvin))\n", S.Pressure, S.Temperature)
	}
	fmt.Fprintf(script, "integrator = LangevinMiddleIntegrator(%g*kelvin, %g/picosecond, %g*picoseconds)\n",
		S.Temperature, S.Friction, S.TimeStep)
	fmt.Fprintf(script, "simulation = Simulation(modeller.topology, system, integrator)\n")
	fmt.Fprintf(script, "simulation.context.setPositions(modeller.positions)\n\n")
	fmt.Fprintf(script, "simulation.minimizeEnergy()\n")
	fmt.Fprintf(script, "with open('%s_min.pdb', 'w') as f:\n", O.inputname)
	fmt.Fprintf(script, "    PDBFile.writeFile(simulation.topology,\n")
	fmt.Fprintf(script, "            simulation.context.getState(getPositions=True).getPositions(), f)\n\n")
	fmt.Fprintf(script, "simulation.reporters.append(DCDReporter('%s', %d))\n", O.TrajFile(), S.ReportInterval)
	fmt.Fprintf(script, "simulation.reporters.append(StateDataReporter('%s', %d, step=True,\n", O.DataFile(), S.ReportInterval)
	fmt.Fprintf(script, "        time=True, potentialEnergy=True, totalEnergy=True, temperature=True))\n")
	fmt.Fprintf(script, "simulation.step(%d)\n", S.Steps)
	fmt.Fprintf(script, "print('mdsim: simulation ended normally')\n")
	return nil
}

//Run runs the engine on a previously built job. It waits or not for the
//result depending on wait. Not waiting works only on unix-compatible
//systems, as it uses sh and nohup.
func (O *OpenMMHandle) Run(wait bool) error {
	var err error
	com := fmt.Sprintf(" %s.py > %s.out 2>&1", O.inputname, O.inputname)
	if wait {
		log.Printf(com)
		command := exec.Command("sh", "-c", O.command+com)
		err = command.Run()
	} else {
		command := exec.Command("sh", "-c", "nohup "+O.command+com)
		err = command.Start()
	}
	if err != nil {
		return Error{ErrNotRunning, OpenMM, O.inputname, err.Error(), []string{"exec.Start/Run", "Run"}, true}
	}
	return nil
}

//MinimizedGeometry reads the energy-minimized structure written before
//the production run started.
func (O *OpenMMHandle) MinimizedGeometry() (*mdsim.Molecule, error) {
	if !O.normalTermination() {
		return nil, Error{ErrNoGeometry, OpenMM, O.inputname, ErrProbableFail, []string{"MinimizedGeometry"}, true}
	}
	mol, err := mdsim.PDBFileRead(O.inputname + "_min.pdb")
	if err != nil {
		return nil, Error{ErrNoGeometry, OpenMM, O.inputname, err.Error(), []string{"MinimizedGeometry"}, true}
	}
	return mol, nil
}

//normalTermination checks that the engine's run ended normally.
func (O *OpenMMHandle) normalTermination() bool {
	return searchBackwards("simulation ended normally", fmt.Sprintf("%s.out", O.inputname)) != ""
}

//searchBackwards searches a file backwards, i.e., starting from the end,
//for a string. Returns the line that contains the string, or an empty
//string.
func searchBackwards(str, filename string) string {
	var ini int64 = 0
	var end int64 = 0
	first := true
	buf := make([]byte, 1)
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	var i int64 = 1
	for ; ; i++ {
		if _, err := f.Seek(-1*i, 2); err != nil {
			return ""
		}
		if _, err := f.Read(buf); err != nil {
			return ""
		}
		if buf[0] == byte('\n') && first == false {
			first = true
		} else if buf[0] == byte('\n') && end == 0 {
			end = i
		} else if buf[0] == byte('\n') && ini == 0 {
			ini = i
			f.Seek(-1*(ini), 2)
			bufF := make([]byte, ini-end)
			f.Read(bufF)
			if strings.Contains(string(bufF), str) {
				return string(bufF)
			}
			end = 0
			ini = 0
		}
	}
}
