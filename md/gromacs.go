/*
 * gromacs.go, part of mdsim.
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
//In order to use this part of the library you need the GROMACS package,
//which must be obtained from gromacs.org. Please cite the GROMACS
//references if you use this driver.

package md

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	mdsim "github.com/quimlab/mdsim"
)

//GromacsHandle drives the GROMACS engine through a generated .mdp
//parameter file and the usual pdb2gmx/solvate/grompp/mdrun pipeline.
type GromacsHandle struct {
	command    string
	inputname  string
	forcefield string
	watermodel string
}

//NewGromacsHandle builds a GromacsHandle with the defaults in place.
func NewGromacsHandle() *GromacsHandle {
	G := new(GromacsHandle)
	G.SetDefaults()
	return G
}

func (G *GromacsHandle) SetDefaults() {
	G.command = os.ExpandEnv("gmx")
	G.forcefield = "amber99sb-ildn"
	G.watermodel = "tip3p"
}

//SetName sets the name of the job, from which the names of all input
//and output files are derived.
func (G *GromacsHandle) SetName(name string) {
	G.inputname = name
}

//SetCommand sets the gmx wrapper binary used to run the engine.
func (G *GromacsHandle) SetCommand(name string) {
	G.command = name
}

func (G *GromacsHandle) Command() string {
	return G.command
}

//TrajFile returns the name of the trajectory the job writes. GROMACS
//writes its own compressed format, not DCD.
func (G *GromacsHandle) TrajFile() string {
	return G.inputname + ".xtc"
}

//DataFile returns the name of the energy file the job writes.
func (G *GromacsHandle) DataFile() string {
	return G.inputname + ".edr"
}

//BuildInput writes the structure, the .mdp parameter files for the
//minimization and production stages, and a shell script with the
//preparation pipeline for a simulation with the parameters in S. The
//GROMACS force field and water model names differ from the OpenMM XML
//ones; each of S.ForceField and S.WaterModel is used only if it looks
//like a GROMACS name (no ".xml" suffix), otherwise the handle's default
//for that field is kept.
func (G *GromacsHandle) BuildInput(mol *mdsim.Molecule, S *Spec) error {
	if G.inputname == "" {
		G.inputname = "mdsim"
	}
	if mol == nil || S == nil {
		return Error{ErrMissingData, Gromacs, G.inputname, "", []string{"BuildInput"}, true}
	}
	if S.ForceField != "" && !strings.HasSuffix(S.ForceField, ".xml") {
		G.forcefield = S.ForceField
	}
	if S.WaterModel != "" && !strings.HasSuffix(S.WaterModel, ".xml") {
		G.watermodel = S.WaterModel
	}
	err := mdsim.PDBFileWrite(G.inputname+".pdb", mol)
	if err != nil {
		return Error{ErrCantInput, Gromacs, G.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	mdp, err := os.Create(G.inputname + ".mdp")
	if err != nil {
		return Error{ErrCantInput, Gromacs, G.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	defer mdp.Close()
	fmt.Fprintf(mdp, "integrator               = sd\n") //Langevin dynamics
	fmt.Fprintf(mdp, "dt                       = %g\n", S.TimeStep)
	fmt.Fprintf(mdp, "nsteps                   = %d\n", S.Steps)
	fmt.Fprintf(mdp, "nstxout-compressed       = %d\n", S.ReportInterval)
	fmt.Fprintf(mdp, "nstenergy                = %d\n", S.ReportInterval)
	fmt.Fprintf(mdp, "coulombtype              = PME\n")
	fmt.Fprintf(mdp, "rcoulomb                 = 1.0\n")
	fmt.Fprintf(mdp, "rvdw                     = 1.0\n")
	if S.ConstrainHBond {
		fmt.Fprintf(mdp, "constraints              = h-bonds\n")
	}
	fmt.Fprintf(mdp, "tc-grps                  = System\n")
	fmt.Fprintf(mdp, "tau-t                    = %g\n", 1.0/S.Friction)
	fmt.Fprintf(mdp, "ref-t                    = %g\n", S.Temperature)
	if S.Pressure > 0 {
		fmt.Fprintf(mdp, "pcoupl                   = C-rescale\n")
		fmt.Fprintf(mdp, "ref-p                    = %g\n", S.Pressure)
		fmt.Fprintf(mdp, "compressibility          = 4.5e-5\n")
	}
	//steepest-descent minimization to remove bad contacts from solvation,
	//run before the production dynamics.
	em, err := os.Create(G.inputname + "_em.mdp")
	if err != nil {
		return Error{ErrCantInput, Gromacs, G.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	defer em.Close()
	fmt.Fprintf(em, "integrator               = steep\n")
	fmt.Fprintf(em, "emtol                    = 1000.0\n")
	fmt.Fprintf(em, "emstep                   = 0.01\n")
	fmt.Fprintf(em, "nsteps                   = 50000\n")
	fmt.Fprintf(em, "coulombtype              = PME\n")
	fmt.Fprintf(em, "rcoulomb                 = 1.0\n")
	fmt.Fprintf(em, "rvdw                     = 1.0\n")
	sh, err := os.Create(G.inputname + ".sh")
	if err != nil {
		return Error{ErrCantInput, Gromacs, G.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	defer sh.Close()
	n := G.inputname
	fmt.Fprintf(sh, "set -e\n")
	fmt.Fprintf(sh, "%s pdb2gmx -f %s.pdb -o %s_proc.gro -water %s -ff %s\n", G.command, n, n, G.watermodel, G.forcefield)
	fmt.Fprintf(sh, "%s editconf -f %s_proc.gro -o %s_box.gro -c -d %g -bt cubic\n", G.command, n, n, S.Padding)
	fmt.Fprintf(sh, "%s solvate -cp %s_box.gro -cs spc216.gro -o %s_solv.gro -p topol.top\n", G.command, n, n)
	fmt.Fprintf(sh, "%s grompp -f %s_em.mdp -c %s_solv.gro -p topol.top -o %s_em.tpr\n", G.command, n, n, n)
	fmt.Fprintf(sh, "%s mdrun -deffnm %s_em\n", G.command, n)
	fmt.Fprintf(sh, "%s editconf -f %s_em.gro -o %s_em.pdb\n", G.command, n, n)
	fmt.Fprintf(sh, "%s grompp -f %s.mdp -c %s_em.gro -p topol.top -o %s.tpr\n", G.command, n, n, n)
	fmt.Fprintf(sh, "%s mdrun -deffnm %s\n", G.command, n)
	fmt.Fprintf(sh, "echo 'mdsim: simulation ended normally'\n")
	return nil
}

//Run runs the prepared pipeline. It waits or not for the result
//depending on wait. Not waiting works only on unix-compatible systems,
//as it uses sh and nohup.
func (G *GromacsHandle) Run(wait bool) error {
	var err error
	com := fmt.Sprintf("sh %s.sh > %s.out 2>&1", G.inputname, G.inputname)
	if wait {
		log.Printf(com)
		command := exec.Command("sh", "-c", com)
		err = command.Run()
	} else {
		command := exec.Command("sh", "-c", "nohup "+com)
		err = command.Start()
	}
	if err != nil {
		return Error{ErrNotRunning, Gromacs, G.inputname, err.Error(), []string{"exec.Start/Run", "Run"}, true}
	}
	return nil
}

//MinimizedGeometry reads the energy-minimized structure written by the
//pipeline before the production run started.
func (G *GromacsHandle) MinimizedGeometry() (*mdsim.Molecule, error) {
	if searchBackwards("simulation ended normally", fmt.Sprintf("%s.out", G.inputname)) == "" {
		return nil, Error{ErrNoGeometry, Gromacs, G.inputname, ErrProbableFail, []string{"MinimizedGeometry"}, true}
	}
	mol, err := mdsim.PDBFileRead(G.inputname + "_em.pdb")
	if err != nil {
		return nil, Error{ErrNoGeometry, Gromacs, G.inputname, err.Error(), []string{"MinimizedGeometry"}, true}
	}
	return mol, nil
}
