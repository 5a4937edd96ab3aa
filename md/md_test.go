/*
 * md_test.go
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

package md

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdsim "github.com/quimlab/mdsim"
	"github.com/quimlab/mdsim/vec3"
)

func testMol(Te *testing.T) *mdsim.Molecule {
	ats := []*mdsim.Atom{
		{Name: "N", ID: 1, MolName: "ALA", MolID: 1, Chain: "A", AltLoc: ' ', Symbol: "N", Occupancy: 1},
		{Name: "CA", ID: 2, MolName: "ALA", MolID: 1, Chain: "A", AltLoc: ' ', Symbol: "C", Occupancy: 1},
		{Name: "C", ID: 3, MolName: "ALA", MolID: 1, Chain: "A", AltLoc: ' ', Symbol: "C", Occupancy: 1},
	}
	coords := vec3.Zeros(3)
	coords.Set(1, 0, 1.45)
	coords.Set(2, 0, 2.9)
	mol, err := mdsim.NewMolecule([]*vec3.Matrix{coords}, mdsim.NewTopology(0, 1, ats), nil)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestOpenMMBuildInput(Te *testing.T) {
	mol := testMol(Te)
	S := new(Spec)
	S.SetDefaults()
	S.Steps = 5000
	O := NewOpenMMHandle()
	name := filepath.Join(Te.TempDir(), "job")
	O.SetName(name)
	if err := O.BuildInput(mol, S); err != nil {
		Te.Fatal(err)
	}
	script, err := os.ReadFile(name + ".py")
	if err != nil {
		Te.Fatal(err)
	}
	str := string(script)
	for _, want := range []string{
		"ForceField('amber14-all.xml', 'amber14/tip3pfb.xml')",
		"addSolvent(forcefield, padding=1*nanometer)",
		"constraints=HBonds",
		"MonteCarloBarostat(1*bar, 300*kelvin)",
		"LangevinMiddleIntegrator(300*kelvin, 1/picosecond, 0.002*picoseconds)",
		"minimizeEnergy()",
		"simulation.step(5000)",
	} {
		if !strings.Contains(str, want) {
			Te.Errorf("script misses %q", want)
		}
	}
	if !strings.Contains(str, "DCDReporter('"+O.TrajFile()+"', 100)") {
		Te.Error("script misses the trajectory reporter")
	}
	if !strings.Contains(str, "StateDataReporter('"+O.DataFile()+"', 100") {
		Te.Error("script misses the state-data reporter")
	}
	//the structure has to be there too
	if _, err := os.Stat(name + ".pdb"); err != nil {
		Te.Error("structure file not written")
	}
}

//no barostat line without a pressure.
func TestOpenMMNVT(Te *testing.T) {
	mol := testMol(Te)
	S := new(Spec)
	S.SetDefaults()
	S.Pressure = 0
	S.ConstrainHBond = false
	O := NewOpenMMHandle()
	name := filepath.Join(Te.TempDir(), "nvt")
	O.SetName(name)
	if err := O.BuildInput(mol, S); err != nil {
		Te.Fatal(err)
	}
	script, err := os.ReadFile(name + ".py")
	if err != nil {
		Te.Fatal(err)
	}
	if strings.Contains(string(script), "MonteCarloBarostat") {
		Te.Error("barostat present in an NVT job")
	}
	if !strings.Contains(string(script), "constraints=None") {
		Te.Error("constraints not disabled")
	}
}

func TestOpenMMBuildInputErrors(Te *testing.T) {
	O := NewOpenMMHandle()
	O.SetName(filepath.Join(Te.TempDir(), "bad"))
	if err := O.BuildInput(nil, new(Spec)); err == nil {
		Te.Error("expected an error for a nil molecule")
	}
	if err := O.BuildInput(testMol(Te), nil); err == nil {
		Te.Error("expected an error for nil parameters")
	}
}

func TestGromacsBuildInput(Te *testing.T) {
	mol := testMol(Te)
	S := new(Spec)
	S.SetDefaults()
	G := NewGromacsHandle()
	name := filepath.Join(Te.TempDir(), "gmxjob")
	G.SetName(name)
	if err := G.BuildInput(mol, S); err != nil {
		Te.Fatal(err)
	}
	mdp, err := os.ReadFile(name + ".mdp")
	if err != nil {
		Te.Fatal(err)
	}
	for _, want := range []string{
		"integrator               = sd",
		"dt                       = 0.002",
		"nsteps                   = 10000",
		"ref-t                    = 300",
		"pcoupl                   = C-rescale",
		"constraints              = h-bonds",
	} {
		if !strings.Contains(string(mdp), want) {
			Te.Errorf("mdp misses %q", want)
		}
	}
	em, err := os.ReadFile(name + "_em.mdp")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(em), "integrator               = steep") {
		Te.Error("minimization stage does not use steepest descent")
	}
	sh, err := os.ReadFile(name + ".sh")
	if err != nil {
		Te.Fatal(err)
	}
	for _, want := range []string{
		"pdb2gmx", "editconf", "solvate",
		"mdrun -deffnm " + name + "_em",
		"grompp -f " + name + ".mdp -c " + name + "_em.gro",
		"mdrun -deffnm " + name + "\n",
	} {
		if !strings.Contains(string(sh), want) {
			Te.Errorf("pipeline misses %q", want)
		}
	}
	//the minimization has to run before the production dynamics
	if strings.Index(string(sh), "_em.tpr") > strings.Index(string(sh), name+".tpr") {
		Te.Error("minimization stage comes after the production run")
	}
	//the OpenMM xml names must not leak into the gmx pipeline
	if strings.Contains(string(sh), ".xml") {
		Te.Error("xml force field name leaked into the gmx pipeline")
	}
}

//an OpenMM-style water model must not reach pdb2gmx even when the force
//field name is a valid GROMACS one.
func TestGromacsXMLWaterModel(Te *testing.T) {
	S := new(Spec)
	S.SetDefaults()
	S.ForceField = "charmm27"
	G := NewGromacsHandle()
	name := filepath.Join(Te.TempDir(), "mixed")
	G.SetName(name)
	if err := G.BuildInput(testMol(Te), S); err != nil {
		Te.Fatal(err)
	}
	sh, err := os.ReadFile(name + ".sh")
	if err != nil {
		Te.Fatal(err)
	}
	if strings.Contains(string(sh), ".xml") {
		Te.Error("xml water model name leaked into the gmx pipeline")
	}
	if !strings.Contains(string(sh), "-ff charmm27") {
		Te.Error("the GROMACS force field name was not used")
	}
	if !strings.Contains(string(sh), "-water tip3p") {
		Te.Error("the default water model was not kept")
	}
}

func TestSearchBackwards(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "log.out")
	content := "some line\nanother line\nmdsim: simulation ended normally\ntrailing\n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	if searchBackwards("simulation ended normally", name) == "" {
		Te.Error("marker line not found")
	}
	if searchBackwards("no such thing", name) != "" {
		Te.Error("found a line that is not there")
	}
}
