/*
 * pdb_test.go, part of mdsim.
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
 */

package mdsim

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/quimlab/mdsim/vec3"
)

func TestPDBIO(Te *testing.T) {
	mol, err := PDBFileRead("test/altloc.pdb")
	if err != nil {
		fmt.Println("There was an error!", err.Error())
		Te.Fatal(err)
	}
	fmt.Println("PDB read!", mol.Len(), "atoms")
	if mol.Len() != 18 {
		Te.Errorf("Expected 18 atoms, got %d", mol.Len())
	}
	if mol.LenFrames() != 1 {
		Te.Errorf("Expected 1 frame, got %d", mol.LenFrames())
	}
	at := mol.Atom(9) //the first CB of the split serine
	if at.Name != "CB" || at.AltLoc != 'A' || at.MolName != "SER" {
		Te.Errorf("Wrong atom 10: %+v", at)
	}
	if at.Occupancy != 0.60 {
		Te.Errorf("Wrong occupancy for atom 10: %f", at.Occupancy)
	}
	if at.Chain != "A" || at.MolID != 2 {
		Te.Errorf("Wrong chain/residue for atom 10: %+v", at)
	}
	last := mol.Atom(17)
	if !last.Het || last.MolName != "HOH" {
		Te.Errorf("Expected the last atom to be a HETATM water, got %+v", last)
	}
	if math.Abs(mol.Coords[0].At(0, 0)-11.104) > 0.0001 {
		Te.Errorf("Wrong first coordinate: %f", mol.Coords[0].At(0, 0))
	}
	if mol.Bfactors[0][10] != 14.00 {
		Te.Errorf("Wrong B-factor for atom 11: %f", mol.Bfactors[0][10])
	}
}

func TestPDBRoundTrip(Te *testing.T) {
	mol, err := PDBFileRead("test/altloc.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PDBWrite(&buf, mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := PDBRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() {
		Te.Errorf("Round trip changed the number of atoms: %d vs %d", mol.Len(), mol2.Len())
	}
	for i := 0; i < mol.Len(); i++ {
		a, b := mol.Atom(i), mol2.Atom(i)
		if a.Name != b.Name || a.MolName != b.MolName || a.AltLoc != b.AltLoc || a.Chain != b.Chain {
			Te.Errorf("Atom %d changed in round trip: %+v vs %+v", i, a, b)
		}
		for j := 0; j < 3; j++ {
			if math.Abs(mol.Coords[0].At(i, j)-mol2.Coords[0].At(i, j)) > 0.001 {
				Te.Errorf("Coordinate %d,%d changed in round trip", i, j)
			}
		}
	}
}

// TestPDBTruncated checks that a file cut mid-line parses cleanly instead of
// crashing. A bare "MODEL" with no number and no newline is the worst case.
func TestPDBTruncated(Te *testing.T) {
	pdb := "ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N  \nMODEL"
	mol, err := PDBRead(bytes.NewBufferString(pdb))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 1 || mol.LenFrames() != 1 {
		Te.Errorf("Expected 1 atom in 1 frame, got %d in %d", mol.Len(), mol.LenFrames())
	}
}

// TestPDBMultiModel checks that several MODELs become several coordinate
// frames, and that a multi-frame molecule is readable as a trajectory.
func TestPDBMultiModel(Te *testing.T) {
	mol, err := PDBFileRead("test/altloc.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	second := vec3.Zeros(mol.Len())
	second.Copy(mol.Coords[0].Dense)
	second.Set(0, 0, 42.0)
	mol.AddFrame(second)
	var buf bytes.Buffer
	if err := PDBWrite(&buf, mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := PDBRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.LenFrames() != 2 {
		Te.Fatalf("Expected 2 frames, got %d", mol2.LenFrames())
	}
	if math.Abs(mol2.Coords[1].At(0, 0)-42.0) > 0.001 {
		Te.Errorf("Second frame not preserved: %f", mol2.Coords[1].At(0, 0))
	}
	//Traj interface over the Molecule
	if err := mol2.InitRead(); err != nil {
		Te.Fatal(err)
	}
	frames := 0
	out := vec3.Zeros(mol2.Len())
	for {
		err := mol2.Next(out)
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		frames++
	}
	if frames != 2 {
		Te.Errorf("Read %d frames from the molecule, expected 2", frames)
	}
	fmt.Println("frames read from the Molecule-as-Traj:", frames)
}
