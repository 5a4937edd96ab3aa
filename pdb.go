/*
 * pdb.go, part of mdsim.
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
 *
 */

package mdsim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/quimlab/mdsim/vec3"
)

// isCoordRecord returns whether a PDB line is an atomic coordinate record.
func isCoordRecord(line string) bool {
	return strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM")
}

// parsePDBLine parses a valid ATOM or HETATM line of a PDB file and returns
// an Atom with the info except for the coordinates and B-factor, which are
// returned separately.
func parsePDBLine(line string) (*Atom, [3]float64, float64, error) {
	var coords [3]float64
	var bfactor float64
	if len(line) < 54 {
		return nil, coords, 0, CError{fmt.Sprintf("PDB line too short: %q", line), []string{"parsePDBLine"}}
	}
	err := make([]error, 7)
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.AltLoc = line[16]
	atom.MolName = strings.TrimSpace(line[17:20])
	atom.MolName1 = three2OneLetter[atom.MolName]
	atom.Chain = line[21:22]
	atom.MolID, err[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], err[2] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], err[3] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], err[4] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	//Occupancy and B-factor are sometimes left out. We take them as zero then.
	if len(line) >= 60 && strings.TrimSpace(line[54:60]) != "" {
		atom.Occupancy, err[5] = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	}
	if len(line) >= 66 && strings.TrimSpace(line[60:66]) != "" {
		bfactor, err[6] = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	}
	if len(line) >= 78 {
		atom.Symbol = strings.TrimSpace(line[76:78])
	}
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name) //no error checking, an empty symbol is tolerated.
	}
	for _, e := range err {
		if e != nil {
			return nil, coords, 0, CError{fmt.Sprintf("Failed to parse PDB line %q: %s", line, e.Error()), []string{"parsePDBLine"}}
		}
	}
	if atom.Symbol != "" {
		atom.Mass = symbolMass[atom.Symbol]
	}
	return atom, coords, bfactor, nil
}

// PDBRead reads a PDB structure from an io.Reader and returns a Molecule.
// If the PDB contains several MODELs the returned molecule has the
// corresponding number of coordinate frames; the atom data is read from the
// first model only, as it is the same in all of them.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	buf := bufio.NewReader(pdb)
	molecule := make([]*Atom, 0, 100)
	coords := make([][]float64, 1)
	coords[0] = make([]float64, 0, 300)
	bfactors := make([][]float64, 1)
	bfactors[0] = make([]float64, 0, 100)
	firstModel := true
	for {
		line, err := buf.ReadString('\n')
		if err != nil && len(line) < 4 {
			break
		}
		switch {
		case isCoordRecord(line):
			atom, c, bfac, err2 := parsePDBLine(line)
			if err2 != nil {
				return nil, errDecorate(err2, "PDBRead")
			}
			if firstModel {
				molecule = append(molecule, atom)
			}
			last := len(coords) - 1
			coords[last] = append(coords[last], c[0], c[1], c[2])
			bfactors[last] = append(bfactors[last], bfac)
		case strings.HasPrefix(line, "MODEL") && len(line) > 6:
			modelnumber, _ := strconv.Atoi(strings.TrimSpace(line[6:]))
			if modelnumber > 1 {
				firstModel = false
				coords = append(coords, make([]float64, 0, len(coords[0])))
				bfactors = append(bfactors, make([]float64, 0, len(bfactors[0])))
			}
		}
		if err != nil {
			break
		}
	}
	top := NewTopology(0, 1, molecule)
	mcoords := make([]*vec3.Matrix, 0, len(coords))
	for i, c := range coords {
		//A trailing MODEL line with no atoms would leave an empty frame behind.
		if len(c) == 0 {
			bfactors = bfactors[:i]
			break
		}
		m, err := vec3.NewMatrix(c)
		if err != nil {
			return nil, CError{fmt.Sprintf("Couldn't build coordinates for frame %d: %s", i, err.Error()), []string{"PDBRead"}}
		}
		mcoords = append(mcoords, m)
	}
	mol, err := NewMolecule(mcoords, top, bfactors)
	if err != nil {
		return nil, errDecorate(err, "PDBRead")
	}
	return mol, nil
}

// PDBFileRead reads a PDB file and returns a Molecule.
func PDBFileRead(pdbname string) (*Molecule, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, err
	}
	defer pdbfile.Close()
	mol, err := PDBRead(pdbfile)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead "+pdbname)
	}
	return mol, nil
}

// writePDBLine writes one ATOM/HETATM record. PDB atom names of less than 4
// characters start one column later than 4-character ones.
func writePDBLine(out io.Writer, at *Atom, x, y, z, bfac float64) error {
	first := "ATOM"
	if at.Het {
		first = "HETATM"
	}
	altloc := at.AltLoc
	if altloc == 0 {
		altloc = ' '
	}
	chain := at.Chain
	if chain == "" {
		chain = " "
	}
	var err error
	if len(at.Name) < 4 {
		_, err = fmt.Fprintf(out, "%-6s%5d  %-3s%c%3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
			first, at.ID, at.Name, altloc, at.MolName, chain, at.MolID, x, y, z, at.Occupancy, bfac, at.Symbol)
	} else if len(at.Name) == 4 {
		_, err = fmt.Fprintf(out, "%-6s%5d %4s%c%3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
			first, at.ID, at.Name, altloc, at.MolName, chain, at.MolID, x, y, z, at.Occupancy, bfac, at.Symbol)
	} else {
		err = CError{"Can't print PDB line: atom name too long: " + at.Name, []string{"writePDBLine"}}
	}
	return err
}

// PDBWrite writes the molecule mol to out in PDB format, one MODEL per
// coordinate frame.
func PDBWrite(out io.Writer, mol *Molecule) error {
	if err := mol.Corrupted(); err != nil {
		return errDecorate(err, "PDBWrite")
	}
	fmt.Fprint(out, "REMARK     WRITTEN WITH MDSIM\n")
	for j := range mol.Coords {
		chainprev := mol.Atoms[0].Chain //to know when the chain changes.
		fmt.Fprintf(out, "MODEL %d\n", j+1)
		for i, at := range mol.Atoms {
			if at.Chain != chainprev {
				fmt.Fprintln(out, "TER")
				chainprev = at.Chain
			}
			c := mol.Coords[j]
			err := writePDBLine(out, at, c.At(i, 0), c.At(i, 1), c.At(i, 2), mol.Bfactors[j][i])
			if err != nil {
				return errDecorate(err, "PDBWrite")
			}
		}
		fmt.Fprint(out, "ENDMDL\n")
	}
	fmt.Fprint(out, "END\n")
	return nil
}

// PDBFileWrite writes the molecule mol to a PDB file with the given name.
func PDBFileWrite(pdbname string, mol *Molecule) error {
	out, err := os.Create(pdbname)
	if err != nil {
		return err
	}
	defer out.Close()
	err = PDBWrite(out, mol)
	if err != nil {
		return errDecorate(err, "PDBFileWrite "+pdbname)
	}
	return nil
}

// FrameToPDB writes the given frame of mol as a single-model PDB file, for
// inspecting individual trajectory snapshots in any molecular viewer.
func FrameToPDB(pdbname string, mol *Molecule, frame int) error {
	if frame < 0 || frame >= mol.LenFrames() {
		return CError{fmt.Sprintf("Frame %d out of range (%d frames)", frame, mol.LenFrames()), []string{"FrameToPDB"}}
	}
	single := &Molecule{Topology: mol.Topology, Coords: mol.Coords[frame : frame+1], Bfactors: mol.Bfactors[frame : frame+1]}
	return PDBFileWrite(pdbname, single)
}
