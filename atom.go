/*
 * atom.go, part of mdsim.
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
	"fmt"

	"github.com/quimlab/mdsim/vec3"
)

// Atom contains the per-atom data read from a structure file, except for the
// coordinates and B-factors, which are stored separately, per frame.
type Atom struct {
	Name      string //PDB atom name
	ID        int    //The PDB serial number
	MolName   string //The residue name, as read
	MolName1  byte   //One-letter name for residues and nucleotides
	MolID     int    //Residue sequence number
	Chain     string
	AltLoc    byte //Alternate-location indicator, ' ' if absent
	Mass      float64
	Occupancy float64
	Charge    float64
	Symbol    string
	Het       bool //Was this a HETATM record?
}

// Copy returns a copy of the Atom.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic(ErrNilAtom)
	}
	at := *A
	return &at
}

// Topology contains the information about a molecule which is not expected
// to change in time, i.e. everything except for coordinates and B-factors.
type Topology struct {
	Atoms  []*Atom
	charge int
	multi  int
}

// NewTopology returns a topology with the given atoms, charge and
// multiplicity. A nil ats is allowed, and produces an empty topology.
func NewTopology(charge, multi int, ats []*Atom) *Topology {
	if ats == nil {
		ats = make([]*Atom, 0)
	}
	return &Topology{Atoms: ats, charge: charge, multi: multi}
}

// Charge returns the total charge of the topology.
func (T *Topology) Charge() int { return T.charge }

// Multi returns the multiplicity of the topology.
func (T *Topology) Multi() int { return T.multi }

// SetCharge sets the total charge of the topology to i.
func (T *Topology) SetCharge(i int) { T.charge = i }

// SetMulti sets the multiplicity of the topology to i.
func (T *Topology) SetMulti(i int) { T.multi = i }

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int { return len(T.Atoms) }

// Atom returns the Atom corresponding to the index i. It panics if i is out
// of range, as asking for a non-existing atom means the program is wrong.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	return T.Atoms[i]
}

// SetAtom sets the ith Atom of the topology to at. Panics if out of range.
func (T *Topology) SetAtom(i int, at *Atom) {
	if i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	T.Atoms[i] = at
}

// AppendAtom appends an atom at the end of the topology.
func (T *Topology) AppendAtom(at *Atom) {
	T.Atoms = append(T.Atoms, at)
}

// CopyAtoms returns a deep copy of the topology.
func (T *Topology) CopyAtoms() *Topology {
	ats := make([]*Atom, T.Len())
	for i, v := range T.Atoms {
		ats[i] = v.Copy()
	}
	return &Topology{Atoms: ats, charge: T.charge, multi: T.multi}
}

// Masses returns a slice with the masses of all atoms, or an error if not
// all masses have been assigned.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i := 0; i < T.Len(); i++ {
		at := T.Atom(i)
		if at.Mass == 0 {
			return nil, CError{fmt.Sprintf("Not all the masses have been obtained: %d %v", i, at), []string{"Masses"}}
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

// Molecule contains all the info for a molecule in one or several states.
// The data expected to change between states, i.e. coordinates and
// B-factors, are stored separately from the atom data.
type Molecule struct {
	*Topology
	Coords   []*vec3.Matrix
	Bfactors [][]float64
	current  int
}

// NewMolecule makes a molecule from the given coordinate frames, topology
// and (optionally nil) B-factors. It checks that every frame matches the
// number of atoms in the topology.
func NewMolecule(coords []*vec3.Matrix, top *Topology, bfactors [][]float64) (*Molecule, error) {
	if top == nil {
		return nil, CError{"Supplied a nil Topology", []string{"NewMolecule"}}
	}
	if coords == nil {
		return nil, CError{"Supplied a nil Coords slice", []string{"NewMolecule"}}
	}
	mol := &Molecule{Topology: top, Coords: coords, Bfactors: bfactors}
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

// Corrupted checks that the coordinates match the number of atoms in every
// frame. Missing or incomplete B-factors are not considered corruption;
// they are filled with zeros.
func (M *Molecule) Corrupted() error {
	if M.Bfactors == nil {
		M.Bfactors = make([][]float64, 0, len(M.Coords))
	}
	for i := range M.Coords {
		if M.Len() != M.Coords[i].NVecs() {
			return CError{fmt.Sprintf("Inconsistent coordinates/atoms in frame %d: Atoms %d, coords: %d", i, M.Len(), M.Coords[i].NVecs()), []string{"Corrupted"}}
		}
		if len(M.Bfactors) <= i {
			M.Bfactors = append(M.Bfactors, make([]float64, M.Len()))
		} else if len(M.Bfactors[i]) < M.Len() {
			M.Bfactors[i] = make([]float64, M.Len())
		}
	}
	return nil
}

// Copy returns a deep copy of the molecule, including coordinates.
func (M *Molecule) Copy() *Molecule {
	if err := M.Corrupted(); err != nil {
		panic(err.Error()) //copying a corrupted molecule means that the program is wrong.
	}
	top := M.CopyAtoms()
	coords := make([]*vec3.Matrix, 0, len(M.Coords))
	bfacs := make([][]float64, 0, len(M.Bfactors))
	for i, v := range M.Coords {
		c := vec3.Zeros(v.NVecs())
		c.Copy(v.Dense)
		coords = append(coords, c)
		b := make([]float64, len(M.Bfactors[i]))
		copy(b, M.Bfactors[i])
		bfacs = append(bfacs, b)
	}
	mol := &Molecule{Topology: top, Coords: coords, Bfactors: bfacs}
	return mol
}

// AddFrame appends a matrix of coordinates to the molecule. It checks that
// the number of coordinates matches the number of atoms.
func (M *Molecule) AddFrame(newframe *vec3.Matrix) {
	if newframe == nil {
		panic(ErrNilFrame)
	}
	if M.Len() != newframe.NVecs() {
		panic(fmt.Sprintf("Wrong number of coordinates (%d)", newframe.NVecs()))
	}
	if M.Coords == nil {
		M.Coords = make([]*vec3.Matrix, 0, 1)
	}
	M.Coords = append(M.Coords, newframe)
}

// LenFrames returns the number of frames in the molecule.
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

// Coord returns the coordinates of atom atom in frame frame, as a 1x3
// matrix view. Panics if out of range.
func (M *Molecule) Coord(atom, frame int) *vec3.Matrix {
	if frame >= len(M.Coords) {
		panic(fmt.Sprintf("Frame requested (%d) out of range", frame))
	}
	return M.Coords[frame].VecView(atom)
}

/******************************************
The following implement the Traj interface,
so a multi-frame Molecule can be used wherever
a trajectory is expected.
*******************************************/

// Readable returns true if the molecule exists and has coordinates left
// to be read.
func (M *Molecule) Readable() bool {
	return M != nil && M.Coords != nil && M.current < len(M.Coords)
}

// InitRead sets the molecule to be read as a trajectory, from the first
// frame.
func (M *Molecule) InitRead() error {
	if M == nil || len(M.Coords) == 0 {
		return CError{"Bad molecule", []string{"InitRead"}}
	}
	M.current = 0
	return nil
}

// Next copies the next frame into output, or discards it if output is nil.
func (M *Molecule) Next(output *vec3.Matrix, box ...[]float64) error {
	if M.current >= len(M.Coords) {
		return newlastFrameError("", "Next")
	}
	M.current++
	if output == nil {
		return nil
	}
	output.Copy(M.Coords[M.current-1].Dense)
	return nil
}

/**End Traj interface implementation***********/
