/*
 * interfaces.go, part of mdsim.
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

import "github.com/quimlab/mdsim/vec3"

// Traj is an interface for any trajectory object, including a Molecule.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into output, or discards it if output is nil.
	//It can also fill the (optional) box with the box vectors, if present in
	//the frame.
	Next(output *vec3.Matrix, box ...[]float64) error

	//Len returns the number of atoms per frame.
	Len() int
}

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// Masser can return a slice with the masses of each atom in the reference.
type Masser interface {

	//Masses returns a slice with the masses of all atoms.
	Masses() ([]float64, error)
}

//Errors

// Error is the interface for errors that all packages in this module
// implement. The Decorate method allows adding and retrieving info from the
// error without changing its type or wrapping it around something else:
// each call appends the caller's name (plus any extra info, in the form
// "FunctionName: Extra info") and returns the resulting slice. Called with
// the empty string it only returns the current value.
type Error interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless method to distinguish the harmless
// end-of-trajectory condition from other TrajErrors, so it can be filtered
// in a type switch.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination()
}
