/*
 * vec3.go, part of mdsim.
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

// Package vec3 contains the coordinate container used throughout mdsim: a
// thin wrapper over gonum's mat.Dense restricted to matrices of 3 columns.
// Within the package it is understood that a "vector" is a row vector, i.e.
// the cartesian coordinates of a point in 3D space.
package vec3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space.
type Matrix struct {
	*mat.Dense
}

// Matrix2Dense returns the gonum Dense underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

// Dense2Matrix wraps a gonum Dense into a Matrix. It panics if the
// matrix doesn't have exactly 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// NVecs returns the number of vectors in the receiver.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// VecView returns a view of the ith vector of the matrix in the receiver.
// Changes in the view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

// View returns a view of F starting from i,j and spanning r rows and
// c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

// SwapVecs swaps the ith and jth vectors of the receiver.
func (F *Matrix) SwapVecs(i, j int) {
	if i >= F.NVecs() || j >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	for k := 0; k < 3; k++ {
		vi := F.At(i, k)
		F.Set(i, k, F.At(j, k))
		F.Set(j, k, vi)
	}
}

// SetMatrix puts the matrix A in the receiver, starting from the ith row
// and jth col of the receiver.
func (F *Matrix) SetMatrix(i, j int, A *Matrix) {
	b := F.RawMatrix()
	ar, ac := A.Dims()
	fc := 3
	if ar+i > F.NVecs() || ac+j > fc {
		panic(ErrShape)
	}
	r := make([]float64, ac)
	for k := 0; k < ar; k++ {
		mat.Row(r, k, A.Dense)
		startpoint := fc*(k+i) + j
		copy(b.Data[startpoint:startpoint+len(r)], r)
	}
}

// SomeVecs puts in the receiver a matrix contaning the vectors of A
// with the indexes in clist. The receiver must have len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if fr != len(clist) {
		panic(ErrShape)
	}
	for k, j := range clist {
		if j >= ar {
			panic(ErrIndexOutOfRange)
		}
		for i := 0; i < 3; i++ {
			F.Set(k, i, A.At(j, i))
		}
	}
}

// SetVecs replaces the vectors of the receiver with indexes in clist by
// the vectors of A, in order.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	fr, _ := F.Dims()
	ar, _ := A.Dims()
	if ar < len(clist) {
		panic(ErrNotEnoughElements)
	}
	for k, j := range clist {
		if j >= fr {
			panic(ErrIndexOutOfRange)
		}
		for i := 0; i < 3; i++ {
			F.Set(j, i, A.At(k, i))
		}
	}
}

// String returns a neat representation of the matrix, mostly for debugging.
func (F *Matrix) String() string {
	r, c := F.Dims()
	s := fmt.Sprintf("%d x %d matrix\n", r, c)
	for i := 0; i < r; i++ {
		s += fmt.Sprintf("%8.3f %8.3f %8.3f\n", F.At(i, 0), F.At(i, 1), F.At(i, 2))
	}
	return s
}

//Errors

// Error is the concrete error type for the package. It implements the
// decorating error scheme used across mdsim.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

// Decorate will add the dec string to the decoration slice of strings of the
// error, and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics. It does satisfy the error
// interface, but for recoverable conditions use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("mdsim/vec3: A Matrix should have 3 columns")
	ErrNotEnoughElements = PanicMsg("mdsim/vec3: not enough elements in Matrix")
	ErrShape             = PanicMsg("mdsim/vec3: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("mdsim/vec3: index out of range")
)
