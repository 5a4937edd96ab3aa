/*
 * dcd_test.go
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

package dcd

import (
	"math"
	"path/filepath"
	"testing"

	mdsim "github.com/quimlab/mdsim"
	"github.com/quimlab/mdsim/vec3"
)

//writes a small trajectory and reads it back, checking that frames and
//coordinates survive the trip within float32 precision.
func TestDCDWriteRead(Te *testing.T) {
	const natoms = 5
	const nframes = 4
	name := filepath.Join(Te.TempDir(), "test.dcd")
	traj, err := NewWriter(name, natoms)
	if err != nil {
		Te.Fatal(err)
	}
	written := make([]*vec3.Matrix, 0, nframes)
	for i := 0; i < nframes; i++ {
		mat := vec3.Zeros(natoms)
		for j := 0; j < natoms; j++ {
			mat.Set(j, 0, float64(i)+0.25*float64(j))
			mat.Set(j, 1, -float64(i)*1.5)
			mat.Set(j, 2, float64(j)*float64(j))
		}
		if err := traj.WNext(mat); err != nil {
			Te.Fatal(err)
		}
		written = append(written, mat)
	}
	traj.Close()

	trajR, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer trajR.Close()
	if trajR.Len() != natoms {
		Te.Errorf("wrong number of atoms: got %d, want %d", trajR.Len(), natoms)
	}
	mat := vec3.Zeros(trajR.Len())
	read := 0
	for ; ; read++ {
		err := trajR.Next(mat)
		if err != nil {
			if _, ok := err.(mdsim.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		if read >= nframes {
			Te.Fatalf("read too many frames")
		}
		for j := 0; j < natoms; j++ {
			for k := 0; k < 3; k++ {
				if math.Abs(mat.At(j, k)-written[read].At(j, k)) > 1e-5 {
					Te.Errorf("frame %d atom %d coord %d: got %f, want %f", read, j, k, mat.At(j, k), written[read].At(j, k))
				}
			}
		}
	}
	if read != nframes {
		Te.Errorf("frames read: got %d, want %d", read, nframes)
	}
}

func TestDCDWriteErrors(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "err.dcd")
	traj, err := NewWriter(name, 3)
	if err != nil {
		Te.Fatal(err)
	}
	if err := traj.WNext(nil); err == nil {
		Te.Error("expected an error for nil coordinates")
	}
	if err := traj.WNext(vec3.Zeros(5)); err == nil {
		Te.Error("expected an error for mismatched size")
	}
	traj.Close()
	if err := traj.WNext(vec3.Zeros(3)); err == nil {
		Te.Error("expected an error when writing to a closed trajectory")
	}
}

//a DCD with no frames should be readable but yield a LastFrameError
//on the first Next call.
func TestDCDEmpty(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "empty.dcd")
	traj, err := NewWriter(name, 2)
	if err != nil {
		Te.Fatal(err)
	}
	traj.Close()
	trajR, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer trajR.Close()
	err = trajR.Next(vec3.Zeros(trajR.Len()))
	if err == nil {
		Te.Fatal("expected a LastFrameError on an empty trajectory")
	}
	if _, ok := err.(mdsim.LastFrameError); !ok {
		Te.Errorf("wrong error type: %v", err)
	}
}
