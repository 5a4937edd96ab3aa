/*
 * stf_test.go
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

package stf

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	mdsim "github.com/quimlab/mdsim"
	"github.com/quimlab/mdsim/vec3"
)

func writeReadTrip(Te *testing.T, name string) {
	const natoms = 4
	const nframes = 3
	header := map[string]string{"title": "test trajectory"}
	traj, err := NewWriter(name, natoms, header)
	if err != nil {
		Te.Fatal(err)
	}
	written := make([]*vec3.Matrix, 0, nframes)
	box := []float64{10, 0, 0, 0, 10, 0, 0, 0, 10}
	for i := 0; i < nframes; i++ {
		mat := vec3.Zeros(natoms)
		for j := 0; j < natoms; j++ {
			mat.Set(j, 0, 1.25*float64(i+j))
			mat.Set(j, 1, -0.5*float64(i))
			mat.Set(j, 2, float64(j))
		}
		if err := traj.WNext(mat, box); err != nil {
			Te.Fatal(err)
		}
		written = append(written, mat)
	}
	traj.Close()

	trajR, meta, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if meta == nil || meta["title"] != "test trajectory" {
		Te.Errorf("header metadata lost: %v", meta)
	}
	if trajR.Len() != natoms {
		Te.Errorf("wrong number of atoms: got %d, want %d", trajR.Len(), natoms)
	}
	mat := vec3.Zeros(natoms)
	rbox := make([]float64, 9)
	read := 0
	for ; ; read++ {
		err := trajR.Next(mat, rbox)
		if err != nil {
			if _, ok := err.(mdsim.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		for j := 0; j < natoms; j++ {
			for k := 0; k < 3; k++ {
				//2 decimals kept by default
				if math.Abs(mat.At(j, k)-written[read].At(j, k)) > 0.005 {
					Te.Errorf("frame %d atom %d coord %d: got %f, want %f", read, j, k, mat.At(j, k), written[read].At(j, k))
				}
			}
		}
		if rbox[0] != 10 || rbox[4] != 10 || rbox[8] != 10 {
			Te.Errorf("box not recovered: %v", rbox)
		}
	}
	if read != nframes {
		Te.Errorf("frames read: got %d, want %d", read, nframes)
	}
}

func TestSTFZstd(Te *testing.T) {
	writeReadTrip(Te, filepath.Join(Te.TempDir(), "test.stf"))
}

func TestSTFGzip(Te *testing.T) {
	writeReadTrip(Te, filepath.Join(Te.TempDir(), "test.stz"))
}

func TestSTFFlate(Te *testing.T) {
	writeReadTrip(Te, filepath.Join(Te.TempDir(), "test.str"))
}

//two writes of the same data must produce the same bytes, so the header
//can't depend on map iteration order. A bad compression level must not
//leave the file handle behind.
func TestSTFDeterministicWrite(Te *testing.T) {
	header := map[string]string{"title": "same trajectory", "engine": "none", "prec": "2"}
	write := func(name string) []byte {
		traj, err := NewWriter(name, 2, header)
		if err != nil {
			Te.Fatal(err)
		}
		mat := vec3.Zeros(2)
		mat.Set(1, 0, 3.25)
		if err := traj.WNext(mat); err != nil {
			Te.Fatal(err)
		}
		traj.Close()
		b, err := os.ReadFile(name)
		if err != nil {
			Te.Fatal(err)
		}
		return b
	}
	dir := Te.TempDir()
	a := write(filepath.Join(dir, "a.str"))
	b := write(filepath.Join(dir, "b.str"))
	if !bytes.Equal(a, b) {
		Te.Error("two writes of the same trajectory differ")
	}
	if _, err := NewWriter(filepath.Join(dir, "bad.stz"), 2, nil, 1000); err == nil {
		Te.Error("expected an error for an invalid gzip compression level")
	}
}

//higher precision requested through the header.
func TestSTFPrecision(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "prec.stf")
	traj, err := NewWriter(name, 1, map[string]string{"prec": "4"})
	if err != nil {
		Te.Fatal(err)
	}
	mat := vec3.Zeros(1)
	mat.Set(0, 0, 1.2345)
	mat.Set(0, 1, -2.0001)
	mat.Set(0, 2, 0.0004)
	if err := traj.WNext(mat); err != nil {
		Te.Fatal(err)
	}
	traj.Close()
	trajR, meta, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if meta["prec"] != "4" {
		Te.Errorf("precision metadata lost: %v", meta)
	}
	got := vec3.Zeros(1)
	if err := trajR.Next(got); err != nil {
		Te.Fatal(err)
	}
	for k := 0; k < 3; k++ {
		if math.Abs(got.At(0, k)-mat.At(0, k)) > 0.00005 {
			Te.Errorf("coord %d: got %f, want %f", k, got.At(0, k), mat.At(0, k))
		}
	}
	trajR.Close()
}
