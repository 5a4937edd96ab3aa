/*
 * ising_test.go
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

package ising

import (
	"math"
	"testing"
)

func TestLatticeInvariants(Te *testing.T) {
	L := New(16, 16, 42)
	n, m := L.Dims()
	if n != 16 || m != 16 {
		Te.Fatalf("wrong dimensions: %d x %d", n, m)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if s := L.Spin(i, j); s != 1 && s != -1 {
				Te.Fatalf("spin (%d,%d) is %d", i, j, s)
			}
		}
	}
	mag := L.Magnetization()
	if mag < -1 || mag > 1 {
		Te.Errorf("magnetization out of range: %f", mag)
	}
	//8 neighbours per spin: energy per spin is bounded by 4 pairs
	if e := L.Energy(); e < -4 || e > 4 {
		Te.Errorf("energy out of range: %f", e)
	}
	L.Sweep()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if s := L.Spin(i, j); s != 1 && s != -1 {
				Te.Fatalf("spin (%d,%d) corrupted after sweep: %d", i, j, s)
			}
		}
	}
}

//same seed, same trajectory.
func TestLatticeDeterminism(Te *testing.T) {
	a := New(12, 12, 7)
	b := New(12, 12, 7)
	for s := 0; s < 20; s++ {
		a.Sweep()
		b.Sweep()
	}
	if a.Magnetization() != b.Magnetization() || a.Energy() != b.Energy() {
		Te.Error("same seed gave different trajectories")
	}
	n, m := a.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if a.Spin(i, j) != b.Spin(i, j) {
				Te.Fatalf("lattices diverge at (%d,%d)", i, j)
			}
		}
	}
}

//well below the critical temperature an ordered lattice stays ordered.
func TestLatticeColdOrder(Te *testing.T) {
	L := New(16, 16, 3)
	L.SetkT(0.1)
	//order it by hand
	for i := range L.spins {
		L.spins[i] = 1
	}
	for s := 0; s < 10; s++ {
		L.Sweep()
	}
	if m := L.Magnetization(); m < 0.95 {
		Te.Errorf("cold ordered lattice melted: m = %f", m)
	}
	//fully ordered energy per spin is -4 (8 neighbours, pairs counted once)
	if e := L.Energy(); math.Abs(e-(-4)) > 0.5 {
		Te.Errorf("cold ordered lattice energy: %f", e)
	}
}

func TestLatticeRun(Te *testing.T) {
	L := New(8, 8, 1)
	var calls int
	var last int
	L.Run(10, 3, func(sweep int, m, e float64) {
		calls++
		last = sweep
		if m < -1 || m > 1 {
			Te.Errorf("bad magnetization at sweep %d: %f", sweep, m)
		}
	})
	//sweeps 3, 6, 9 and the final 10
	if calls != 4 || last != 10 {
		Te.Errorf("wrong reporting: %d calls, last %d", calls, last)
	}
}
