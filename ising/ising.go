/*
 * ising.go, part of mdsim
 *
 * Copyright 2026 The mdsim developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation, either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

//Package ising implements a 2D Ising lattice with 8-neighbour coupling
//and periodic boundaries, sampled with the Metropolis criterion. It is
//coursework material: a system small enough to watch equilibrate without
//an external engine.
package ising

import (
	"math"
	"math/rand"
)

//CriticalkT is the default temperature, the critical kT of the
//square-lattice Ising model (in units of the coupling constant).
var CriticalkT = 2 / math.Log(1+math.Sqrt2)

//A Lattice is an n x m grid of +1/-1 spins with periodic boundaries.
type Lattice struct {
	spins []int8
	n, m  int
	kT    float64
	rng   *rand.Rand
}

//New builds an n x m lattice of random spins at the critical
//temperature, using the given seed.
func New(n, m int, seed int64) *Lattice {
	L := &Lattice{
		spins: make([]int8, n*m),
		n:     n,
		m:     m,
		kT:    CriticalkT,
		rng:   rand.New(rand.NewSource(seed)),
	}
	for i := range L.spins {
		if L.rng.Intn(2) == 0 {
			L.spins[i] = -1
		} else {
			L.spins[i] = 1
		}
	}
	return L
}

//SetkT sets the temperature of the lattice, in units of the coupling
//constant.
func (L *Lattice) SetkT(kT float64) {
	L.kT = kT
}

//Dims returns the dimensions of the lattice.
func (L *Lattice) Dims() (n, m int) {
	return L.n, L.m
}

//Spin returns the spin at row i, column j.
func (L *Lattice) Spin(i, j int) int8 {
	return L.spins[i*L.m+j]
}

//neighbourSum adds the 8 Moore neighbours of (i, j), wrapping around
//the edges.
func (L *Lattice) neighbourSum(i, j int) int {
	n, m := L.n, L.m
	im, ip := (i-1+n)%n, (i+1)%n
	jm, jp := (j-1+m)%m, (j+1)%m
	s := int(L.spins[im*m+jm]) + int(L.spins[im*m+j]) + int(L.spins[im*m+jp])
	s += int(L.spins[i*m+jm]) + int(L.spins[i*m+jp])
	s += int(L.spins[ip*m+jm]) + int(L.spins[ip*m+j]) + int(L.spins[ip*m+jp])
	return s
}

//update applies the Metropolis criterion to the spin at (i, j).
func (L *Lattice) update(i, j int) {
	dE := 2 * float64(L.Spin(i, j)) * float64(L.neighbourSum(i, j))
	if dE <= 0 || math.Exp(-dE/L.kT) > L.rng.Float64() {
		L.spins[i*L.m+j] *= -1
	}
}

//Sweep updates every spin of the lattice once, even columns first and
//odd columns second, so neighbouring updates within a pass don't
//overlap.
func (L *Lattice) Sweep() {
	for i := 0; i < L.n; i++ {
		for j := 0; j < L.m; j += 2 {
			L.update(i, j)
		}
	}
	for i := 0; i < L.n; i++ {
		for j := 1; j < L.m; j += 2 {
			L.update(i, j)
		}
	}
}

//Magnetization returns the mean spin of the lattice.
func (L *Lattice) Magnetization() float64 {
	var s int
	for _, v := range L.spins {
		s += int(v)
	}
	return float64(s) / float64(len(L.spins))
}

//Energy returns the interaction energy per spin, in units of the
//coupling constant. Each neighbour pair is counted once.
func (L *Lattice) Energy() float64 {
	var e float64
	for i := 0; i < L.n; i++ {
		for j := 0; j < L.m; j++ {
			e += -float64(L.Spin(i, j)) * float64(L.neighbourSum(i, j))
		}
	}
	return e / (2 * float64(len(L.spins))) //every pair was visited twice
}

//Run performs the given number of sweeps, calling report every 'every'
//sweeps (and after the last one) with the sweep number and the current
//magnetization and energy per spin. A nil report is allowed.
func (L *Lattice) Run(sweeps, every int, report func(sweep int, m, e float64)) {
	if every <= 0 {
		every = 1
	}
	for s := 1; s <= sweeps; s++ {
		L.Sweep()
		if report != nil && (s%every == 0 || s == sweeps) {
			report(s, L.Magnetization(), L.Energy())
		}
	}
}
