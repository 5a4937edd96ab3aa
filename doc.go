/*
 * doc.go, part of mdsim.
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

// Package mdsim provides atom and molecule structures for preparing
// biomolecular structures for simulation, including reading and writing PDB
// files and splitting structures with alternate conformations into one clean
// structure file per conformer. The simulations themselves are delegated to
// external engines through the md subpackage; trajectory and observable
// files are handled by the traj and report subpackages.
//
// mdsim grew out of the computer exercises of an introductory statistical
// mechanics course, so the emphasis is on small, inspectable steps rather
// than on throughput.
package mdsim
