/*
 * dcd.go, part of mdsim
 *
 * Copyright 2026 The mdsim developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

//Package dcd reads and writes Charmm/NAMD-style binary DCD trajectories.
package dcd

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"runtime"

	"github.com/quimlab/mdsim/vec3"
)

const mAXTITLE int32 = 80

//DCDObj is a container for a Charmm/NAMD binary trajectory file
//opened for reading.
type DCDObj struct {
	natoms     int32
	readLast   bool //Have we read the last frame?
	readable   bool //Is it ready to be read?
	filename   string
	charmm     bool //Charmm traj?
	extrablock bool
	fourdim    bool
	fixed      int32    //Fixed atoms (not supported)
	dcd        *os.File //The DCD file
	dcdFields  [][]float32
	endian     binary.ByteOrder
}

//New builds a new DCDObj for reading from filename, which must be a
//valid DCD file.
func New(filename string) (*DCDObj, error) {
	traj := new(DCDObj)
	traj.filename = filename
	if err := traj.initRead(filename); err != nil {
		return nil, errDecorate(err, "New")
	}
	traj.dcdFields = make([][]float32, 3, 3)
	traj.dcdFields[0] = make([]float32, int(traj.natoms), int(traj.natoms))
	traj.dcdFields[1] = make([]float32, int(traj.natoms), int(traj.natoms))
	traj.dcdFields[2] = make([]float32, int(traj.natoms), int(traj.natoms))
	return traj, nil
}

//Readable returns true if the object is ready to be read from,
//false otherwise. It doesn't guarantee that there is something
//to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

//initRead initializes a DCDObj for reading.
//It supports big and little endianness, Charmm or namd>=2.1 files, and no
//fixed atoms.
func (D *DCDObj) initRead(name string) error {
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Read", "initRead"}, true}
	}
	NB := bytes.NewBuffer //shortness sake
	D.endian = binary.LittleEndian
	var err error
	D.dcd, err = os.Open(name)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Open", "initRead"}, true}
	}
	var check int32
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	//The first thing in the file must be an 84. If we don't see it,
	//the file is big endian.
	if check != 84 {
		D.endian = binary.BigEndian
	}
	//Then the magic number "CORD".
	magic := make([]byte, 4, 4)
	if err := binary.Read(D.dcd, D.endian, magic); err != nil {
		return wrapbinerr(err)
	}
	if string(magic) != "CORD" {
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	//We read a big chunk for random access.
	buf := make([]byte, 80, 80)
	if err := binary.Read(D.dcd, D.endian, buf); err != nil {
		return wrapbinerr(err)
	}
	//X-plor sets this last int to zero, Charmm sets it to its version number.
	//if we have a Charmm file we get some additional flags.
	if err := binary.Read(NB(buf[76:]), D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 0 {
		D.charmm = true
		if err := binary.Read(NB(buf[40:]), D.endian, &check); err != nil {
			return wrapbinerr(err)
		}
		if check != 0 {
			D.extrablock = true
		}
		if err := binary.Read(NB(buf[44:]), D.endian, &check); err != nil {
			return wrapbinerr(err)
		}
		if check == 1 {
			D.fourdim = true
		}
	} else {
		return Error{"X-plor DCD not supported", D.filename, []string{"initRead"}, true}
	}
	if err := binary.Read(NB(buf[32:]), D.endian, &D.fixed); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 84 {
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	var inputInt int32
	if err := binary.Read(D.dcd, D.endian, &inputInt); err != nil {
		return wrapbinerr(err)
	}
	//how many units of mAXTITLE does the title have?
	var ntitle int32
	if err := binary.Read(D.dcd, D.endian, &ntitle); err != nil {
		return wrapbinerr(err)
	}
	title := make([]byte, mAXTITLE*ntitle, mAXTITLE*ntitle)
	if err := binary.Read(D.dcd, D.endian, title); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &inputInt); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 4 { //one must read a 4 before the natoms
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	if err := binary.Read(D.dcd, D.endian, &D.natoms); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 4 { //and one more 4
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	if D.fixed != 0 {
		return Error{"Fixed atoms not supported", D.filename, []string{"initRead"}, true}
	}
	runtime.SetFinalizer(D, func(D *DCDObj) {
		D.dcd.Close()
	})
	D.readable = true
	return nil
}

//Next reads the next frame in a DCDObj that has been initialized for
//reading, and puts the coordinates in keep, which must have one row per
//atom in the trajectory. If keep is nil, the frame is discarded. The box,
//if given, is not filled, it is only accepted for compatibility.
func (D *DCDObj) Next(keep *vec3.Matrix, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIniRead, D.filename, []string{"Next"}, true}
	}
	if err := D.nextRaw(D.dcdFields); err != nil {
		return errDecorate(D.eof2LastFrame(err), "Next")
	}
	if keep == nil {
		return nil
	}
	if int32(keep.NVecs()) < D.natoms {
		return Error{NotEnoughSpace, D.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(D.natoms); i++ {
		keep.Set(i, 0, float64(D.dcdFields[0][i]))
		keep.Set(i, 1, float64(D.dcdFields[1][i]))
		keep.Set(i, 2, float64(D.dcdFields[2][i]))
	}
	return nil
}

func (D *DCDObj) nextRaw(blocks [][]float32) error {
	if len(blocks[0]) != int(D.natoms) || len(blocks[1]) != int(D.natoms) || len(blocks[2]) != int(D.natoms) {
		return Error{NotEnoughSpace, D.filename, []string{"nextRaw"}, true}
	}
	if D.readLast {
		D.readable = false
		return newlastFrameError(D.filename, "nextRaw")
	}
	//If there is an extra block we just skip it.
	//Even when there is an extra block, it is not present in all
	//snapshots for some trajectories, so we must use the block size to see if
	//there is an extra block or if the X block starts immediately.
	var blocksize int32
	if D.extrablock {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return D.asEOF(err, "nextRaw")
		}
		//If the blocksize is 4*natoms the block is not an
		//extra block, but the X coordinates, and we must not skip it.
		if blocksize != D.natoms*4 {
			if _, err := D.readByteBlock(blocksize); err != nil {
				return err
			}
			blocksize = 0
		}
	}
	//now get the coords, each as a slice of float32.
	//We collect the X block size only if it was not collected before.
	if blocksize == 0 {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return D.asEOF(err, "nextRaw")
		}
	}
	if err := D.readFloat32Block(blocksize, blocks[0]); err != nil {
		return err
	}
	//Y
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return D.asEOF(err, "nextRaw")
	}
	if err := D.readFloat32Block(blocksize, blocks[1]); err != nil {
		return err
	}
	//Z
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return D.asEOF(err, "nextRaw")
	}
	if err := D.readFloat32Block(blocksize, blocks[2]); err != nil {
		return err
	}
	//we skip the 4-D values if they exist. They are not present in the
	//last snapshot, so an EOF here signals that we just read the last one.
	if D.charmm && D.fourdim {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			if err == io.EOF {
				D.readLast = true
			} else {
				return Error{err.Error(), D.filename, []string{"binary.Read", "nextRaw"}, true}
			}
		}
		if !D.readLast {
			if _, err := D.readByteBlock(blocksize); err != nil {
				return err
			}
		}
	}
	return nil
}

//readFloat32Block reads a block of float32, which must have the given
//blocksize in bytes, and checks the trailing size marker.
func (D *DCDObj) readFloat32Block(blocksize int32, block []float32) error {
	var check int32
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return D.asEOF(err, "readFloat32Block")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return D.asEOF(err, "readFloat32Block")
	}
	if check != blocksize {
		return Error{WrongFormat, D.filename, []string{"readFloat32Block"}, true}
	}
	return nil
}

//readByteBlock reads a blocksize-sized block of bytes and checks the
//trailing size marker. Used to skip blocks we don't care about.
func (D *DCDObj) readByteBlock(blocksize int32) ([]byte, error) {
	var check int32
	block := make([]byte, blocksize, blocksize)
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return nil, D.asEOF(err, "readByteBlock")
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return nil, D.asEOF(err, "readByteBlock")
	}
	if check != blocksize {
		return nil, Error{SecurityCheckFailed, D.filename, []string{"readByteBlock"}, true}
	}
	return block, nil
}

//Len returns the number of atoms per frame in the DCDObj.
//The DCDObj must be initialized. 0 means an uninitialized object.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

//Close closes the underlying trajectory file.
func (D *DCDObj) Close() {
	if D.dcd != nil {
		D.dcd.Close()
	}
	D.readable = false
}

func (D *DCDObj) asEOF(err error, caller string) error {
	if err == io.EOF {
		D.readable = false
		return newlastFrameError(D.filename, caller)
	}
	return Error{err.Error(), D.filename, []string{caller}, true}
}

func (D *DCDObj) eof2LastFrame(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		D.readable = false
		return newlastFrameError(D.filename, "Next")
	}
	return err
}
