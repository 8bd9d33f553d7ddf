// Package hdf5 is a thin cgo shim over the HDF5 C library, exposing
// exactly the surface the HDF5 sink needs: file and group handles,
// offset-addressed compound datatypes, and chunked extendible 1-D
// datasets. Every call that returns a negative status surfaces as a
// file error carrying the originating call's name.
package hdf5

/*
#cgo LDFLAGS: -lhdf5
#include <stdlib.h>
#include <hdf5.h>

// The H5T_NATIVE_* and H5S/H5P default macros expand to runtime
// expressions cgo cannot evaluate; expose them as functions.
static hid_t tabula_native_uchar(void)   { return H5T_NATIVE_UCHAR; }
static hid_t tabula_native_int8(void)    { return H5T_NATIVE_INT8; }
static hid_t tabula_native_int16(void)   { return H5T_NATIVE_INT16; }
static hid_t tabula_native_int32(void)   { return H5T_NATIVE_INT32; }
static hid_t tabula_native_int64(void)   { return H5T_NATIVE_INT64; }
static hid_t tabula_native_uint8(void)   { return H5T_NATIVE_UINT8; }
static hid_t tabula_native_uint16(void)  { return H5T_NATIVE_UINT16; }
static hid_t tabula_native_uint32(void)  { return H5T_NATIVE_UINT32; }
static hid_t tabula_native_uint64(void)  { return H5T_NATIVE_UINT64; }
static hid_t tabula_native_float(void)   { return H5T_NATIVE_FLOAT; }
static hid_t tabula_native_double(void)  { return H5T_NATIVE_DOUBLE; }
static hid_t tabula_c_s1(void)           { return H5T_C_S1; }
static hid_t tabula_p_default(void)      { return H5P_DEFAULT; }
static hid_t tabula_s_all(void)          { return H5S_ALL; }
static hid_t tabula_p_dataset_create(void) { return H5P_DATASET_CREATE; }
static unsigned tabula_acc_trunc(void)   { return H5F_ACC_TRUNC; }
static unsigned tabula_acc_rdwr(void)    { return H5F_ACC_RDWR; }
static hsize_t tabula_s_unlimited(void)  { return H5S_UNLIMITED; }

static void tabula_silence_errors(void) {
	H5Eset_auto2(H5E_DEFAULT, NULL, NULL);
}
*/
import "C"

import (
	"unsafe"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

func init() {
	C.H5open()
	// The library prints its own error stack by default; errors are
	// surfaced to the caller instead.
	C.tabula_silence_errors()
}

// checkID validates a handle-returning call.
func checkID(id C.hid_t, call string) (C.hid_t, error) {
	if id < 0 {
		return -1, errors.New(errors.ErrorTypeFile, call)
	}
	return id, nil
}

// checkErr validates a status-returning call.
func checkErr(rc C.herr_t, call string) error {
	if rc < 0 {
		return errors.New(errors.ErrorTypeFile, call)
	}
	return nil
}

// File is an open HDF5 file.
type File struct {
	id C.hid_t
}

// CreateFile creates a new HDF5 file, truncating an existing one.
func CreateFile(path string) (*File, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	id, err := checkID(C.H5Fcreate(cpath, C.tabula_acc_trunc(), C.tabula_p_default(), C.tabula_p_default()),
		"H5Fcreate")
	if err != nil {
		return nil, err
	}
	return &File{id: id}, nil
}

// OpenFileRW opens an existing HDF5 file for reading and writing.
func OpenFileRW(path string) (*File, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	id, err := checkID(C.H5Fopen(cpath, C.tabula_acc_rdwr(), C.tabula_p_default()), "H5Fopen")
	if err != nil {
		return nil, err
	}
	return &File{id: id}, nil
}

// Close closes the file.
func (f *File) Close() error {
	return checkErr(C.H5Fclose(f.id), "H5Fclose")
}

// Root opens the file's root group as a dataset location.
func (f *File) Root() (*Location, error) {
	cname := C.CString("/")
	defer C.free(unsafe.Pointer(cname))
	id, err := checkID(C.H5Gopen2(f.id, cname, C.tabula_p_default()), "H5Gopen2")
	if err != nil {
		return nil, err
	}
	return &Location{id: id}, nil
}

// Location is a reference-counted group identifier used as the home of
// datasets.
type Location struct {
	id C.hid_t
}

// NewLocation adopts an existing group or file identifier, incrementing
// its reference count. The caller keeps its own reference.
func NewLocation(id int64) (*Location, error) {
	if _, err := checkID(C.hid_t(C.H5Iinc_ref(C.hid_t(id))), "H5Iinc_ref"); err != nil {
		return nil, err
	}
	return &Location{id: C.hid_t(id)}, nil
}

// ID returns the raw identifier.
func (l *Location) ID() int64 { return int64(l.id) }

// Close decrements the reference count acquired at construction.
func (l *Location) Close() error {
	if _, err := checkID(C.hid_t(C.H5Idec_ref(l.id)), "H5Idec_ref"); err != nil {
		return err
	}
	return nil
}

// Exists reports whether a link of the given name is present at the
// location.
func (l *Location) Exists(name string) (bool, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	rc := C.H5Lexists(l.id, cname, C.tabula_p_default())
	if rc < 0 {
		return false, errors.New(errors.ErrorTypeFile, "H5Lexists")
	}
	return rc > 0, nil
}

// Unlink removes the link of the given name from the location.
func (l *Location) Unlink(name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return checkErr(C.H5Ldelete(l.id, cname, C.tabula_p_default()), "H5Ldelete")
}

// CreateDataset creates a 1-D extendible chunked dataset of the given
// element type, with initial length 0 and unlimited maximum length.
func (l *Location) CreateDataset(name string, dt *Datatype, chunk int) (*Dataset, error) {
	zero := C.hsize_t(0)
	max := C.tabula_s_unlimited()
	space, err := checkID(C.H5Screate_simple(1, &zero, &max), "H5Screate_simple")
	if err != nil {
		return nil, err
	}
	defer C.H5Sclose(space)

	props, err := checkID(C.H5Pcreate(C.tabula_p_dataset_create()), "H5Pcreate")
	if err != nil {
		return nil, err
	}
	defer C.H5Pclose(props)
	cdim := C.hsize_t(chunk)
	if err := checkErr(C.H5Pset_chunk(props, 1, &cdim), "H5Pset_chunk"); err != nil {
		return nil, err
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id, err := checkID(C.H5Dcreate2(l.id, cname, dt.id, space,
		C.tabula_p_default(), props, C.tabula_p_default()), "H5Dcreate2")
	if err != nil {
		return nil, err
	}
	return &Dataset{id: id}, nil
}

// OpenDataset opens an existing dataset at the location.
func (l *Location) OpenDataset(name string) (*Dataset, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id, err := checkID(C.H5Dopen2(l.id, cname, C.tabula_p_default()), "H5Dopen2")
	if err != nil {
		return nil, err
	}
	return &Dataset{id: id}, nil
}

// Datatype is an HDF5 datatype handle. Predefined native types are
// process-global and must not be closed.
type Datatype struct {
	id         C.hid_t
	predefined bool
}

// NewCompound creates a compound datatype of the given byte extent.
func NewCompound(size int) (*Datatype, error) {
	id, err := checkID(C.H5Tcreate(C.H5T_COMPOUND, C.size_t(size)), "H5Tcreate")
	if err != nil {
		return nil, err
	}
	return &Datatype{id: id}, nil
}

// NewFixedString creates a fixed-length string type of the given byte
// size, NUL terminator included.
func NewFixedString(size int) (*Datatype, error) {
	id, err := checkID(C.H5Tcopy(C.tabula_c_s1()), "H5Tcopy")
	if err != nil {
		return nil, err
	}
	if err := checkErr(C.H5Tset_size(id, C.size_t(size)), "H5Tset_size"); err != nil {
		C.H5Tclose(id)
		return nil, err
	}
	return &Datatype{id: id}, nil
}

// Insert adds a member to a compound datatype at the given byte offset.
func (t *Datatype) Insert(name string, offset int, member *Datatype) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return checkErr(C.H5Tinsert(t.id, cname, C.size_t(offset), member.id), "H5Tinsert")
}

// Equal reports whether two datatypes are the same type.
func (t *Datatype) Equal(o *Datatype) (bool, error) {
	rc := C.H5Tequal(t.id, o.id)
	if rc < 0 {
		return false, errors.New(errors.ErrorTypeFile, "H5Tequal")
	}
	return rc > 0, nil
}

// Close releases the datatype. A no-op on predefined native types.
func (t *Datatype) Close() error {
	if t.predefined {
		return nil
	}
	return checkErr(C.H5Tclose(t.id), "H5Tclose")
}

// Predefined native types, matching the machine's in-memory scalar
// representations.
func NativeUChar() *Datatype  { return &Datatype{id: C.tabula_native_uchar(), predefined: true} }
func NativeInt8() *Datatype   { return &Datatype{id: C.tabula_native_int8(), predefined: true} }
func NativeInt16() *Datatype  { return &Datatype{id: C.tabula_native_int16(), predefined: true} }
func NativeInt32() *Datatype  { return &Datatype{id: C.tabula_native_int32(), predefined: true} }
func NativeInt64() *Datatype  { return &Datatype{id: C.tabula_native_int64(), predefined: true} }
func NativeUint8() *Datatype  { return &Datatype{id: C.tabula_native_uint8(), predefined: true} }
func NativeUint16() *Datatype { return &Datatype{id: C.tabula_native_uint16(), predefined: true} }
func NativeUint32() *Datatype { return &Datatype{id: C.tabula_native_uint32(), predefined: true} }
func NativeUint64() *Datatype { return &Datatype{id: C.tabula_native_uint64(), predefined: true} }
func NativeFloat() *Datatype  { return &Datatype{id: C.tabula_native_float(), predefined: true} }
func NativeDouble() *Datatype { return &Datatype{id: C.tabula_native_double(), predefined: true} }

// Dataset is an open 1-D dataset handle.
type Dataset struct {
	id C.hid_t
}

// Close closes the dataset.
func (d *Dataset) Close() error {
	return checkErr(C.H5Dclose(d.id), "H5Dclose")
}

// Datatype returns a copy of the dataset's element type.
func (d *Dataset) Datatype() (*Datatype, error) {
	id, err := checkID(C.H5Dget_type(d.id), "H5Dget_type")
	if err != nil {
		return nil, err
	}
	return &Datatype{id: id}, nil
}

// Extent returns the current length of the dataset.
func (d *Dataset) Extent() (int, error) {
	space, err := checkID(C.H5Dget_space(d.id), "H5Dget_space")
	if err != nil {
		return 0, err
	}
	defer C.H5Sclose(space)
	var dim, max C.hsize_t
	if C.H5Sget_simple_extent_dims(space, &dim, &max) < 0 {
		return 0, errors.New(errors.ErrorTypeFile, "H5Sget_simple_extent_dims")
	}
	return int(dim), nil
}

// SetExtent resizes the dataset to n elements.
func (d *Dataset) SetExtent(n int) error {
	dim := C.hsize_t(n)
	return checkErr(C.H5Dset_extent(d.id, &dim), "H5Dset_extent")
}

// WriteSlab writes one element at the given index from buf, which must
// hold exactly one element image of type dt.
func (d *Dataset) WriteSlab(index int, dt *Datatype, buf []byte) error {
	fspace, err := checkID(C.H5Dget_space(d.id), "H5Dget_space")
	if err != nil {
		return err
	}
	defer C.H5Sclose(fspace)

	start := C.hsize_t(index)
	count := C.hsize_t(1)
	if err := checkErr(C.H5Sselect_hyperslab(fspace, C.H5S_SELECT_SET,
		&start, nil, &count, nil), "H5Sselect_hyperslab"); err != nil {
		return err
	}

	mspace, err := checkID(C.H5Screate(C.H5S_SCALAR), "H5Screate")
	if err != nil {
		return err
	}
	defer C.H5Sclose(mspace)

	return checkErr(C.H5Dwrite(d.id, dt.id, mspace, fspace,
		C.tabula_p_default(), unsafe.Pointer(&buf[0])), "H5Dwrite")
}

// ReadAll reads the whole dataset as n elements of rowSize bytes each.
// Used by tests to verify round-trips.
func (d *Dataset) ReadAll(dt *Datatype, rowSize int) ([]byte, int, error) {
	n, err := d.Extent()
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, nil
	}
	buf := make([]byte, n*rowSize)
	if err := checkErr(C.H5Dread(d.id, dt.id, C.tabula_s_all(), C.tabula_s_all(),
		C.tabula_p_default(), unsafe.Pointer(&buf[0])), "H5Dread"); err != nil {
		return nil, 0, err
	}
	return buf, n, nil
}
