// Package freesurfer provides reading and writing of FreeSurfer
// neuroimaging file formats.
//
// FreeSurfer is a brain-MRI reconstruction pipeline whose outputs include
// triangular surface meshes (surf files), per-vertex scalar morphometry
// data (curv files), sparse vertex or voxel groups (label files), surface
// parcellations with embedded color tables (annot files), and voxel
// volumes (MGH/MGZ files). All binary formats are big-endian. Surface,
// curv and volume files may be transparently gzip-compressed, selected by
// the file name suffix.
package freesurfer

import "errors"

// Format errors. Each decode either succeeds completely or returns one of
// these (or a wrapped I/O error) with no partial result.
var (
	// ErrInvalidSurfaceFormat is returned when a surf file's 24-bit magic
	// number matches neither supported triangle-mesh constant.
	ErrInvalidSurfaceFormat = errors.New("freesurfer: invalid surface file format")

	// ErrInvalidCurvFormat is returned when a curv file's 24-bit magic
	// number is wrong.
	ErrInvalidCurvFormat = errors.New("freesurfer: invalid curv file format")

	// ErrMalformedLabel is returned when a label file's declared entry
	// count does not match the number of data lines present.
	ErrMalformedLabel = errors.New("freesurfer: malformed label file")

	// ErrUnsupportedAnnotVersion is returned when an annot file does not
	// carry a colortable or uses a colortable format other than version 2.
	ErrUnsupportedAnnotVersion = errors.New("freesurfer: unsupported annot file format version")

	// ErrInvalidMghFormat is returned when an MGH header's format version
	// is not the supported version 1.
	ErrInvalidMghFormat = errors.New("freesurfer: invalid MGH file format")

	// ErrUnsupportedMghDataType is returned when an MGH header's data type
	// tag is not one of MRI_UCHAR, MRI_INT, MRI_FLOAT or MRI_SHORT.
	ErrUnsupportedMghDataType = errors.New("freesurfer: invalid or unsupported MGH data type")

	// ErrNoRasInformation is returned when the vox2ras transform is
	// requested from a header whose RAS-good flag is not set.
	ErrNoRasInformation = errors.New("freesurfer: MGH header contains no valid RAS information")
)
