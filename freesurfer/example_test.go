package freesurfer_test

import (
	"fmt"
	"log"

	"github.com/neurofs/go-freesurfer/freesurfer"
)

// Reading a brain surface mesh together with per-vertex cortical
// thickness data, which associates with the mesh vertices by position.
func Example() {
	surf, err := freesurfer.ReadSurface("subjects_dir/subject1/surf/lh.white")
	if err != nil {
		log.Fatal(err)
	}
	thickness, err := freesurfer.ReadCurv("subjects_dir/subject1/surf/lh.thickness")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d vertices, %d faces, %d thickness values\n",
		surf.Mesh.VertexCount(), surf.Mesh.FaceCount(), len(thickness.Data))
}

// Listing the brain regions of a surface parcellation and the vertices
// assigned to one of them.
func ExampleReadAnnot() {
	annot, err := freesurfer.ReadAnnot("subjects_dir/subject1/label/lh.aparc.annot")
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range annot.Regions() {
		fmt.Println(name)
	}
	verts, err := annot.RegionVertices("bankssts")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("bankssts covers %d vertices\n", len(verts))
}

// Deriving the voxel-to-physical-space transform of a volume.
func ExampleMghHeader_Vox2Ras() {
	mgh, err := freesurfer.ReadMgh("subjects_dir/subject1/mri/brain.mgz")
	if err != nil {
		log.Fatal(err)
	}
	vox2ras, err := mgh.Header.Vox2Ras()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(vox2ras.At(0, 3), vox2ras.At(1, 3), vox2ras.At(2, 3))
}
