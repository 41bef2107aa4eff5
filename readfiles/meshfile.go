package readfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gocross/mesh"
)

type FileType int

const (
	FileGmsh FileType = iota
	FileSU2
)

func (ft FileType) String() string {
	switch ft {
	case FileGmsh:
		return "gmsh"
	case FileSU2:
		return "su2"
	}
	return fmt.Sprintf("FileType(%d)", int(ft))
}

// FileTypeOf identifies the mesh format from the file extension
func FileTypeOf(filename string) (ft FileType, err error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".msh":
		return FileGmsh, nil
	case ".su2":
		return FileSU2, nil
	}
	err = fmt.Errorf("%w: %s, use .msh or .su2", ErrUnknown, filename)
	return
}

// ReadMeshFile reads a .msh or .su2 file into a mesh source
func ReadMeshFile(filename string) (src *mesh.MemSource, err error) {
	var (
		file *os.File
		ft   FileType
	)
	if ft, err = FileTypeOf(filename); err != nil {
		return
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	switch ft {
	case FileGmsh:
		src, _, err = ReadGmsh22(file)
	case FileSU2:
		src, _, err = ReadSU2(file)
	}
	if err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
	}
	return
}

// WriteMeshFile writes src in the format given by the file extension
func WriteMeshFile(filename string, src mesh.Source) (err error) {
	var (
		file *os.File
		ft   FileType
	)
	if ft, err = FileTypeOf(filename); err != nil {
		return
	}
	if file, err = os.Create(filename); err != nil {
		return
	}
	switch ft {
	case FileGmsh:
		err = WriteGmsh22(file, src)
	case FileSU2:
		err = WriteSU2(file, src)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return
}
