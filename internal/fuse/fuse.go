//go:build linux
// +build linux

// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fuse

import (
	"context"
	"io"
	"os"
	"sort"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// PreviewFS is a flat, read-only directory of recovered names. File
// contents are read from the source fragments on demand.
type PreviewFS struct {
	entries map[string]Entry
	names   []string
}

func NewPreviewFS(entries []Entry) *PreviewFS {
	pfs := &PreviewFS{
		entries: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := pfs.entries[e.Name]; dup {
			continue
		}
		pfs.entries[e.Name] = e
		pfs.names = append(pfs.names, e.Name)
	}
	sort.Strings(pfs.names)
	return pfs
}

func (pfs *PreviewFS) Root() (fs.Node, error) {
	return &Dir{fs: pfs}, nil
}

type Dir struct {
	fs *PreviewFS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = 1
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	idx := sort.SearchStrings(d.fs.names, name)
	if idx == len(d.fs.names) || d.fs.names[idx] != name {
		return nil, syscall.ENOENT
	}
	return &File{entry: d.fs.entries[name], inode: uint64(idx) + 2}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirEntries := make([]fuse.Dirent, len(d.fs.names))
	for i, name := range d.fs.names {
		dirEntries[i] = fuse.Dirent{
			Inode: uint64(i) + 2,
			Name:  name,
			Type:  fuse.DT_File,
		}
	}
	return dirEntries, nil
}

type File struct {
	entry Entry
	inode uint64
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.inode
	a.Mode = 0444
	a.Size = f.entry.Size
	a.Mtime = f.entry.ModTime
	return nil
}

func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	if !req.Flags.IsReadOnly() {
		return nil, syscall.EROFS
	}

	src, err := os.Open(f.entry.Path)
	if err != nil {
		return nil, err
	}
	return &FileHandle{f: src, size: f.entry.Size}, nil
}

// FileHandle reads from an open source fragment.
type FileHandle struct {
	f    *os.File
	size uint64
}

func (h *FileHandle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := int(req.Size)
	offset := req.Offset

	if offset >= int64(h.size) {
		// Trying to read past EOF
		resp.Data = []byte{}
		return nil
	}

	// Clamp size if reading near EOF
	if offset+int64(size) > int64(h.size) {
		size = int(int64(h.size) - offset)
	}

	buf := make([]byte, size)

	n, err := h.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}

	resp.Data = buf[:n]
	return nil
}

func (h *FileHandle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	return h.f.Close()
}
