// Package cache is an on-disk, content-addressed cache of compiled pack
// output directories, so cmd/mcscriptc build can skip code generation
// entirely when none of a namespace's sources changed since the last
// build. It gzip-compresses a tar of the pack directory under a SHA256
// key and runs size-capped LRU eviction, the same scheme the teacher
// uses for its compiled-binary cache.
package cache

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const maxBytes = 10 * 1024 * 1024 * 1024 // 10 GB

// Dir returns the base directory for the pack cache.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "mcscript", "packcache"), nil
}

// Key hashes the concatenation of every source file's content (in the
// order given) into a stable cache key.
func Key(sources []string) string {
	h := sha256.New()
	for _, s := range sources {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// Lookup returns the path to the cached archive for key, touching its
// mtime for LRU purposes, or ("", false) on a miss.
func Lookup(key string) (string, bool) {
	dir, err := Dir()
	if err != nil {
		return "", false
	}
	cached := filepath.Join(dir, key+".tar.gz")
	if _, err := os.Stat(cached); err != nil {
		return "", false
	}
	now := time.Now()
	os.Chtimes(cached, now, now)
	return cached, true
}

// Store archives packDir and stores it under key, then runs eviction if
// the cache now exceeds its size cap.
func Store(key, packDir string) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	dest := filepath.Join(dir, key+".tar.gz")
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	gw, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(gw)

	err = filepath.Walk(packDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(packDir, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = tw.Write(data)
		return err
	})
	if err != nil {
		tw.Close()
		gw.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return err
	}

	evict(dir)
	return nil
}

// Extract unpacks the archive at archivePath into destDir.
func Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		dest := filepath.Join(destDir, hdr.Name)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		out.Close()
	}
}

// evict removes the oldest entries until the cache is under the size cap.
func evict(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	type entry struct {
		path    string
		size    int64
		modTime time.Time
	}

	var files []entry
	var totalSize int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		files = append(files, entry{path: path, size: info.Size(), modTime: info.ModTime()})
		totalSize += info.Size()
	}

	if totalSize <= maxBytes {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for _, f := range files {
		if totalSize <= maxBytes {
			break
		}
		os.Remove(f.path)
		totalSize -= f.size
	}
}
